// Package cli implements the moviebook command line client on top of the
// session store and the request gateway.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/Clark-Hu/moviebooking/internal/config"
	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/gateway"
	"github.com/Clark-Hu/moviebooking/internal/session"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

// ErrNotLoggedIn is returned by commands that need a session when none is
// stored.
var ErrNotLoggedIn = errors.New("not logged in; run 'moviebook login' first")

// Env carries the process dependencies of a run.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives diagnostics. When nil, diagnostics go to Stderr with
	// --verbose and are dropped otherwise.
	Logger *log.Logger
	// Storage replaces the configured session backend.
	Storage session.Storage
	// ReadPassword reads a secret without echo. When nil, a line is read
	// from Stdin.
	ReadPassword func(prompt string) (string, error)
	// HTTPClient is handed to the gateway.
	HTTPClient *http.Client
}

type app struct {
	cfg     config.Client
	env     Env
	logger  *log.Logger
	format  string
	stdin   *bufio.Reader
	session *session.Store
	client  *gateway.Client
}

// Run parses args and executes one command.
func Run(ctx context.Context, cfg config.Client, args []string, env Env) error {
	if env.Stdin == nil {
		env.Stdin = strings.NewReader("")
	}
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}
	a := &app{cfg: cfg, env: env, format: formatTable, stdin: bufio.NewReader(env.Stdin)}

	global := pflag.NewFlagSet("moviebook", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	a.bindOutput(global)
	global.StringVar(&a.cfg.APIURL, "api-url", cfg.APIURL, "backend base URL")
	global.StringVar(&a.cfg.Profile, "profile", cfg.Profile, "session profile name")
	verbose := global.BoolP("verbose", "v", false, "log diagnostics to stderr")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printCommands(env.Stdout, a.commands())
			return nil
		}
		return err
	}

	rest := global.Args()
	commands := a.commands()
	if len(rest) == 0 || isHelpFlag(rest[0]) {
		printCommands(env.Stdout, commands)
		return nil
	}
	cmd := findCommand(commands, rest[0])
	if cmd == nil {
		return fmt.Errorf("unknown command %q\n\nRun 'moviebook --help' for usage.", rest[0])
	}
	if len(rest) > 1 && isHelpFlag(rest[1]) {
		cmd.printHelp(env.Stdout)
		return nil
	}

	a.logger = env.Logger
	if a.logger == nil {
		out := io.Discard
		if *verbose {
			out = env.Stderr
		}
		a.logger = log.New(out, "[moviebook] ", log.LstdFlags)
	}

	closeStorage, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer closeStorage()

	run := cmd.Run
	cmd.Run = func(ctx context.Context, args []string) error {
		if err := a.checkFormat(); err != nil {
			return err
		}
		if !cmd.Public && !a.session.IsAuthenticated() {
			return ErrNotLoggedIn
		}
		return run(ctx, args)
	}
	return cmd.execute(ctx, rest[1:], env.Stdout)
}

func findCommand(commands []*Command, name string) *Command {
	for _, c := range commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (a *app) connect(ctx context.Context) (func(), error) {
	storage, closeStorage := a.env.Storage, func() {}
	if storage == nil {
		var err error
		storage, closeStorage, err = openStorage(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, err
		}
	}

	opts := gateway.Options{
		Timeout:    time.Duration(a.cfg.TimeoutSecs) * time.Second,
		Logger:     a.logger,
		HTTPClient: a.env.HTTPClient,
	}
	auth, err := gateway.NewAuthClient(a.cfg.APIURL, opts)
	if err != nil {
		closeStorage()
		return nil, err
	}
	a.session = session.Open(ctx, auth, storage, session.Options{AutoLogin: a.cfg.AutoLogin, Logger: a.logger})
	a.client, err = gateway.New(a.cfg.APIURL, a.session, a.navigate, opts)
	if err != nil {
		closeStorage()
		return nil, err
	}
	return closeStorage, nil
}

// navigate is the forced-logout hook: the session is already gone, so the
// user is pointed back at the login command.
func (a *app) navigate(_ context.Context, err error) {
	a.logger.Printf("forced logout: %v", err)
	fmt.Fprintln(a.env.Stderr, "Your session has expired or is no longer valid. Run 'moviebook login' to sign in again.")
}

func (a *app) currentUser() domain.User {
	u, _ := a.session.User()
	return u
}

// checkForm runs the client-side rules for form and converts a failure into
// a validation error carrying every field message.
func checkForm(op string, form any) error {
	res := validate.Check(form)
	if res.Valid {
		return nil
	}
	return &domain.Error{Op: op, Kind: domain.ErrValidation, Message: res.First(form), Fields: res.Errors}
}

// Report prints err for a terminal user, one line per field error.
func Report(w io.Writer, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	msg := derr.Message
	if msg == "" {
		msg = derr.Kind.Error()
	}
	if derr.Err != nil {
		msg += ": " + derr.Err.Error()
	}
	fmt.Fprintf(w, "error: %s\n", msg)

	fields := domain.FieldErrors(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 when the user has to (re)authenticate, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, ErrNotLoggedIn):
		return 2
	}
	return 1
}
