package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

func (a *app) commands() []*Command {
	return []*Command{
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.resetPasswordCommand(),
		a.moviesCommand(),
		a.searchCommand(),
		a.bookCommand(),
		a.ticketsCommand(),
		a.ticketStatusCommand(),
		a.addMovieCommand(),
		a.updateMovieCommand(),
		a.deleteCommand(),
		a.reviewsCommand(),
		a.userReviewsCommand(),
		a.reviewCommand(),
		a.helpfulCommand(),
	}
}

func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	a.bindOutput(fs)
	return fs
}

func (a *app) loginCommand() *Command {
	var username, password string
	return &Command{
		Name:    "login",
		Summary: "Sign in and remember the session",
		Usage:   "moviebook login [--username NAME] [--password PASS]",
		Public:  true,
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("login")
			fs.StringVarP(&username, "username", "u", "", "account name (prompted when omitted)")
			fs.StringVarP(&password, "password", "p", "", "password (prompted without echo when omitted)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("login", args, 0, "no arguments"); err != nil {
				return err
			}
			if username == "" {
				fmt.Fprint(a.env.Stderr, "Username: ")
				line, err := a.readLine()
				if err != nil {
					return err
				}
				username = line
			}
			if password == "" {
				secret, err := a.readSecret("Password: ")
				if err != nil {
					return err
				}
				password = secret
			}

			form := validate.LoginForm{Username: username, Password: password}
			if err := checkForm("login", form); err != nil {
				return err
			}
			user, err := a.session.Login(ctx, form.Credentials())
			if err != nil {
				return err
			}
			return a.render(user, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s (%s)\n", user.Username, strings.Join(user.Roles, ", "))
			})
		},
	}
}

func (a *app) registerCommand() *Command {
	var form validate.RegistrationForm
	return &Command{
		Name:    "register",
		Summary: "Create an account",
		Usage:   "moviebook register --username NAME --first-name NAME --last-name NAME --email ADDR --contact DIGITS",
		Public:  true,
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("register")
			fs.StringVarP(&form.Username, "username", "u", "", "account name, 3 to 20 characters")
			fs.StringVar(&form.FirstName, "first-name", "", "first name")
			fs.StringVar(&form.LastName, "last-name", "", "last name")
			fs.StringVar(&form.Email, "email", "", "email address")
			fs.StringVar(&form.ContactNumber, "contact", "", "10 digit contact number")
			fs.StringVarP(&form.Password, "password", "p", "", "password (prompted twice without echo when omitted)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("register", args, 0, "no arguments"); err != nil {
				return err
			}
			if form.Password == "" {
				password, confirm, err := a.readNewPassword()
				if err != nil {
					return err
				}
				form.Password, form.ConfirmPassword = password, confirm
			} else {
				form.ConfirmPassword = form.Password
			}
			if err := checkForm("register", form); err != nil {
				return err
			}

			user, err := a.session.Register(ctx, form.SignUp())
			if err != nil {
				return err
			}
			if user == nil {
				return a.say("Registered %s. Run 'moviebook login' to sign in.", form.Username)
			}
			return a.say("Registered and logged in as %s.", user.Username)
		},
	}
}

func (a *app) logoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Forget the stored session",
		Usage:   "moviebook logout",
		Public:  true,
		Flags:   func() *pflag.FlagSet { return a.flagSet("logout") },
		Run: func(ctx context.Context, args []string) error {
			a.session.Logout(ctx)
			return a.say("Logged out.")
		},
	}
}

type whoamiOutput struct {
	User      domain.User `json:"user"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

func (a *app) whoamiCommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the logged in account",
		Usage:   "moviebook whoami",
		Flags:   func() *pflag.FlagSet { return a.flagSet("whoami") },
		Run: func(ctx context.Context, args []string) error {
			snap := a.session.Snapshot()
			out := whoamiOutput{User: *snap.User, ExpiresAt: snap.ExpiresAt}
			return a.render(out, func(w io.Writer) {
				fmt.Fprintf(w, "Username:\t%s\n", out.User.Username)
				fmt.Fprintf(w, "Email:\t%s\n", out.User.Email)
				fmt.Fprintf(w, "Roles:\t%s\n", strings.Join(out.User.Roles, ", "))
				if out.ExpiresAt != nil {
					fmt.Fprintf(w, "Expires:\t%s\n", formatTime(*out.ExpiresAt))
				}
			})
		},
	}
}

func (a *app) resetPasswordCommand() *Command {
	var password string
	return &Command{
		Name:    "reset-password",
		Summary: "Change your password (admins may change anyone's)",
		Usage:   "moviebook reset-password [USERNAME]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("reset-password")
			fs.StringVarP(&password, "password", "p", "", "new password (prompted twice without echo when omitted)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("reset-password: expected at most one username")
			}
			username := a.currentUser().Username
			if len(args) == 1 {
				username = args[0]
			}

			form := validate.ResetPasswordForm{Username: username, Password: password, ConfirmPassword: password}
			if password == "" {
				p, confirm, err := a.readNewPassword()
				if err != nil {
					return err
				}
				form.Password, form.ConfirmPassword = p, confirm
			}
			if err := checkForm("reset password", form); err != nil {
				return err
			}

			msg, err := a.client.ResetPassword(ctx, username, domain.Credentials{Username: username, Password: form.Password})
			if err != nil {
				return err
			}
			return a.say("%s", msg)
		},
	}
}
