package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one moviebook subcommand.
type Command struct {
	// Name is typed by the user, e.g. "book".
	Name string
	// Summary is shown in the command listing.
	Summary string
	// Usage is the synopsis shown in the command's own help.
	Usage string
	// Flags returns the command's flag set. It may be nil.
	Flags func() *pflag.FlagSet
	// Run executes the command with the positional arguments left after
	// flag parsing.
	Run func(ctx context.Context, args []string) error
	// Public commands run without a stored session.
	Public bool
}

func (c *Command) execute(ctx context.Context, args []string, help io.Writer) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.printHelp(help)
		return nil
	}
	if c.Flags != nil {
		fs := c.Flags()
		fs.SetOutput(io.Discard)
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				c.printHelp(help)
				return nil
			}
			return fmt.Errorf("%s: %w\n\nRun 'moviebook %s --help' for usage.", c.Name, err, c.Name)
		}
		args = fs.Args()
	}
	return c.Run(ctx, args)
}

func (c *Command) printHelp(w io.Writer) {
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", c.Summary, c.Usage)
	if c.Flags == nil {
		return
	}
	var b strings.Builder
	fs := c.Flags()
	fs.SetOutput(&b)
	fs.PrintDefaults()
	if b.Len() > 0 {
		fmt.Fprintf(w, "\nFlags:\n%s", b.String())
	}
}

func printCommands(w io.Writer, commands []*Command) {
	fmt.Fprintf(w, "moviebook books movie tickets from the command line.\n\n")
	fmt.Fprintf(w, "Usage:\n  moviebook [global flags] <command> [flags] [args]\n\nCommands:\n")
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Summary)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nRun 'moviebook <command> --help' for the flags of a command.\n")
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

// exactArgs fails unless exactly n positional arguments were given.
func exactArgs(name string, args []string, n int, what string) error {
	if len(args) != n {
		return fmt.Errorf("%s: expected %s", name, what)
	}
	return nil
}
