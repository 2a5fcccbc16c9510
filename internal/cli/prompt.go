package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPassword reads secrets from the terminal f without echo. Prompts
// go to w.
func TerminalPassword(f *os.File, w io.Writer) func(prompt string) (string, error) {
	return func(prompt string) (string, error) {
		fmt.Fprint(w, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (a *app) readSecret(prompt string) (string, error) {
	if a.env.ReadPassword != nil {
		return a.env.ReadPassword(prompt)
	}
	fmt.Fprint(a.env.Stderr, prompt)
	return a.readLine()
}

// readNewPassword asks for a password and its confirmation.
func (a *app) readNewPassword() (string, string, error) {
	password, err := a.readSecret("New password: ")
	if err != nil {
		return "", "", err
	}
	confirm, err := a.readSecret("Confirm password: ")
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}

func (a *app) readLine() (string, error) {
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) confirm(prompt string) (bool, error) {
	fmt.Fprintf(a.env.Stderr, "%s [y/N]: ", prompt)
	answer, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
