package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Clark-Hu/moviebooking/internal/cli"
	"github.com/Clark-Hu/moviebooking/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	env := cli.Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	if cli.IsTerminal(os.Stdin) {
		env.ReadPassword = cli.TerminalPassword(os.Stdin, os.Stderr)
	}

	if err := cli.Run(ctx, cfg, os.Args[1:], env); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
