package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/moviebooking/internal/catalog"
	"github.com/Clark-Hu/moviebooking/internal/config"
	httpserver "github.com/Clark-Hu/moviebooking/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadMock()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[booking-mock] ", log.LstdFlags|log.Lshortfile)

	cat := catalog.New(logger)
	if cfg.SeedCatalog {
		if err := cat.SeedMovies(); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
	}
	if err := cat.SeedAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if cfg.AdminPassword == "" {
		logger.Printf("ADMIN_PASSWORD not set; no admin account was created")
	}

	sweeper, err := cat.StartStatusSweep(time.Duration(cfg.StatusSweepSecs) * time.Second)
	if err != nil {
		log.Fatalf("start status sweep: %v", err)
	}
	defer func() {
		if err := sweeper.Shutdown(); err != nil {
			logger.Printf("stop status sweep: %v", err)
		}
	}()

	server := httpserver.New(cfg, cat, logger)
	logger.Printf("listening on :%s%s", cfg.Port, cfg.BasePath)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
