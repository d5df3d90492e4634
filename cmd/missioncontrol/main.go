package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/missioncontrol"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "export":
		err = runExport(os.Args[2:], os.Stdout)
	case "reset":
		err = runReset(os.Args[2:], os.Stdin, os.Stdout)
	case "version":
		fmt.Printf("missioncontrol %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`missioncontrol - portfolio analytics with a Mission Control dashboard

Usage:
  missioncontrol <command> [arguments]

Commands:
  serve              Start the HTTP server
  export [-o file]   Write the analytics record as JSON (default stdout)
  reset [-yes]       Erase all analytics data and the space cache
  version            Print the version
  help               Show this help message

Environment (also read from .env):
  MC_ADDR, MC_STORE, MC_SESSION_SECRET, MC_COOKIE_SECURE, MC_TIMEZONE,
  NASA_API_KEY, LOG_LEVEL, LOG_JSON`)
}

func configFromEnv() missioncontrol.SiteConfig {
	return missioncontrol.SiteConfig{
		Name:          missioncontrol.EnvOr("SITE_NAME", "Portfolio"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Addr:          missioncontrol.EnvOr("MC_ADDR", ":3000"),
		StoreDSN:      missioncontrol.EnvOr("MC_STORE", "data/missioncontrol.db"),
		TimeZone:      missioncontrol.EnvOr("MC_TIMEZONE", "UTC"),
		SessionSecret: os.Getenv("MC_SESSION_SECRET"),
		CookieSecure:  missioncontrol.EnvBool("MC_COOKIE_SECURE"),
		NASAAPIKey:    os.Getenv("NASA_API_KEY"),
		LogLevel:      missioncontrol.EnvOr("LOG_LEVEL", "info"),
		LogJSON:       missioncontrol.EnvBool("LOG_JSON"),
	}
}

func runServe() error {
	cfg := configFromEnv()
	cfg.SessionSecret = missioncontrol.MustEnv("MC_SESSION_SECRET")

	app := missioncontrol.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	app.Log.Info().Msg("shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		app.Log.Error().Err(err).Msg("server shutdown")
	}
	app.Log.Info().Msg("bye")
	return nil
}
