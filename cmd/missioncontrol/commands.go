package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/eringen/missioncontrol"
	"github.com/eringen/missioncontrol/analytics"
	"github.com/eringen/missioncontrol/kv"
	"github.com/eringen/missioncontrol/space"
)

func openStore(cfg missioncontrol.SiteConfig) (*analytics.Store, func(), error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("time zone %q: %w", cfg.TimeZone, err)
	}
	backend, err := kv.Open(cfg.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	log := missioncontrol.NewLogger(cfg.LogLevel, cfg.LogJSON)
	store := analytics.NewStore(backend,
		analytics.WithLocation(loc),
		analytics.WithLogger(log),
		analytics.WithResetKeys(space.CacheKey),
	)
	return store, func() { backend.Close() }, nil
}

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, closeFn, err := openStore(configFromEnv())
	if err != nil {
		return err
	}
	defer closeFn()

	b, err := store.Export(context.Background())
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if *out == "" {
		_, err = stdout.Write(b)
		return err
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(os.Stderr, "Exported analytics to %s\n", *out)
	return nil
}

func runReset(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes && !confirm(stdin, stdout, "Reset all analytics data? This cannot be undone. [y/N]: ") {
		fmt.Fprintln(stdout, "Aborted.")
		return nil
	}

	store, closeFn, err := openStore(configFromEnv())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := store.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Analytics data reset.")
	return nil
}

// confirm reads one line and accepts only "y" or "yes".
func confirm(stdin io.Reader, stdout io.Writer, prompt string) bool {
	fmt.Fprint(stdout, prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
