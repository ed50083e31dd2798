package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/darwinia-network/runtime-overrider/internal/config"
	"github.com/darwinia-network/runtime-overrider/internal/overrider"
)

func main() {
	// Minimal logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Setup context with manual signal handling so an interrupt stops the
	// running subprocess.
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.message)
			os.Exit(exitErr.code)
		}
		slog.Error("override failed", "error", err)
		os.Exit(1)
	}
}

// run wires configuration and the pipeline for one invocation, printing
// the artifact locations to stdout on success.
func run(ctx context.Context, stdout io.Writer, args []string) error {
	inv, showedHelp, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}
	if showedHelp {
		return nil
	}

	cfg, err := loadConfig(inv.configPath)
	if err != nil {
		return err
	}
	if inv.logLevel != "" {
		cfg.LogLevel = inv.logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &exitError{code: 2, message: err.Error()}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	o, err := overrider.New(cfg)
	if err != nil {
		return err
	}
	res, err := o.Run(ctx, inv.chain, inv.target)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Generated WASM:   %s\n", res.WasmPath)
	fmt.Fprintf(stdout, "Generated digest: %s\n", res.DigestPath)
	return nil
}

// loadConfig reads the named config file. With no explicit path the
// default file is read only if it exists; otherwise built-in defaults
// apply.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err != nil {
			return config.Default(), nil
		}
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
