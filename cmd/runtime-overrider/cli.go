package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
	"github.com/darwinia-network/runtime-overrider/internal/config"
)

// exitError carries the process exit code for a failed invocation.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	return e.message
}

// invocation is one parsed command line.
type invocation struct {
	chain      chain.Chain
	target     string
	configPath string
	logLevel   string
}

// parseArgs processes command-line arguments. The boolean reports that
// help was requested and the program should exit cleanly. Flag errors and
// an unknown chain are rejected here, before anything touches the
// filesystem or spawns a process.
func parseArgs(args []string, output io.Writer) (invocation, bool, error) {
	fs := flag.NewFlagSet("runtime-overrider", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `runtime-overrider builds an EVM tracing runtime for a Darwinia chain and
stores the wasm and its digest under the output directory.

Usage:
  runtime-overrider --runtime <CHAIN> [--target <VALUE>] [options]

Options:
`)
		fs.PrintDefaults()
	}

	runtimeFlag := fs.String("runtime", "", "Chain to build: darwinia, crab, pangoro or pangolin. Case insensitive, required.")
	rFlag := fs.String("r", "", "Chain to build (shorthand).")
	targetFlag := fs.String("target", "main", "Branch, tag or commit to check out and build.")
	tFlag := fs.String("t", "", "Branch, tag or commit (shorthand).")
	configFlag := fs.String("config", "", "Path to a config file. Defaults to "+config.DefaultPath+" when present.")
	cFlag := fs.String("c", "", "Path to a config file (shorthand).")
	logLevelFlag := fs.String("log-level", "", "Override the configured log level: debug, info, warn or error.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return invocation{}, true, nil
		}
		return invocation{}, false, &exitError{code: 2, message: err.Error()}
	}

	name := *runtimeFlag
	if name == "" {
		name = *rFlag
	}
	if name == "" {
		fs.Usage()
		return invocation{}, false, &exitError{code: 2, message: "missing required flag: --runtime"}
	}
	c, err := chain.Parse(name)
	if err != nil {
		return invocation{}, false, &exitError{code: 2, message: err.Error()}
	}

	target := *targetFlag
	if *tFlag != "" {
		target = *tFlag
	}
	if target == "" {
		return invocation{}, false, &exitError{code: 2, message: "target must not be empty"}
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}

	return invocation{
		chain:      c,
		target:     target,
		configPath: configPath,
		logLevel:   *logLevelFlag,
	}, false, nil
}
