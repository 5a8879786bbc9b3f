// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command getopt exposes the option parser to shell scripts and to people
// debugging option prototypes.
//
//	getopt [--config=PATH] [--no-color] [--verbose] COMMAND [ARGS...]
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shayne/yargs"
	"github.com/yeetrun/getopt/pkg/config"
	"github.com/yeetrun/getopt/pkg/tui"
	"go.uber.org/zap"
)

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Profile file to use (GETOPT_CONFIG)"`
	NoColor bool   `flag:"no-color" help:"Disable colored diagnostics"`
	Verbose bool   `flag:"verbose" help:"Log parser decisions to stderr"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run runs the tool with args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, rest, err := parseGlobalFlags(args)
	colors := tui.NewColorizer(stderr, true)
	if err != nil {
		colors.PrintError(stderr, err)
		return 1
	}
	colors = tui.NewColorizer(stderr, !flags.NoColor)

	logger := newLogger(flags.Verbose, stderr)
	defer logger.Sync()

	cwd, err := os.Getwd()
	if err != nil {
		colors.PrintError(stderr, err)
		return 1
	}
	loc, err := config.Resolve(flags.Config, cwd)
	if err != nil {
		colors.PrintError(stderr, err)
		return 1
	}
	a := &app{
		out:    stdout,
		errOut: stderr,
		colors: colors,
		logger: logger,
		config: loc,
	}
	if loc != nil {
		logger.Debug("loaded profiles", zap.String("path", loc.Path), zap.Strings("profiles", loc.File.ProfileNames()))
		rest = append(append([]string(nil), loc.File.Defaults...), rest...)
	}

	suite, err := a.newSuite()
	if err != nil {
		colors.PrintError(stderr, err)
		return 1
	}
	code, err := suite.Run(ctx, rest)
	if err != nil {
		colors.PrintError(stderr, err)
		return 1
	}
	return code
}
