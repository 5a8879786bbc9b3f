// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"

	"github.com/yeetrun/getopt/pkg/config"
	"github.com/yeetrun/getopt/pkg/convert"
	"github.com/yeetrun/getopt/pkg/getopt"
	"github.com/yeetrun/getopt/pkg/tui"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const suiteName = "getopt"

// Output formats selected with --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type app struct {
	out    io.Writer
	errOut io.Writer
	colors tui.Colorizer
	logger *zap.Logger
	// config is nil when no profile file was found.
	config *config.Location

	format string
	suite  *getopt.CommandSet
}

// newSuite builds the command suite. Suite options are parsed from the whole
// command line up to the first "--".
func (a *app) newSuite() (*getopt.CommandSet, error) {
	cs := getopt.NewCommandSet(suiteName,
		getopt.WithOutput(a.out, a.errOut),
		getopt.WithSuiteLogger(a.logger))
	a.suite = cs
	a.format = formatText

	opts := cs.Options()
	opts.AddCategory("Options:")
	err := getopt.AddTyped[string](opts, "format=", "Write results as {FORMAT}: text, json or yaml.",
		convert.Enum(formatText, formatJSON, formatYAML),
		func(f string) { a.format = f })
	if err != nil {
		return nil, err
	}
	opts.AddSource(getopt.ResponseFileSource{})
	if a.config != nil {
		opts.AddSource(config.ProfileSource{File: a.config.File})
	}

	opts.AddCategory("\nCommands:")
	for _, c := range []*getopt.Command{
		a.parseCommand(),
		a.protoCommand(),
		a.convertCommand(),
		a.versionCommand(),
		a.completeCommand(),
	} {
		if err := cs.AddCommand(c); err != nil {
			return nil, err
		}
	}
	for _, newNested := range []func() (*getopt.CommandSet, error){a.rspSuite, a.profileSuite} {
		nested, err := newNested()
		if err != nil {
			return nil, err
		}
		if err := cs.AddCommandSet(nested); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// emit writes v as JSON or YAML when one of those formats is selected, and
// calls text otherwise.
func (a *app) emit(v any, text func(w io.Writer) error) error {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(a.out)
}

// fail reports err and returns the exit code for it.
func (a *app) fail(err error) int {
	a.colors.PrintError(a.errOut, err)
	return 1
}

// emitLines emits lines as a list, or one per line in text format.
func (a *app) emitLines(lines []string) int {
	if lines == nil {
		lines = []string{}
	}
	err := a.emit(lines, func(w io.Writer) error {
		for _, l := range lines {
			if _, err := io.WriteString(w, l+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return a.fail(err)
	}
	return 0
}
