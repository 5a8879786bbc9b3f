// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"context"
	"strings"
)

// Command is a named entry point of a CommandSet.
type Command struct {
	name string

	// Help is the one-line summary shown in command listings.
	Help string
	// Options, if set, parses the command's arguments before Run sees
	// them. It belongs to this command alone.
	Options *OptionSet
	// Run receives the arguments Options did not consume and returns the
	// exit code.
	Run func(ctx context.Context, args []string) int

	// owner is the id of the CommandSet the command was added to.
	owner uint64
	// invoke replaces the default Invoke behavior for builtin commands.
	invoke func(ctx context.Context, args []string) (int, error)
}

// NewCommand returns a command called name. Runs of whitespace in name
// collapse to a single space, so "remote  add" names the two-word command
// "remote add". It panics if name is blank.
func NewCommand(name, help string) *Command {
	n := strings.Join(strings.Fields(name), " ")
	if n == "" {
		panic("getopt: command name must not be empty")
	}
	return &Command{name: n, Help: help}
}

// Name returns the normalized command name.
func (c *Command) Name() string { return c.name }

// Invoke parses args with the command's options and runs it with the
// remaining arguments. A command without Run exits 0.
func (c *Command) Invoke(ctx context.Context, args []string) (int, error) {
	if c.invoke != nil {
		return c.invoke(ctx, args)
	}
	rest := args
	if c.Options != nil {
		var err error
		if rest, err = c.Options.Parse(args); err != nil {
			return 1, err
		}
	}
	if c.Run == nil {
		return 0, nil
	}
	return c.Run(ctx, rest), nil
}
