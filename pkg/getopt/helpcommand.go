// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const helpCommandName = "help"

// newHelpCommand returns the builtin help command of cs.
//
//	SUITE help            suite options and commands
//	SUITE help help       usage and the sorted command list
//	SUITE help COMMAND    COMMAND's options, or COMMAND --help
func (cs *CommandSet) newHelpCommand() *Command {
	h := NewCommand(helpCommandName, "Show this message and exit")
	h.invoke = func(ctx context.Context, args []string) (int, error) {
		if len(args) == 0 {
			return 0, cs.options.WriteOptionDescriptions(cs.out)
		}
		c, rest := cs.Command(args)
		remaining := args
		if c != nil {
			remaining = rest
		}
		if c == h || slices.Contains(remaining, "--help") {
			return 0, cs.writeUsage()
		}
		if c == nil {
			cs.writeUnknownCommand(args[0])
			return 1, nil
		}
		if c.Options != nil {
			return 0, c.Options.WriteOptionDescriptions(cs.out)
		}
		return c.Invoke(ctx, []string{"--help"})
	}
	return h
}

// writeUsage writes the suite usage banner and every command, sorted
// without regard to case, with help listed last.
func (cs *CommandSet) writeUsage() error {
	hw := &helpWriter{w: cs.out}
	loc := cs.options.localize
	hw.line(fmt.Sprintf(loc("Usage: %s COMMAND [OPTIONS]"), cs.suite))
	hw.line(fmt.Sprintf(loc("Use `%s help COMMAND` for help on a specific command."), cs.suite))
	hw.line("")
	hw.line(loc("Available commands:"))
	hw.line("")
	commands := cs.allCommands()
	slices.SortStableFunc(commands, func(a, b namedCommand) int {
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	})
	for _, nc := range commands {
		if nc.name == helpCommandName {
			continue
		}
		cs.options.writeCommandDescription(hw, nc.cmd, nc.name)
	}
	if cs.help != nil {
		cs.options.writeCommandDescription(hw, cs.help, helpCommandName)
	}
	return hw.err
}
