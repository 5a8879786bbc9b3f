// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync/atomic"
	"unicode"

	"go.uber.org/zap"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

var lastSetID atomic.Uint64

// SuiteOption configures a CommandSet.
type SuiteOption func(*CommandSet)

// WithOutput sets where help and diagnostics are written. Nil writers keep
// the defaults, os.Stdout and os.Stderr.
func WithOutput(out, errOut io.Writer) SuiteOption {
	return func(cs *CommandSet) {
		if out != nil {
			cs.out = out
		}
		if errOut != nil {
			cs.errOut = errOut
		}
	}
}

// WithSuiteLocalizer sets the localizer of the suite's options and messages.
func WithSuiteLocalizer(fn func(string) string) SuiteOption {
	return func(cs *CommandSet) { cs.options.localizer = fn }
}

// WithSuiteLogger sets the logger of the suite and its options.
func WithSuiteLogger(l *zap.Logger) SuiteOption {
	return func(cs *CommandSet) {
		if l != nil {
			cs.options.logger = l
		}
	}
}

// CommandSet dispatches a command line to one of its commands, or to a
// command of a nested suite.
type CommandSet struct {
	id       uint64
	suite    string
	commands []*Command
	byName   map[string]*Command
	nested   []*CommandSet
	options  *OptionSet
	out      io.Writer
	errOut   io.Writer
	help     *Command
	showHelp bool
}

// NewCommandSet returns an empty suite called suite.
func NewCommandSet(suite string, opts ...SuiteOption) *CommandSet {
	cs := &CommandSet{
		id:      lastSetID.Add(1),
		suite:   suite,
		options: NewOptionSet(),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	cs.options.wrap = cs.wrapHelp
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func (cs *CommandSet) Suite() string { return cs.suite }

// Options returns the suite-wide options, parsed before the command is
// resolved. Any option with a "help" alias also requests help.
func (cs *CommandSet) Options() *OptionSet { return cs.options }

// Commands returns the suite's own commands in registration order.
func (cs *CommandSet) Commands() []*Command { return slices.Clone(cs.commands) }

// wrapHelp makes options named "help" also set the suite's help flag.
func (cs *CommandSet) wrapHelp(o *Option) *Option {
	if o.kind != kindAction || !slices.Contains(o.names, "help") {
		return o
	}
	inner := o.action
	w := *o
	w.action = func(c *Context) error {
		cs.showHelp = true
		return inner(c)
	}
	return &w
}

// AddCommand adds c to the suite. A command can belong to one suite only.
func (cs *CommandSet) AddCommand(c *Command) error {
	if c == nil {
		return errors.New("getopt: nil command")
	}
	if c.owner != 0 && c.owner != cs.id {
		return &CommandOwnerError{Name: c.name}
	}
	if _, dup := cs.byName[c.name]; dup {
		return &DuplicateCommandError{Suite: cs.suite, Name: c.name}
	}
	if err := cs.options.AddOption(newCommandEntry(c, c.name)); err != nil {
		return &DuplicateCommandError{Suite: cs.suite, Name: c.name}
	}
	if c.Options != nil {
		if c.Options.localizer == nil {
			c.Options.localizer = cs.options.localizer
		}
	}
	c.owner = cs.id
	cs.commands = append(cs.commands, c)
	mak.Set(&cs.byName, c.name, c)
	return nil
}

// AddCommandSet nests another suite, whose commands become reachable as
// "SUITE COMMAND". Adding a suite that is already reachable, or one that can
// reach this suite, does nothing. On success the nested suite shares this
// suite's options and output.
func (cs *CommandSet) AddCommandSet(nested *CommandSet) error {
	if nested == nil {
		return errors.New("getopt: nil command set")
	}
	if cs.reaches(nested.id) || nested.reaches(cs.id) {
		return nil
	}
	var add []*Option
	for _, o := range nested.options.options {
		if o.kind == kindCommand {
			e := newCommandEntry(o.command, nested.suite+" "+o.commandName)
			if cs.options.Contains(e.names[0]) {
				return &DuplicateCommandError{Suite: cs.suite, Name: e.commandName}
			}
			add = append(add, e)
			continue
		}
		if o.kind == kindCategory {
			add = append(add, o)
			continue
		}
		if slices.ContainsFunc(o.names, cs.options.Contains) {
			continue
		}
		add = append(add, o)
	}
	for _, o := range add {
		if o.kind == kindCategory {
			cs.options.AddCategory(o.desc)
			continue
		}
		if err := cs.options.AddOption(o); err != nil {
			return err
		}
	}
	cs.nested = append(cs.nested, nested)
	nested.options = cs.options
	nested.out, nested.errOut = cs.out, cs.errOut
	return nil
}

// reaches reports whether the set with the given id is this suite or nested
// below it.
func (cs *CommandSet) reaches(id uint64) bool {
	seen := make(set.Set[uint64])
	stack := []*CommandSet{cs}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.id == id {
			return true
		}
		if seen.Contains(s.id) {
			continue
		}
		seen.Add(s.id)
		stack = append(stack, s.nested...)
	}
	return false
}

// Command resolves the leading tokens to a command and returns it with the
// tokens that follow. Multi-word command names are matched by joining
// tokens with spaces; the longest local match wins. Otherwise the first
// token may name a nested suite that resolves the rest.
func (cs *CommandSet) Command(tokens []string) (*Command, []string) {
	if len(tokens) == 0 {
		return nil, nil
	}
	var (
		found *Command
		n     int
		name  string
	)
	for i, t := range tokens {
		if i == 0 {
			name = t
		} else {
			name += " " + t
		}
		if c, ok := cs.byName[name]; ok {
			found, n = c, i+1
		}
	}
	if found != nil {
		return found, slices.Clone(tokens[n:])
	}
	for _, ns := range cs.nested {
		if ns.suite != tokens[0] || len(tokens) == 1 {
			continue
		}
		if c, rest := ns.Command(tokens[1:]); c != nil {
			return c, rest
		}
	}
	return nil, nil
}

// Run parses the suite options in args, then runs the command named by the
// remaining tokens and returns its exit code.
//
// The hidden options --help and -? request help: with no command the suite
// usage is shown, and with a command its help is shown instead of running
// it. With no command and no help request, a usage hint is printed and Run
// returns 1. An unknown command is reported on the error writer and also
// returns 1. The error is non-nil only for malformed options.
func (cs *CommandSet) Run(ctx context.Context, args []string) (int, error) {
	cs.showHelp = false
	if err := cs.ensureHelp(); err != nil {
		return 1, err
	}
	extra, err := cs.options.Parse(args)
	if err != nil {
		return 1, err
	}
	if len(extra) == 0 {
		if cs.showHelp {
			return cs.help.Invoke(ctx, nil)
		}
		fmt.Fprintf(cs.out, cs.options.localize(msgNoCommand)+"\n", cs.suite)
		return 1, nil
	}
	c, rest := cs.Command(extra)
	if c == nil {
		cs.writeUnknownCommand(extra[0])
		return 1, nil
	}
	cs.options.logger.Debug("running command", zap.String("suite", cs.suite), zap.String("command", c.name))
	if cs.showHelp {
		if c.Options == nil || c.Options.Contains("help") {
			return c.Invoke(ctx, append(rest, "--help"))
		}
		return 0, c.Options.WriteOptionDescriptions(cs.out)
	}
	return c.Invoke(ctx, rest)
}

// ensureHelp registers the builtin help command and the hidden --help and -?
// options.
func (cs *CommandSet) ensureHelp() error {
	if cs.help == nil {
		h := cs.newHelpCommand()
		if err := cs.AddCommand(h); err != nil {
			return err
		}
		cs.help = h
	}
	setHelp := func(v *string) { cs.showHelp = v != nil }
	for _, name := range []string{"help", "?"} {
		if cs.options.Contains(name) {
			continue
		}
		if err := cs.options.AddHidden(name, "", setHelp); err != nil {
			return err
		}
	}
	return nil
}

func (cs *CommandSet) writeUnknownCommand(name string) {
	fmt.Fprintf(cs.errOut, cs.options.localize(msgUnknownCommand)+"\n", cs.suite, name)
	fmt.Fprintf(cs.errOut, cs.options.localize(msgUseHelp)+"\n", cs.suite)
}

// Completions returns the command names that complete prefix, including
// those of nested suites as "SUITE COMMAND". Matching ignores case.
func (cs *CommandSet) Completions(prefix string) []string {
	token, rest := cutToken(prefix)
	var out []string
	for _, c := range cs.commands {
		if hasPrefixFold(c.name, token) {
			out = append(out, c.name)
		}
	}
	for _, ns := range cs.nested {
		if !hasPrefixFold(ns.suite, token) {
			continue
		}
		for _, c := range ns.Completions(rest) {
			out = append(out, ns.suite+" "+c)
		}
	}
	return out
}

// cutToken splits off the first whitespace-delimited token of s.
func cutToken(s string) (token, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// namedCommand is a command with the name it is listed under.
type namedCommand struct {
	name string
	cmd  *Command
}

// allCommands lists the commands of this suite and, prefixed with their
// suite names, those of nested suites.
func (cs *CommandSet) allCommands() []namedCommand {
	var out []namedCommand
	for _, c := range cs.commands {
		out = append(out, namedCommand{c.name, c})
	}
	for _, ns := range cs.nested {
		for _, nc := range ns.allCommands() {
			out = append(out, namedCommand{ns.suite + " " + nc.name, nc.cmd})
		}
	}
	return out
}
