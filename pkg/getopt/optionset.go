// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"slices"
	"strconv"

	"go.uber.org/zap"
	"tailscale.com/util/mak"
)

// Synthetic alias prefixes. A compiled prototype can never produce a name
// starting with '=' or ':', so these never collide with user options.
const (
	categoryPrefix = "=:category:"
	commandPrefix  = "=:command:"
)

// Action is called when an option has collected its values.
type Action func(c *Context) error

type optionKind int

const (
	kindAction optionKind = iota
	kindCategory
	kindCommand
)

// Option is a compiled prototype bound to the action it triggers.
type Option struct {
	*Prototype
	kind    optionKind
	action  Action
	command *Command
	// commandName is the name the command is listed under, which for
	// nested suites includes the suite prefix.
	commandName string
}

// NewOption compiles prototype and binds it to action.
func NewOption(prototype, description string, maxValues int, hidden bool, action Action) (*Option, error) {
	p, err := CompilePrototype(prototype, description, maxValues, hidden)
	if err != nil {
		return nil, err
	}
	return &Option{Prototype: p, action: action}, nil
}

func newCategory(n int, header string) *Option {
	return &Option{
		Prototype: &Prototype{
			text:  header,
			names: []string{categoryPrefix + strconv.Itoa(n)},
			desc:  header,
		},
		kind: kindCategory,
	}
}

func newCommandEntry(c *Command, name string) *Option {
	return &Option{
		Prototype: &Prototype{
			text:  name,
			names: []string{commandPrefix + name},
			desc:  c.Help,
		},
		kind:        kindCommand,
		command:     c,
		commandName: name,
	}
}

// IsCategory reports whether o is a help section header added with
// AddCategory.
func (o *Option) IsCategory() bool { return o.kind == kindCategory }

// Command returns the command o lists, or nil if o is not a command entry.
func (o *Option) Command() *Command { return o.command }

// SetOption configures an OptionSet.
type SetOption func(*OptionSet)

// WithLocalizer sets the function message templates and descriptions are
// passed through before they are shown.
func WithLocalizer(fn func(string) string) SetOption {
	return func(s *OptionSet) { s.localizer = fn }
}

// WithLogger sets the logger that traces match decisions at debug level.
func WithLogger(l *zap.Logger) SetOption {
	return func(s *OptionSet) {
		if l != nil {
			s.logger = l
		}
	}
}

// OptionSet is an ordered collection of options indexed by every alias.
//
// An OptionSet is built before parsing and must not be modified while Parse
// runs.
type OptionSet struct {
	options    []*Option
	index      map[string]int
	sources    []ArgumentSource
	localizer  func(string) string
	logger     *zap.Logger
	categories int

	// wrap, if set, is applied to every option on insertion.
	wrap func(*Option) *Option
}

// NewOptionSet returns an empty OptionSet.
func NewOptionSet(opts ...SetOption) *OptionSet {
	s := &OptionSet{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers an option whose action receives its single value. The value
// is nil for a missing optional value or a boolean toggled off with '-'. For
// options without a value it is the matched name.
func (s *OptionSet) Add(prototype, description string, fn func(value *string)) error {
	return s.add(prototype, description, false, fn)
}

// AddHidden is Add for options that are left out of help output.
func (s *OptionSet) AddHidden(prototype, description string, fn func(value *string)) error {
	return s.add(prototype, description, true, fn)
}

func (s *OptionSet) add(prototype, description string, hidden bool, fn func(*string)) error {
	o, err := NewOption(prototype, description, 1, hidden, func(c *Context) error {
		v, err := c.Value(0)
		if err != nil {
			return err
		}
		fn(v)
		return nil
	})
	if err != nil {
		return err
	}
	return s.AddOption(o)
}

// AddPair registers an option taking a key and a value, such as -Dkey=value.
func (s *OptionSet) AddPair(prototype, description string, fn func(key, value *string)) error {
	o, err := NewOption(prototype, description, 2, false, func(c *Context) error {
		k, err := c.Value(0)
		if err != nil {
			return err
		}
		v, err := c.Value(1)
		if err != nil {
			return err
		}
		fn(k, v)
		return nil
	})
	if err != nil {
		return err
	}
	return s.AddOption(o)
}

// AddOption registers o under all of its aliases. On error the set is left
// unchanged.
func (s *OptionSet) AddOption(o *Option) error {
	if s.wrap != nil {
		o = s.wrap(o)
	}
	for i, name := range o.names {
		if _, dup := s.index[name]; dup || slices.Contains(o.names[:i], name) {
			return &DuplicateOptionError{Name: name}
		}
	}
	s.insert(o)
	return nil
}

func (s *OptionSet) insert(o *Option) {
	i := len(s.options)
	s.options = append(s.options, o)
	for _, name := range o.names {
		mak.Set(&s.index, name, i)
	}
}

// AddCategory adds a section header to help output.
func (s *OptionSet) AddCategory(header string) {
	s.categories++
	s.insert(newCategory(s.categories, header))
}

// AddSource registers an argument source. Sources are consulted in
// registration order.
func (s *OptionSet) AddSource(src ArgumentSource) {
	s.sources = append(s.sources, src)
}

// Remove removes the option registered under name together with all of its
// other aliases. It reports whether an option was removed.
func (s *OptionSet) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	for _, alias := range s.options[i].names {
		delete(s.index, alias)
	}
	s.options = slices.Delete(s.options, i, i+1)
	for alias, j := range s.index {
		if j > i {
			s.index[alias] = j - 1
		}
	}
	return true
}

// Contains reports whether name is a registered alias.
func (s *OptionSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Lookup returns the option registered under name.
func (s *OptionSet) Lookup(name string) (*Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.options[i], true
}

// Options returns the registered options in registration order.
func (s *OptionSet) Options() []*Option { return slices.Clone(s.options) }

// Sources returns the registered argument sources.
func (s *OptionSet) Sources() []ArgumentSource { return slices.Clone(s.sources) }

// Len returns the number of entries, including categories and commands.
func (s *OptionSet) Len() int { return len(s.options) }

// lookupAction is Lookup restricted to options that can match input.
func (s *OptionSet) lookupAction(name string) (*Option, bool) {
	o, ok := s.Lookup(name)
	if !ok || o.kind != kindAction {
		return nil, false
	}
	return o, true
}

func (s *OptionSet) localize(msg string) string {
	if s.localizer == nil {
		return msg
	}
	return s.localizer(msg)
}
