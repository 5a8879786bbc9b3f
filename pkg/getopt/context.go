// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"slices"

	"go.uber.org/zap"
)

// Context is the state of one Parse call as seen by an option's action.
type Context struct {
	set    *OptionSet
	option *Option
	name   string
	values []*string
	index  int
}

// Option returns the option being completed.
func (c *Context) Option() *Option { return c.option }

// OptionName returns the option as spelled on the command line, e.g. "--name"
// or "-v+".
func (c *Context) OptionName() string { return c.name }

// OptionIndex returns the 1-based position of the current token in the
// expanded token stream.
func (c *Context) OptionIndex() int { return c.index }

func (c *Context) OptionSet() *OptionSet { return c.set }

// Len returns the number of values collected.
func (c *Context) Len() int { return len(c.values) }

// Values returns the collected values.
func (c *Context) Values() []*string { return slices.Clone(c.values) }

// Value returns the i'th value, or nil if there is none. Asking for a value
// the option requires but did not receive is an error.
func (c *Context) Value(i int) (*string, error) {
	if i < len(c.values) {
		return c.values[i], nil
	}
	if c.option != nil && c.option.valueType == ValueRequired {
		return nil, &MissingRequiredValueError{
			Option: c.name,
			format: c.set.localize(msgMissingValue),
		}
	}
	return nil, nil
}

// invoke runs the pending option's action and clears the context for the
// next option.
func (c *Context) invoke() error {
	o := c.option
	c.set.logger.Debug("invoking option",
		zap.String("option", c.name),
		zap.Int("values", len(c.values)),
		zap.Int("index", c.index))
	err := o.action(c)
	c.option = nil
	c.name = ""
	c.values = c.values[:0]
	return err
}
