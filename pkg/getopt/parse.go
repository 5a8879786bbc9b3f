// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

// optionPattern splits a token into flag marker, name, and optional
// separator and inline value.
var optionPattern = regexp.MustCompile(`(?s)^(--|-|/)([^:=]+)(?:([:=])(.*))?$`)

// optionToken is a decomposed option-like token.
type optionToken struct {
	flag  string
	name  string
	sep   string
	value *string
}

func splitOptionToken(arg string) (optionToken, bool) {
	m := optionPattern.FindStringSubmatchIndex(arg)
	if m == nil {
		return optionToken{}, false
	}
	tok := optionToken{
		flag: arg[m[2]:m[3]],
		name: arg[m[4]:m[5]],
	}
	if m[6] >= 0 {
		tok.sep = arg[m[6]:m[7]]
		v := arg[m[8]:m[9]]
		tok.value = &v
	}
	return tok, true
}

// Parse matches args against the registered options, calling each option's
// action as soon as it has its values. It returns the tokens that are not
// options, in order. Tokens after "--" are never treated as options.
//
// Parse stops at the first error; actions already called are not undone.
func (s *OptionSet) Parse(args []string) ([]string, error) {
	c := &Context{set: s}
	def, _ := s.lookupAction(defaultName)
	var extra []string
	in := newTokenStack(args)
	process := true
	for {
		arg, ok := in.next()
		if !ok {
			break
		}
		c.index++
		if !process {
			if err := s.unprocessed(&extra, def, c, arg); err != nil {
				return nil, err
			}
			continue
		}
		if arg == "--" {
			process = false
			if c.option != nil {
				if err := c.invoke(); err != nil {
					return nil, err
				}
			}
			continue
		}
		if c.option != nil {
			if err := s.parseValue(&arg, c); err != nil {
				return nil, err
			}
			continue
		}
		expanded, err := s.expand(in, arg)
		if err != nil {
			return nil, err
		}
		if expanded {
			continue
		}
		matched, err := s.parseToken(arg, c)
		if err != nil {
			return nil, err
		}
		if !matched {
			if err := s.unprocessed(&extra, def, c, arg); err != nil {
				return nil, err
			}
		}
	}
	if c.option != nil {
		if err := c.invoke(); err != nil {
			return nil, err
		}
	}
	return extra, nil
}

// parseToken matches one token that is not a pending option's value. It
// reports whether the token was consumed.
func (s *OptionSet) parseToken(arg string, c *Context) (bool, error) {
	tok, ok := splitOptionToken(arg)
	if !ok {
		return false, nil
	}
	if o, ok := s.lookupAction(tok.name); ok {
		s.logger.Debug("matched option", zap.String("arg", arg), zap.String("option", tok.name))
		c.option = o
		c.name = tok.flag + tok.name
		if o.valueType == ValueNone {
			name := tok.name
			c.values = append(c.values, &name)
			return true, c.invoke()
		}
		return true, s.parseValue(tok.value, c)
	}
	if ok, err := s.parseBool(arg, tok.name, c); ok || err != nil {
		return ok, err
	}
	bundle := tok.name + tok.sep
	if tok.value != nil {
		bundle += *tok.value
	}
	return s.parseBundle(tok.flag, bundle, c)
}

// parseBool handles -name+ and -name- for options that take no value.
func (s *OptionSet) parseBool(arg, name string, c *Context) (bool, error) {
	if len(name) < 2 {
		return false, nil
	}
	suffix := name[len(name)-1]
	if suffix != '+' && suffix != '-' {
		return false, nil
	}
	o, ok := s.lookupAction(name[:len(name)-1])
	if !ok || o.valueType != ValueNone {
		return false, nil
	}
	s.logger.Debug("matched boolean option", zap.String("arg", arg))
	var v *string
	if suffix == '+' {
		v = &arg
	}
	c.option = o
	c.name = arg
	c.values = append(c.values, v)
	return true, c.invoke()
}

// parseBundle handles -abc style bundles of single-character options.
func (s *OptionSet) parseBundle(flag, bundle string, c *Context) (bool, error) {
	if flag != "-" {
		return false, nil
	}
	for i := 0; i < len(bundle); {
		_, size := utf8.DecodeRuneInString(bundle[i:])
		name := bundle[i : i+size]
		i += size
		o, ok := s.lookupAction(name)
		if !ok {
			if i == size {
				return false, nil
			}
			return false, &UnregisteredBundledOptionError{
				Option: flag + name,
				Bundle: flag + bundle,
				format: s.localize(msgUnregisteredInBun),
			}
		}
		c.option = o
		c.name = flag + name
		if o.valueType == ValueNone {
			v := bundle
			c.values = append(c.values, &v)
			if err := c.invoke(); err != nil {
				return true, err
			}
			continue
		}
		var v *string
		if rest := bundle[i:]; rest != "" {
			v = &rest
		}
		return true, s.parseValue(v, c)
	}
	return true, nil
}

// parseValue adds raw to the pending option's values, splitting it on the
// option's separators, and invokes the option once it is complete.
func (s *OptionSet) parseValue(raw *string, c *Context) error {
	o := c.option
	if raw != nil {
		if o.separators != nil {
			for _, v := range splitValue(*raw, o.separators, o.maxValues-len(c.values)) {
				c.values = append(c.values, &v)
			}
		} else {
			c.values = append(c.values, raw)
		}
	}
	switch n := len(c.values); {
	case n == o.maxValues || o.valueType == ValueOptional:
		return c.invoke()
	case n > o.maxValues:
		return &TooManyValuesError{
			Option: c.name,
			Count:  n,
			Max:    o.maxValues,
			format: s.localize(msgTooManyValues),
		}
	}
	return nil
}

// unprocessed records a token no option consumed, or hands it to the default
// option.
func (s *OptionSet) unprocessed(extra *[]string, def *Option, c *Context, arg string) error {
	if def == nil {
		*extra = append(*extra, arg)
		return nil
	}
	c.option = def
	c.name = defaultName
	c.values = append(c.values, &arg)
	return c.invoke()
}
