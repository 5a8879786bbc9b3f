// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// ValueType describes whether an option takes a value.
type ValueType int

const (
	ValueNone ValueType = iota
	ValueOptional
	ValueRequired
)

func (t ValueType) String() string {
	switch t {
	case ValueNone:
		return "none"
	case ValueOptional:
		return "optional"
	case ValueRequired:
		return "required"
	}
	return "unknown"
}

// defaultName is the alias of the catch-all option that receives tokens no
// other option matched.
const defaultName = "<>"

// Prototype is a compiled option prototype. It is immutable.
type Prototype struct {
	text       string
	names      []string
	valueType  ValueType
	maxValues  int
	separators []string
	hidden     bool
	desc       string
}

// CompilePrototype compiles prototype into its aliases, value type and value
// separators. maxValues is the number of values the option consumes; it must
// be 0 or 1 for options without a value and at least 1 otherwise.
func CompilePrototype(prototype, description string, maxValues int, hidden bool) (*Prototype, error) {
	if prototype == "" {
		return nil, &EmptyNameError{Prototype: prototype}
	}
	if maxValues < 0 {
		return nil, &ValueCountError{Prototype: prototype, MaxValues: maxValues, Reason: "value count must not be negative"}
	}

	names := strings.Split(prototype, "|")
	var (
		terminator byte
		seps       []string
	)
	for i, alias := range names {
		if alias == "" {
			return nil, &EmptyNameError{Prototype: prototype}
		}
		end := strings.IndexAny(alias, "=:")
		if end == -1 {
			continue
		}
		if end == 0 {
			return nil, &EmptyNameError{Prototype: prototype}
		}
		names[i] = alias[:end]
		switch terminator {
		case 0, alias[end]:
			terminator = alias[end]
		default:
			return nil, &ConflictingTypeError{Prototype: prototype}
		}
		var err error
		seps, err = appendSeparators(seps, prototype, alias, end)
		if err != nil {
			return nil, err
		}
	}

	p := &Prototype{
		text:      prototype,
		names:     names,
		maxValues: maxValues,
		hidden:    hidden,
		desc:      description,
	}
	switch terminator {
	case '=':
		p.valueType = ValueRequired
	case ':':
		p.valueType = ValueOptional
	}

	if p.valueType != ValueNone {
		if maxValues <= 1 && len(seps) != 0 {
			return nil, &SeparatorOnSingleValueError{Prototype: prototype, MaxValues: maxValues}
		}
		if maxValues > 1 {
			switch {
			case len(seps) == 0:
				p.separators = []string{":", "="}
			case len(seps) == 1 && seps[0] == "":
				// {} alone: every value is its own token.
			default:
				p.separators = seps
			}
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// appendSeparators parses the separator spec that follows the terminator at
// alias[end].
func appendSeparators(seps []string, prototype, alias string, end int) ([]string, error) {
	start := -1
	for i := end + 1; i < len(alias); i++ {
		switch alias[i] {
		case '{':
			if start != -1 {
				return nil, &MalformedSeparatorError{Prototype: prototype, Alias: alias}
			}
			start = i + 1
		case '}':
			if start == -1 {
				return nil, &MalformedSeparatorError{Prototype: prototype, Alias: alias}
			}
			seps = append(seps, alias[start:i])
			start = -1
		default:
			_, size := utf8.DecodeRuneInString(alias[i:])
			if start == -1 {
				seps = append(seps, alias[i:i+size])
			}
			i += size - 1
		}
	}
	if start != -1 {
		return nil, &MalformedSeparatorError{Prototype: prototype, Alias: alias}
	}
	return seps, nil
}

func (p *Prototype) validate() error {
	switch {
	case p.maxValues == 0 && p.valueType != ValueNone:
		return &ValueCountError{Prototype: p.text, MaxValues: p.maxValues, Reason: "options taking a value need a value count of at least 1"}
	case p.valueType == ValueNone && p.maxValues > 1:
		return &ValueCountError{Prototype: p.text, MaxValues: p.maxValues, Reason: "options without a value take at most 1"}
	}
	if slices.Contains(p.names, defaultName) {
		if (len(p.names) == 1 && p.valueType != ValueNone) || (len(p.names) > 1 && p.maxValues > 1) {
			return &ValueCountError{Prototype: p.text, MaxValues: p.maxValues, Reason: "the default option handler '<>' cannot require values"}
		}
	}
	return nil
}

// Names returns the aliases with their terminators and separator specs
// removed.
func (p *Prototype) Names() []string { return slices.Clone(p.names) }

func (p *Prototype) ValueType() ValueType { return p.valueType }

func (p *Prototype) MaxValueCount() int { return p.maxValues }

// ValueSeparators returns the strings a value is split on, or nil when values
// are not split.
func (p *Prototype) ValueSeparators() []string { return slices.Clone(p.separators) }

func (p *Prototype) Hidden() bool { return p.hidden }

func (p *Prototype) Description() string { return p.desc }

// String returns the prototype as it was declared.
func (p *Prototype) String() string { return p.text }

// splitValue splits v on any of seps into at most limit pieces, the last
// piece holding the remainder. Empty separators never match. A limit below 2
// leaves v whole.
func splitValue(v string, seps []string, limit int) []string {
	if limit < 2 {
		return []string{v}
	}
	var out []string
	start := 0
	for i := 0; i < len(v) && len(out) < limit-1; {
		matched := ""
		for _, sep := range seps {
			if sep != "" && strings.HasPrefix(v[i:], sep) {
				matched = sep
				break
			}
		}
		if matched == "" {
			_, size := utf8.DecodeRuneInString(v[i:])
			i += size
			continue
		}
		out = append(out, v[start:i])
		i += len(matched)
		start = i
	}
	return append(out, v[start:])
}
