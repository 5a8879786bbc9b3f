// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"
)

// Help layout, in columns.
const (
	optionWidth    = 29
	lineWidth      = 80
	descFirstWidth = lineWidth - optionWidth
	descRemWidth   = lineWidth - optionWidth - 2
	commandIndent  = 8
)

type helpWriter struct {
	w   io.Writer
	err error
}

func (hw *helpWriter) line(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, strings.TrimRight(s, " ")+"\n")
}

// WriteOptionDescriptions writes help for every visible option, category,
// command and argument source, in registration order.
//
// In descriptions, {NAME} names the value in the option column and {i:NAME}
// names the i'th value of a multi-value option; the braces are removed from
// the text. {{ and }} produce literal braces.
func (s *OptionSet) WriteOptionDescriptions(w io.Writer) error {
	hw := &helpWriter{w: w}
	for _, o := range s.options {
		if o.hidden {
			continue
		}
		switch o.kind {
		case kindCategory:
			s.writeDescription(hw, "", o.desc, "", lineWidth, lineWidth)
			continue
		case kindCommand:
			s.writeCommandDescription(hw, o.command, o.commandName)
			continue
		}
		head, ok := s.optionHead(o)
		if !ok {
			continue
		}
		s.writeDescription(hw, padColumn(head), o.desc, spaces(optionWidth+2), descFirstWidth, descRemWidth)
	}
	for _, src := range s.sources {
		names := src.Names()
		if len(names) == 0 {
			continue
		}
		head := "  " + strings.Join(names, ", ")
		s.writeDescription(hw, padColumn(head), src.Description(), spaces(optionWidth+2), descFirstWidth, descRemWidth)
	}
	return hw.err
}

// writeCommandDescription writes the help line of one command entry.
func (s *OptionSet) writeCommandDescription(hw *helpWriter, c *Command, name string) {
	if name == "" {
		name = c.name
	}
	name = spaces(commandIndent) + name
	if len(name) < optionWidth-1 {
		s.writeDescription(hw, name+spaces(optionWidth-len(name)), c.Help, spaces(optionWidth+2), lineWidth-optionWidth, descRemWidth)
		return
	}
	hw.line(name)
	s.writeDescription(hw, spaces(optionWidth), c.Help, spaces(optionWidth+2), lineWidth-optionWidth, descRemWidth)
}

// writeDescription writes lead followed by the wrapped description, indenting
// continuation lines with prefix.
func (s *OptionSet) writeDescription(hw *helpWriter, lead, desc, prefix string, first, rem int) {
	for i, l := range wrapLines(s.localize(describe(desc)), first, rem) {
		if i == 0 {
			hw.line(lead + l)
			continue
		}
		hw.line(prefix + l)
	}
}

func (s *OptionSet) optionHead(o *Option) (string, bool) {
	var names []string
	for _, n := range o.names {
		if n != defaultName {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, n := range names {
		short := utf8.RuneCountInString(n) == 1
		switch {
		case i == 0 && short:
			b.WriteString("  -")
		case i == 0:
			b.WriteString("      --")
		case short:
			b.WriteString(", -")
		default:
			b.WriteString(", --")
		}
		b.WriteString(n)
	}
	if o.valueType != ValueNone {
		if o.valueType == ValueOptional {
			b.WriteString(s.localize("["))
		}
		b.WriteString(s.localize("=" + argumentName(0, o.maxValues, o.desc)))
		sep := " "
		if len(o.separators) > 0 {
			sep = o.separators[0]
		}
		for i := 1; i < o.maxValues; i++ {
			b.WriteString(s.localize(sep + argumentName(i, o.maxValues, o.desc)))
		}
		if o.valueType == ValueOptional {
			b.WriteString(s.localize("]"))
		}
	}
	return b.String(), true
}

// padColumn pads an option column to the description column, moving the
// description to the next line when the column overflows.
func padColumn(head string) string {
	if n := utf8.RuneCountInString(head); n < optionWidth {
		return head + spaces(optionWidth-n)
	}
	return head + "\n" + spaces(optionWidth)
}

func spaces(n int) string { return strings.Repeat(" ", n) }

// wrapLines wraps text to first columns for its first line and rem columns
// for the rest. Embedded newlines start new lines.
func wrapLines(text string, first, rem int) []string {
	var lines []string
	width := first
	for _, para := range strings.Split(text, "\n") {
		head, tail, more := strings.Cut(wordwrap.WrapString(para, uint(width)), "\n")
		lines = append(lines, head)
		width = rem
		if more {
			tail = strings.ReplaceAll(tail, "\n", " ")
			lines = append(lines, strings.Split(wordwrap.WrapString(tail, uint(rem)), "\n")...)
		}
	}
	return lines
}

// describe strips value-name markup from a description.
func describe(desc string) string {
	var b strings.Builder
	start := -1
	for i := 0; i < len(desc); i++ {
		ch := desc[i]
		switch {
		case ch == '{':
			if i == start {
				b.WriteByte('{')
				start = -1
			} else if start < 0 {
				start = i + 1
			}
		case ch == '}':
			if start < 0 {
				b.WriteByte('}')
				if i+1 < len(desc) && desc[i+1] == '}' {
					i++
				}
				continue
			}
			b.WriteString(desc[start:i])
			start = -1
		case ch == ':' && start >= 0:
			start = i + 1
		case start < 0:
			b.WriteByte(ch)
		}
	}
	if start >= 0 {
		b.WriteString(desc[start-1:])
	}
	return b.String()
}

// braceGroups returns the contents of the {...} groups in desc.
func braceGroups(desc string) []string {
	var groups []string
	start := -1
	for i := 0; i < len(desc); i++ {
		switch desc[i] {
		case '{':
			if i == start {
				start = -1
			} else if start < 0 {
				start = i + 1
			}
		case '}':
			if start < 0 {
				if i+1 < len(desc) && desc[i+1] == '}' {
					i++
				}
				continue
			}
			groups = append(groups, desc[start:i])
			start = -1
		}
	}
	return groups
}

// argumentName returns the display name of the index'th value of an option
// taking maxIndex values.
func argumentName(index, maxIndex int, desc string) string {
	groups := braceGroups(desc)
	want := strconv.Itoa(index) + ":"
	for _, g := range groups {
		if name, ok := strings.CutPrefix(g, want); ok {
			return name
		}
	}
	if maxIndex == 1 {
		for _, g := range groups {
			if !strings.Contains(g, ":") {
				return g
			}
		}
		return "VALUE"
	}
	return "VALUE" + strconv.Itoa(index+1)
}
