// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui colors diagnostics written to a terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

// Colorizer applies colors when Enabled is set.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer for output to w. Colors are used only if
// enabled is set, w is a terminal, $NO_COLOR is unset and $TERM is not dumb.
func NewColorizer(w io.Writer, enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) sprint(text string, attrs ...color.Attribute) string {
	if !c.Enabled {
		return text
	}
	col := color.New(attrs...)
	col.EnableColor()
	return col.Sprint(text)
}

func (c Colorizer) Red(text string) string { return c.sprint(text, color.FgRed, color.Bold) }

func (c Colorizer) Green(text string) string { return c.sprint(text, color.FgGreen) }

func (c Colorizer) Yellow(text string) string { return c.sprint(text, color.FgYellow) }

func (c Colorizer) Dim(text string) string { return c.sprint(text, color.FgHiBlack) }

// PrintError writes err to w as a single "Error: ..." line, with the prefix
// in red. Messages that already start with "Error:" keep their prefix.
func (c Colorizer) PrintError(w io.Writer, err error) {
	msg := strings.TrimSpace(err.Error())
	rest, ok := strings.CutPrefix(msg, "Error:")
	if !ok {
		rest = " " + msg
	}
	fmt.Fprintf(w, "%s%s\n", c.Red("Error:"), rest)
}
