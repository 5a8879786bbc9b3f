// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yeetrun/getopt/pkg/convert"
	"github.com/yeetrun/getopt/pkg/getopt"
	"tailscale.com/util/must"
)

type protoInfo struct {
	Prototype  string   `json:"prototype" yaml:"prototype"`
	Names      []string `json:"names" yaml:"names"`
	Type       string   `json:"type" yaml:"type"`
	MaxValues  int      `json:"max_values" yaml:"max_values"`
	Separators []string `json:"separators,omitempty" yaml:"separators,omitempty"`
}

func (a *app) protoCommand() *getopt.Command {
	maxValues := 1
	c := getopt.NewCommand("proto", "Show how option prototypes compile")
	c.Options = getopt.NewOptionSet()
	must.Do(getopt.AddTyped[int](c.Options, "m|max-values=", "Compile for options taking {COUNT} values (default 1).",
		convert.Int, func(n int) { maxValues = n }))
	c.Run = func(_ context.Context, args []string) int {
		if len(args) == 0 {
			return a.fail(errors.New("no prototypes given"))
		}
		infos := make([]protoInfo, 0, len(args))
		for _, arg := range args {
			p, err := getopt.CompilePrototype(arg, "", maxValues, false)
			if err != nil {
				return a.fail(err)
			}
			infos = append(infos, protoInfo{
				Prototype:  p.String(),
				Names:      p.Names(),
				Type:       p.ValueType().String(),
				MaxValues:  p.MaxValueCount(),
				Separators: p.ValueSeparators(),
			})
		}
		err := a.emit(infos, func(w io.Writer) error {
			for _, info := range infos {
				line := fmt.Sprintf("%s: names=%s type=%s max=%d",
					info.Prototype, strings.Join(info.Names, ","), info.Type, info.MaxValues)
				if len(info.Separators) > 0 {
					quoted := make([]string, len(info.Separators))
					for i, s := range info.Separators {
						quoted[i] = strconv.Quote(s)
					}
					line += " separators=" + strings.Join(quoted, ",")
				}
				if _, err := fmt.Fprintln(w, line); err != nil {
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
	return c
}

func (a *app) convertCommand() *getopt.Command {
	c := getopt.NewCommand("convert", "Convert values with a named converter")
	c.Run = func(_ context.Context, args []string) int {
		if len(args) == 0 {
			return a.fail(fmt.Errorf("no type given; known types: %s", strings.Join(convert.Names(), ", ")))
		}
		conv, ok := convert.Lookup(args[0])
		if !ok {
			return a.fail(fmt.Errorf("unknown type %q; known types: %s", args[0], strings.Join(convert.Names(), ", ")))
		}
		out := make([]string, 0, len(args)-1)
		for _, v := range args[1:] {
			cv, err := conv(v)
			if err != nil {
				return a.fail(fmt.Errorf("could not convert %q to %s: %w", v, args[0], err))
			}
			out = append(out, cv)
		}
		return a.emitLines(out)
	}
	return c
}

func (a *app) completeCommand() *getopt.Command {
	c := getopt.NewCommand("complete", "List commands that complete a prefix")
	c.Run = func(_ context.Context, args []string) int {
		return a.emitLines(a.suite.Completions(strings.Join(args, " ")))
	}
	return c
}
