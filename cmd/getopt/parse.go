// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yeetrun/getopt/pkg/convert"
	"github.com/yeetrun/getopt/pkg/getopt"
	"tailscale.com/util/mak"
	"tailscale.com/util/must"
)

type optionSpec struct {
	prototype string
	maxValues int
}

// invocation is one option action call.
type invocation struct {
	Option string    `json:"option" yaml:"option"`
	Index  int       `json:"index" yaml:"index"`
	Values []*string `json:"values" yaml:"values"`
}

type parseResult struct {
	Options []invocation `json:"options" yaml:"options"`
	Args    []string     `json:"args" yaml:"args"`
}

func (r *parseResult) writeText(w io.Writer) error {
	for _, inv := range r.Options {
		parts := []string{inv.Option}
		for _, v := range inv.Values {
			if v == nil {
				parts = append(parts, "<none>")
			} else {
				parts = append(parts, strconv.Quote(*v))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	if len(r.Args) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "--"); err != nil {
		return err
	}
	for _, arg := range r.Args {
		if _, err := fmt.Fprintln(w, arg); err != nil {
			return err
		}
	}
	return nil
}

type parseCmd struct {
	*app
	specs         []optionSpec
	types         map[string]string
	responseFiles bool
}

func (a *app) parseCommand() *getopt.Command {
	p := &parseCmd{app: a}
	c := getopt.NewCommand("parse", "Parse arguments with the given option prototypes")
	c.Options = getopt.NewOptionSet(getopt.WithLogger(a.logger))
	must.Do(c.Options.Add("o|option=", "Accept options matching {PROTOTYPE}.", func(v *string) {
		p.specs = append(p.specs, optionSpec{prototype: *v, maxValues: 1})
	}))
	must.Do(getopt.AddTypedPair[string, int](c.Options, "m|multi={}",
		"Accept options matching {0:PROTOTYPE} that take {1:COUNT} values.",
		func(s string) (string, error) { return s, nil }, convert.Int,
		func(proto string, n int) {
			p.specs = append(p.specs, optionSpec{prototype: proto, maxValues: n})
		}))
	must.Do(c.Options.AddPair("t|type=", "Convert the values of option {0:NAME} to {1:TYPE}.", func(name, typ *string) {
		mak.Set(&p.types, *name, *typ)
	}))
	must.Do(c.Options.Add("r|response-files", "Expand @file arguments.", func(v *string) {
		p.responseFiles = v != nil
	}))
	c.Run = p.run
	return c
}

func (p *parseCmd) run(_ context.Context, args []string) int {
	res, err := p.parse(args)
	if err != nil {
		return p.fail(err)
	}
	if err := p.emit(res, res.writeText); err != nil {
		return p.fail(err)
	}
	return 0
}

// parse compiles the collected prototypes into a fresh option set and
// records every action call made while parsing args.
func (p *parseCmd) parse(args []string) (*parseResult, error) {
	if len(p.specs) == 0 {
		return nil, fmt.Errorf("no option prototypes given; use -o PROTOTYPE")
	}
	target := getopt.NewOptionSet(getopt.WithLogger(p.logger))
	if p.responseFiles {
		target.AddSource(getopt.ResponseFileSource{})
	}
	res := &parseResult{Options: []invocation{}, Args: []string{}}
	typed := map[string]bool{}
	for _, spec := range p.specs {
		var conv func(string) (string, error)
		o, err := getopt.NewOption(spec.prototype, "", spec.maxValues, false, func(c *getopt.Context) error {
			inv, err := record(c, conv)
			if err != nil {
				return err
			}
			res.Options = append(res.Options, inv)
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, name := range o.Names() {
			typ, ok := p.types[name]
			if !ok {
				continue
			}
			if conv, ok = convert.Lookup(typ); !ok {
				return nil, fmt.Errorf("unknown type %q for option %q; known types: %s", typ, name, strings.Join(convert.Names(), ", "))
			}
			typed[name] = true
		}
		if err := target.AddOption(o); err != nil {
			return nil, err
		}
	}
	for name := range p.types {
		if !typed[name] {
			return nil, fmt.Errorf("-t %s: no option named %q", name, name)
		}
	}
	extra, err := target.Parse(args)
	if err != nil {
		return nil, err
	}
	res.Args = append(res.Args, extra...)
	return res, nil
}

// record captures the values of the completed option, converting present
// values with conv.
func record(c *getopt.Context, conv func(string) (string, error)) (invocation, error) {
	inv := invocation{Option: c.OptionName(), Index: c.OptionIndex()}
	n := max(c.Len(), c.Option().MaxValueCount())
	for i := range n {
		v, err := c.Value(i)
		if err != nil {
			return invocation{}, err
		}
		if v != nil && conv != nil {
			cv, err := conv(*v)
			if err != nil {
				return invocation{}, &getopt.TypeConversionError{Option: c.OptionName(), Value: *v, Err: err}
			}
			v = &cv
		}
		inv.Values = append(inv.Values, v)
	}
	return inv, nil
}
