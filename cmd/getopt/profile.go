// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/yeetrun/getopt/pkg/config"
	"github.com/yeetrun/getopt/pkg/getopt"
	"tailscale.com/util/must"
)

type profileInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Args        []string `json:"args" yaml:"args"`
}

// profileSuite returns the "profile" suite for managing +profile entries.
func (a *app) profileSuite() (*getopt.CommandSet, error) {
	cs := getopt.NewCommandSet("profile")

	list := getopt.NewCommand("list", "List the configured profiles")
	list.Run = func(_ context.Context, _ []string) int {
		if a.config == nil {
			return a.fail(errors.New("no profile file found; create one with \"profile add\""))
		}
		f := a.config.File
		infos := make([]profileInfo, 0, len(f.Profiles))
		for _, name := range f.ProfileNames() {
			p := f.Profiles[name]
			infos = append(infos, profileInfo{Name: name, Description: p.Description, Args: p.Args})
		}
		err := a.emit(infos, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
			}
			return tw.Flush()
		})
		if err != nil {
			return a.fail(err)
		}
		return 0
	}
	if err := cs.AddCommand(list); err != nil {
		return nil, err
	}
	if err := cs.AddCommand(a.profileAddCommand()); err != nil {
		return nil, err
	}
	return cs, nil
}

func (a *app) profileAddCommand() *getopt.Command {
	var desc string
	c := getopt.NewCommand("add", "Add or replace a profile")
	c.Options = getopt.NewOptionSet()
	must.Do(c.Options.Add("d|description=", "Describe the profile as {TEXT}.", func(v *string) {
		desc = *v
	}))
	c.Run = func(_ context.Context, args []string) int {
		if len(args) == 0 {
			return a.fail(errors.New("no profile name given"))
		}
		name, rest := args[0], args[1:]
		path, f, err := a.profileFile()
		if err != nil {
			return a.fail(err)
		}
		f.SetProfile(name, config.Profile{Description: desc, Args: rest})
		if err := config.Save(path, f); err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Saved profile %q to %s\n", name, path)
		return 0
	}
	return c
}

// profileFile returns the loaded profile file, or a new one in the working
// directory.
func (a *app) profileFile() (string, *config.File, error) {
	if a.config != nil {
		return a.config.Path, a.config.File, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	return filepath.Join(wd, config.FileNames[0]), &config.File{}, nil
}
