// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/yeetrun/getopt/pkg/convert"
	"github.com/yeetrun/getopt/pkg/getopt"
	"tailscale.com/util/must"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

// Version returns the release version if set, otherwise falls back to the
// commit hash.
func Version() string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return v
	}
	return versionCommit()
}

func versionCommit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var dirty bool
	var commit string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}
	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}

type versionInfo struct {
	Version    string `json:"version" yaml:"version"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Satisfied  *bool  `json:"satisfied,omitempty" yaml:"satisfied,omitempty"`
}

func (a *app) versionCommand() *getopt.Command {
	var check string
	c := getopt.NewCommand("version", "Print the version, or check it against a constraint")
	c.Options = getopt.NewOptionSet()
	must.Do(c.Options.Add("check=", "Exit 1 unless the version satisfies {CONSTRAINT}, e.g. \">= 1.2, < 2\".", func(v *string) {
		check = *v
	}))
	c.Run = func(_ context.Context, args []string) int {
		info := versionInfo{Version: Version()}
		if len(args) > 0 {
			info.Version = args[0]
		}
		if check != "" {
			ok, err := satisfies(info.Version, check)
			if err != nil {
				return a.fail(err)
			}
			info.Constraint = check
			info.Satisfied = &ok
		}
		err := a.emit(info, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, info.Version)
			return err
		})
		if err != nil {
			return a.fail(err)
		}
		if info.Satisfied != nil && !*info.Satisfied {
			fmt.Fprintf(a.errOut, "%s: version %s does not satisfy %q\n", suiteName, info.Version, check)
			return 1
		}
		return 0
	}
	return c
}

func satisfies(version, constraint string) (bool, error) {
	c, err := convert.Constraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	v, err := convert.SemVer(version)
	if err != nil {
		return false, fmt.Errorf("version %q is not a semantic version: %w", version, err)
	}
	return c.Check(v), nil
}
