// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads getopt profile files.
//
// A profile file is named getopt.toml or getopt.yaml and is looked up from
// the working directory towards the filesystem root, unless GETOPT_CONFIG
// names one explicitly. It holds named argument lists that the command line
// can splice in as +NAME:
//
//	version = 1
//	defaults = ["--format=text"]
//
//	[profiles.ci]
//	description = "Settings for CI runs"
//	args = ["--no-color", "--format=json"]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/mak"
)

const (
	// EnvVar names a profile file to use instead of searching for one.
	EnvVar = "GETOPT_CONFIG"

	fileVersion = 1
)

// FileNames are the names Find looks for, in order of preference.
var FileNames = []string{"getopt.toml", "getopt.yaml", "getopt.yml"}

type File struct {
	Version int `toml:"version,omitempty" yaml:"version,omitempty"`
	// Defaults are prepended to every command line.
	Defaults []string           `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Profiles map[string]Profile `toml:"profiles,omitempty" yaml:"profiles,omitempty"`
}

type Profile struct {
	Description string   `toml:"description,omitempty" yaml:"description,omitempty"`
	Args        []string `toml:"args" yaml:"args"`
}

// Location is a loaded profile file.
type Location struct {
	Path string
	Dir  string
	File *File
}

// Load reads the profile file at path. Files ending in .yaml or .yml are
// YAML; anything else is TOML.
func Load(path string) (*File, error) {
	var f File
	if isYAML(path) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		md, err := toml.DecodeFile(path, &f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("failed to parse %s: unknown key %q", path, keys[0].String())
		}
	}
	if f.Version == 0 {
		f.Version = fileVersion
	}
	if f.Version > fileVersion {
		return nil, fmt.Errorf("%s: unsupported version %d", path, f.Version)
	}
	return &f, nil
}

// Save writes f to path in the format its extension selects.
func Save(path string, f *File) error {
	if f.Version == 0 {
		f.Version = fileVersion
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Find returns the path of the nearest profile file in startDir or one of
// its parents. It returns os.ErrNotExist if there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// Resolve loads the profile file named by explicit, by $GETOPT_CONFIG, or
// found from startDir, in that order. It returns nil if no file is named or
// found.
func Resolve(explicit, startDir string) (*Location, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		var err error
		path, err = Find(startDir)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Location{Path: path, Dir: filepath.Dir(path), File: f}, nil
}

// SetProfile adds or replaces a profile.
func (f *File) SetProfile(name string, p Profile) {
	mak.Set(&f.Profiles, name, p)
}

// ProfileNames returns the profile names, sorted.
func (f *File) ProfileNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ProfileSource expands +NAME tokens into the arguments of profile NAME.
// Profiles may refer to other profiles. Tokens naming no profile, such as
// "+5", are left alone.
type ProfileSource struct {
	File *File
}

func (ProfileSource) Names() []string { return []string{"+profile"} }

func (ProfileSource) Description() string { return "Insert the arguments of a configured profile." }

func (s ProfileSource) Expand(arg string) ([]string, bool, error) {
	name, ok := strings.CutPrefix(arg, "+")
	if !ok || name == "" || s.File == nil {
		return nil, false, nil
	}
	p, ok := s.File.Profiles[name]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(p.Args), true, nil
}
