// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"tailscale.com/util/must"
)

func noop(*string) {}

func TestAddOptionDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		prototype string
		wantName  string
	}{
		{name: "same alias", existing: []string{"v"}, prototype: "v", wantName: "v"},
		{name: "second alias", existing: []string{"v|verbose"}, prototype: "x|verbose", wantName: "verbose"},
		{name: "within prototype", prototype: "a|b|a", wantName: "a"},
		{name: "value type ignored", existing: []string{"n="}, prototype: "n:", wantName: "n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewOptionSet()
			for _, p := range tt.existing {
				must.Do(s.Add(p, "", noop))
			}
			before := s.Len()
			err := s.Add(tt.prototype, "", noop)
			var de *DuplicateOptionError
			if !errors.As(err, &de) {
				t.Fatalf("Add(%q) error = %v, want DuplicateOptionError", tt.prototype, err)
			}
			if de.Name != tt.wantName {
				t.Errorf("duplicate name = %q, want %q", de.Name, tt.wantName)
			}
			if s.Len() != before {
				t.Errorf("Len() = %d after failed Add, want %d", s.Len(), before)
			}
			if tt.prototype == "x|verbose" && s.Contains("x") {
				t.Error("failed Add registered alias x")
			}
		})
	}
}

func TestAddInvalidPrototype(t *testing.T) {
	s := NewOptionSet()
	if err := s.Add("a=|b:", "", noop); err == nil {
		t.Fatal("Add() succeeded with conflicting types")
	}
	if err := s.AddPair("a", "", func(k, v *string) {}); err == nil {
		t.Fatal("AddPair() succeeded for an option without a value")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := NewOptionSet()
	var got []string
	record := func(name string) func(*string) {
		return func(*string) { got = append(got, name) }
	}
	must.Do(s.Add("a|all", "", record("a")))
	must.Do(s.Add("v|verbose", "", record("v")))
	must.Do(s.Add("q|quiet", "", record("q")))

	if !s.Remove("verbose") {
		t.Fatal("Remove(verbose) = false")
	}
	if s.Remove("verbose") || s.Remove("v") {
		t.Fatal("Remove of an already removed option = true")
	}
	for _, name := range []string{"v", "verbose"} {
		if s.Contains(name) {
			t.Errorf("Contains(%q) = true after Remove", name)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	extra := must.Get(s.Parse([]string{"-a", "--quiet", "-q", "-v"}))
	if diff := cmp.Diff([]string{"a", "q", "q"}, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"-v"}, extra); diff != "" {
		t.Errorf("extra mismatch (-want +got):\n%s", diff)
	}

	// The freed aliases can be registered again.
	must.Do(s.Add("v", "", record("v2")))
	o, ok := s.Lookup("v")
	if !ok || o.String() != "v" {
		t.Fatalf("Lookup(v) = %v, %v", o, ok)
	}
}

func TestCategories(t *testing.T) {
	s := NewOptionSet()
	s.AddCategory("General:")
	must.Do(s.Add("v", "", noop))
	s.AddCategory("General:")

	opts := s.Options()
	if len(opts) != 3 || s.Len() != 3 {
		t.Fatalf("Options() has %d entries, Len() = %d, want 3", len(opts), s.Len())
	}
	var cats []bool
	for _, o := range opts {
		cats = append(cats, o.IsCategory())
	}
	if diff := cmp.Diff([]bool{true, false, true}, cats); diff != "" {
		t.Errorf("IsCategory() mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i <= 2; i++ {
		name := categoryPrefix + strconv.Itoa(i)
		if !s.Contains(name) {
			t.Errorf("Contains(%q) = false", name)
		}
		// Categories never match input.
		if extra := must.Get(s.Parse([]string{name})); len(extra) != 1 {
			t.Errorf("Parse(%q) consumed a category", name)
		}
	}
}

func TestOptionsIsACopy(t *testing.T) {
	s := NewOptionSet()
	must.Do(s.Add("v", "", noop))
	opts := s.Options()
	opts[0] = nil
	if o, ok := s.Lookup("v"); !ok || o == nil {
		t.Fatal("modifying Options() changed the set")
	}
}
