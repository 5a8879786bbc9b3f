// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"tailscale.com/util/must"
)

type testSuite struct {
	cs     *CommandSet
	out    strings.Builder
	errOut strings.Builder
	// ran records "COMMAND ARGS..." for every command run.
	ran []string
}

func (ts *testSuite) record(name string) func(context.Context, []string) int {
	return func(_ context.Context, args []string) int {
		ts.ran = append(ts.ran, strings.TrimSpace(name+" "+strings.Join(args, " ")))
		return 0
	}
}

// newTestSuite returns suite "tool" with:
//
//	echo        options -n and --upper
//	plain       no options
//	remote      no options
//	remote add  no options
func newTestSuite(t *testing.T) *testSuite {
	t.Helper()
	ts := &testSuite{}
	ts.cs = NewCommandSet("tool", WithOutput(&ts.out, &ts.errOut))

	echo := NewCommand("echo", "Print arguments")
	echo.Options = NewOptionSet()
	must.Do(echo.Options.Add("n", "Omit the trailing newline.", noop))
	must.Do(echo.Options.Add("upper", "Print in upper case.", noop))
	echo.Run = ts.record("echo")

	plain := NewCommand("plain", "Run without options")
	plain.Run = ts.record("plain")
	remote := NewCommand("remote", "Show remotes")
	remote.Run = ts.record("remote")
	add := NewCommand("remote   add", "Add a remote")
	add.Run = ts.record("remote add")

	for _, c := range []*Command{echo, plain, remote, add} {
		must.Do(ts.cs.AddCommand(c))
	}
	return ts
}

func (ts *testSuite) run(t *testing.T, args ...string) int {
	t.Helper()
	code, err := ts.cs.Run(context.Background(), args)
	if err != nil {
		t.Fatalf("Run(%q) error = %v", args, err)
	}
	return code
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		args    []string
		wantRan []string
	}{
		{args: []string{"echo", "a", "b"}, wantRan: []string{"echo a b"}},
		{args: []string{"echo", "-n", "--upper", "a"}, wantRan: []string{"echo a"}},
		{args: []string{"plain", "-x"}, wantRan: []string{"plain -x"}},
		{args: []string{"remote"}, wantRan: []string{"remote"}},
		{args: []string{"remote", "add", "origin"}, wantRan: []string{"remote add origin"}},
		{args: []string{"remote", "origin"}, wantRan: []string{"remote origin"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			ts := newTestSuite(t)
			if code := ts.run(t, tt.args...); code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if diff := cmp.Diff(tt.wantRan, ts.ran); diff != "" {
				t.Errorf("ran mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunExitCode(t *testing.T) {
	ts := newTestSuite(t)
	fail := NewCommand("fail", "")
	fail.Run = func(context.Context, []string) int { return 3 }
	must.Do(ts.cs.AddCommand(fail))
	if code := ts.run(t, "fail"); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if code := ts.run(t, "nil-run-is-unknown"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	bare := NewCommand("bare", "")
	must.Do(ts.cs.AddCommand(bare))
	if code := ts.run(t, "bare"); code != 0 {
		t.Errorf("command without Run exit code = %d, want 0", code)
	}
}

func TestRunNoCommand(t *testing.T) {
	ts := newTestSuite(t)
	if code := ts.run(t); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if want := "Use `tool help` for usage.\n"; ts.out.String() != want {
		t.Errorf("output = %q, want %q", ts.out.String(), want)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	ts := newTestSuite(t)
	if code := ts.run(t, "bogus", "x"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	want := "tool: Unknown command: bogus\ntool: Use `tool help` for usage.\n"
	if ts.errOut.String() != want {
		t.Errorf("error output = %q, want %q", ts.errOut.String(), want)
	}
	if len(ts.ran) != 0 {
		t.Errorf("ran %q, want nothing", ts.ran)
	}
}

func TestRunOptionError(t *testing.T) {
	ts := newTestSuite(t)
	must.Do(ts.cs.Options().Add("config=", "", noop))
	code, err := ts.cs.Run(context.Background(), []string{"--config"})
	var me *MissingRequiredValueError
	if !errors.As(err, &me) || code != 1 {
		t.Fatalf("Run() = %d, %v, want 1 and a missing value error", code, err)
	}
}

func suiteHelp() string {
	return col("        echo", "Print arguments") +
		col("        plain", "Run without options") +
		col("        remote", "Show remotes") +
		col("        remote add", "Add a remote") +
		col("        help", "Show this message and exit")
}

func echoHelp() string {
	return col("  -n", "Omit the trailing newline.") +
		col("      --upper", "Print in upper case.")
}

func TestRunHelp(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantRan  []string
		wantCode int
	}{
		{name: "help", args: []string{"help"}, wantOut: suiteHelp()},
		{name: "--help", args: []string{"--help"}, wantOut: suiteHelp()},
		{name: "-?", args: []string{"-?"}, wantOut: suiteHelp()},
		{name: "help echo", args: []string{"help", "echo"}, wantOut: echoHelp()},
		{name: "echo --help", args: []string{"echo", "--help"}, wantOut: echoHelp()},
		{name: "--help echo", args: []string{"--help", "echo"}, wantOut: echoHelp()},
		{name: "help plain", args: []string{"help", "plain"}, wantRan: []string{"plain --help"}},
		{name: "plain --help", args: []string{"plain", "--help"}, wantRan: []string{"plain --help"}},
		{name: "help remote add", args: []string{"help", "remote", "add"}, wantRan: []string{"remote add --help"}},
		{name: "help bogus", args: []string{"help", "bogus"}, wantCode: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSuite(t)
			if code := ts.run(t, tt.args...); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if diff := cmp.Diff(tt.wantOut, ts.out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRan, ts.ran); diff != "" {
				t.Errorf("ran mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunHelpBogus(t *testing.T) {
	ts := newTestSuite(t)
	ts.run(t, "help", "bogus")
	want := "tool: Unknown command: bogus\ntool: Use `tool help` for usage.\n"
	if ts.errOut.String() != want {
		t.Errorf("error output = %q, want %q", ts.errOut.String(), want)
	}
}

func TestRunHelpUsage(t *testing.T) {
	ts := newTestSuite(t)
	zeta := NewCommand("Zeta", "Last letter")
	must.Do(ts.cs.AddCommand(zeta))
	alpha := NewCommand("alpha", "First letter")
	must.Do(ts.cs.AddCommand(alpha))

	want := "Usage: tool COMMAND [OPTIONS]\n" +
		"Use `tool help COMMAND` for help on a specific command.\n" +
		"\n" +
		"Available commands:\n" +
		"\n" +
		col("        alpha", "First letter") +
		col("        echo", "Print arguments") +
		col("        plain", "Run without options") +
		col("        remote", "Show remotes") +
		col("        remote add", "Add a remote") +
		col("        Zeta", "Last letter") +
		col("        help", "Show this message and exit")

	for _, args := range [][]string{{"help", "help"}, {"help", "--help"}, {"help", "echo", "--help"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			ts.out.Reset()
			if code := ts.run(t, args...); code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if diff := cmp.Diff(want, ts.out.String()); diff != "" {
				t.Errorf("usage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCustomHelpOption(t *testing.T) {
	ts := newTestSuite(t)
	var seen int
	must.Do(ts.cs.Options().Add("h|help", "Show help.", func(*string) { seen++ }))

	if code := ts.run(t, "-h"); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if seen != 1 {
		t.Errorf("custom help option ran %d times, want 1", seen)
	}
	// Suite options are listed in registration order among the commands.
	want := col("        echo", "Print arguments") +
		col("        plain", "Run without options") +
		col("        remote", "Show remotes") +
		col("        remote add", "Add a remote") +
		col("  -h, --help", "Show help.") +
		col("        help", "Show this message and exit")
	if diff := cmp.Diff(want, ts.out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCommandHelpOption(t *testing.T) {
	ts := newTestSuite(t)
	var got []string
	cmd := NewCommand("own", "Has its own help")
	cmd.Options = NewOptionSet()
	must.Do(cmd.Options.Add("help", "", func(*string) { got = append(got, "help") }))
	cmd.Run = ts.record("own")
	must.Do(ts.cs.AddCommand(cmd))

	ts.run(t, "help", "own")
	if want := "      --help\n"; ts.out.String() != want {
		t.Errorf("help own printed %q, want %q", ts.out.String(), want)
	}

	ts.run(t, "-?", "own")
	if diff := cmp.Diff([]string{"help"}, got); diff != "" {
		t.Errorf("command help option mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"own"}, ts.ran); diff != "" {
		t.Errorf("ran mismatch (-want +got):\n%s", diff)
	}
}

func newRspSuite(ts *testSuite) *CommandSet {
	rsp := NewCommandSet("rsp")
	tokens := NewCommand("tokens", "Print tokens")
	tokens.Run = ts.record("rsp tokens")
	expand := NewCommand("expand", "Expand arguments")
	expand.Run = ts.record("rsp expand")
	must.Do(rsp.AddCommand(tokens))
	must.Do(rsp.AddCommand(expand))
	return rsp
}

func TestNestedSuite(t *testing.T) {
	ts := newTestSuite(t)
	rsp := newRspSuite(ts)
	must.Do(ts.cs.AddCommandSet(rsp))

	if code := ts.run(t, "rsp", "tokens", "a"); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if diff := cmp.Diff([]string{"rsp tokens a"}, ts.ran); diff != "" {
		t.Errorf("ran mismatch (-want +got):\n%s", diff)
	}

	if code := ts.run(t, "rsp"); code != 1 {
		t.Errorf("bare suite name exit code = %d, want 1", code)
	}

	ts.out.Reset()
	ts.run(t, "help")
	want := col("        echo", "Print arguments") +
		col("        plain", "Run without options") +
		col("        remote", "Show remotes") +
		col("        remote add", "Add a remote") +
		col("        rsp tokens", "Print tokens") +
		col("        rsp expand", "Expand arguments") +
		col("        help", "Show this message and exit")
	if diff := cmp.Diff(want, ts.out.String()); diff != "" {
		t.Errorf("help mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedSuiteSharesOptions(t *testing.T) {
	ts := newTestSuite(t)
	rsp := newRspSuite(ts)
	var verbose int
	must.Do(rsp.Options().Add("v", "", func(*string) { verbose++ }))
	must.Do(ts.cs.AddCommandSet(rsp))

	if rsp.Options() != ts.cs.Options() {
		t.Fatal("nested suite does not share the parent options")
	}
	ts.run(t, "-v", "rsp", "expand")
	if verbose != 1 {
		t.Errorf("nested suite option ran %d times, want 1", verbose)
	}
}

func TestAddCommandSetIdempotent(t *testing.T) {
	ts := newTestSuite(t)
	rsp := newRspSuite(ts)
	must.Do(ts.cs.AddCommandSet(rsp))
	n := ts.cs.Options().Len()

	must.Do(ts.cs.AddCommandSet(rsp))
	must.Do(ts.cs.AddCommandSet(ts.cs))
	must.Do(rsp.AddCommandSet(ts.cs))
	if got := ts.cs.Options().Len(); got != n {
		t.Errorf("Len() = %d after re-adding, want %d", got, n)
	}
	if got := len(ts.cs.Completions("rsp")); got != 2 {
		t.Errorf("Completions(rsp) has %d entries, want 2", got)
	}
	if len(ts.cs.nested) != 1 || len(rsp.nested) != 0 {
		t.Errorf("nested suites = %d and %d, want 1 and 0", len(ts.cs.nested), len(rsp.nested))
	}

	// Resolution still terminates after the self and back references.
	if code := ts.run(t, "rsp", "expand"); code != 0 {
		t.Errorf("rsp expand exit code = %d, want 0", code)
	}
	if code := ts.run(t, "rsp", "rsp", "expand"); code != 1 {
		t.Errorf("rsp rsp expand exit code = %d, want 1", code)
	}
	if diff := cmp.Diff([]string{"rsp expand"}, ts.ran); diff != "" {
		t.Errorf("ran mismatch (-want +got):\n%s", diff)
	}
}

func TestAddCommandSetDuplicate(t *testing.T) {
	ts := newTestSuite(t)
	clash := NewCommand("rsp tokens", "")
	must.Do(ts.cs.AddCommand(clash))
	n := ts.cs.Options().Len()

	err := ts.cs.AddCommandSet(newRspSuite(ts))
	var de *DuplicateCommandError
	if !errors.As(err, &de) || de.Name != "rsp tokens" {
		t.Fatalf("AddCommandSet() error = %v, want duplicate rsp tokens", err)
	}
	if got := ts.cs.Options().Len(); got != n {
		t.Errorf("Len() = %d after failed add, want %d", got, n)
	}
}

func TestAddCommandErrors(t *testing.T) {
	a := NewCommandSet("a")
	b := NewCommandSet("b")
	c := NewCommand("x", "")
	must.Do(a.AddCommand(c))

	var oe *CommandOwnerError
	if err := b.AddCommand(c); !errors.As(err, &oe) {
		t.Errorf("AddCommand(other suite) error = %v, want CommandOwnerError", err)
	}
	var de *DuplicateCommandError
	if err := a.AddCommand(c); !errors.As(err, &de) {
		t.Errorf("AddCommand(again) error = %v, want DuplicateCommandError", err)
	}
	if err := a.AddCommand(NewCommand(" x ", "")); !errors.As(err, &de) {
		t.Errorf("AddCommand(same name) error = %v, want DuplicateCommandError", err)
	}
	if err := a.AddCommand(nil); err == nil {
		t.Error("AddCommand(nil) succeeded")
	}
}

func TestNewCommand(t *testing.T) {
	if got := NewCommand("  remote \t add  ", "").Name(); got != "remote add" {
		t.Errorf("Name() = %q, want %q", got, "remote add")
	}
	defer func() {
		if recover() == nil {
			t.Error("NewCommand with a blank name did not panic")
		}
	}()
	NewCommand(" \t", "")
}

func TestCommandLookup(t *testing.T) {
	ts := newTestSuite(t)
	must.Do(ts.cs.AddCommandSet(newRspSuite(ts)))

	tests := []struct {
		tokens   []string
		wantName string
		wantRest []string
	}{
		{tokens: []string{"remote", "add", "x"}, wantName: "remote add", wantRest: []string{"x"}},
		{tokens: []string{"remote", "x"}, wantName: "remote", wantRest: []string{"x"}},
		{tokens: []string{"rsp", "expand"}, wantName: "expand", wantRest: []string{}},
		{tokens: []string{"rsp"}},
		{tokens: []string{"nope"}},
		{tokens: nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.tokens), func(t *testing.T) {
			c, rest := ts.cs.Command(tt.tokens)
			if tt.wantName == "" {
				if c != nil {
					t.Fatalf("Command(%q) = %q, want none", tt.tokens, c.Name())
				}
				return
			}
			if c == nil || c.Name() != tt.wantName {
				t.Fatalf("Command(%q) = %v, want %q", tt.tokens, c, tt.wantName)
			}
			if diff := cmp.Diff(tt.wantRest, rest); diff != "" {
				t.Errorf("rest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompletions(t *testing.T) {
	ts := newTestSuite(t)
	must.Do(ts.cs.AddCommandSet(newRspSuite(ts)))

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "re", want: []string{"remote", "remote add"}},
		{prefix: "E", want: []string{"echo"}},
		{prefix: "r", want: []string{"remote", "remote add", "rsp tokens", "rsp expand"}},
		{prefix: "rsp t", want: []string{"rsp tokens"}},
		{prefix: "rsp  E", want: []string{"rsp expand"}},
		{prefix: "zzz"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ts.cs.Completions(tt.prefix)); diff != "" {
				t.Errorf("Completions(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
			}
		})
	}
}
