// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package getopt parses command lines against options declared with compact
// prototype strings, and dispatches command suites built on top of them.
//
// # Prototypes
//
// An option is declared with a prototype: one or more aliases joined by '|'.
// An alias ending in '=' takes a required value, one ending in ':' takes an
// optional value, and an alias with neither takes no value:
//
//	v|verbose        no value
//	o|output=        required value
//	color:           optional value
//	D=               key/value pair (with AddPair), split on ':' or '='
//	I={,}            pair split on ","
//	x={->}{=>}       pair split on "->" or "=>"
//
// Separator specs after the terminator are only allowed for options that take
// more than one value. Bare characters are one separator each; a {...} block
// is one literal separator, and {} alone disables splitting.
//
// # Parsing
//
//	s := getopt.NewOptionSet()
//	var verbose int
//	var output string
//	must.Do(s.Add("v|verbose", "more output", func(*string) { verbose++ }))
//	must.Do(s.Add("o|output=", "write to {FILE}", func(v *string) { output = *v }))
//	rest, err := s.Parse(os.Args[1:])
//
// Options may be spelled -v, --verbose or /v. Values may be inline
// (--output=x, -o:x) or in the next token. Single-character options without a
// value may be bundled (-vvv), and a value option may end a bundle (-vofile).
// A no-value option may be toggled with a trailing + or - (-v+, -v-). The
// token "--" ends option processing, and "@file" reads more arguments from a
// response file when a ResponseFileSource is registered.
//
// Tokens that are not options are returned in order, or handed to the default
// option "<>" when one is registered.
//
// # Command suites
//
// A CommandSet routes the leftover tokens of its suite options to a Command,
// optionally through nested suites, and provides a builtin help command.
package getopt
