// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import (
	"fmt"
	"strings"

	"github.com/yeetrun/getopt/pkg/respfile"
)

// maxSourceDepth bounds nested expansions, e.g. a response file that
// includes itself.
const maxSourceDepth = 64

// ArgumentSource rewrites a single token into replacement tokens before it
// is matched against options.
type ArgumentSource interface {
	// Names returns the forms the source recognizes, for help output.
	Names() []string
	Description() string
	// Expand reports whether arg belongs to this source and, if so, the
	// tokens that replace it.
	Expand(arg string) (replacement []string, ok bool, err error)
}

// ResponseFileSource expands @path tokens into the tokens read from path.
// Compressed response files are decompressed transparently.
type ResponseFileSource struct{}

func (ResponseFileSource) Names() []string { return []string{"@file"} }

func (ResponseFileSource) Description() string { return "Read response file for more options." }

func (ResponseFileSource) Expand(arg string) ([]string, bool, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok || path == "" {
		return nil, false, nil
	}
	args, err := respfile.ReadFile(path)
	if err != nil {
		return nil, true, fmt.Errorf("response file %s: %w", path, err)
	}
	return args, true, nil
}

// tokenStack yields tokens depth-first: tokens pushed by an expansion are
// consumed before the rest of the stream they replaced.
type tokenStack struct {
	frames []tokenFrame
	// level is the expansion depth of the token last returned by next.
	level int
}

type tokenFrame struct {
	tokens []string
	level  int
}

func newTokenStack(args []string) *tokenStack {
	return &tokenStack{frames: []tokenFrame{{tokens: args}}}
}

// push adds the expansion of the token last returned by next.
func (st *tokenStack) push(tokens []string) {
	if len(tokens) > 0 {
		st.frames = append(st.frames, tokenFrame{tokens: tokens, level: st.level + 1})
	}
}

func (st *tokenStack) next() (string, bool) {
	for len(st.frames) > 0 {
		top := &st.frames[len(st.frames)-1]
		if len(top.tokens) == 0 {
			st.frames = st.frames[:len(st.frames)-1]
			continue
		}
		arg := top.tokens[0]
		top.tokens = top.tokens[1:]
		st.level = top.level
		return arg, true
	}
	return "", false
}

// expand offers arg to each registered source in turn.
func (s *OptionSet) expand(st *tokenStack, arg string) (bool, error) {
	for _, src := range s.sources {
		repl, ok, err := src.Expand(arg)
		if err != nil {
			return true, err
		}
		if !ok {
			continue
		}
		if st.level >= maxSourceDepth {
			return true, fmt.Errorf("expanding %s: argument sources nested deeper than %d", arg, maxSourceDepth)
		}
		st.push(repl)
		return true, nil
	}
	return false, nil
}
