// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package respfile reads and writes response files: text files holding
// command-line arguments.
//
// Each line is split on spaces and tabs. Single or double quotes group text
// containing whitespace; the quotes themselves are dropped, and a quote left
// open runs to the end of the line. Arguments never span lines.
package respfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/getopt/pkg/compress"
)

// Tokenize reads all arguments from r.
func Tokenize(r io.Reader) ([]string, error) {
	var args []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			args = appendLine(args, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return args, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func appendLine(args []string, line string) []string {
	var arg strings.Builder
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '"', '\'':
			for i++; i < len(line) && line[i] != c; i++ {
				arg.WriteByte(line[i])
			}
		case ' ', '\t':
			if arg.Len() > 0 {
				args = append(args, arg.String())
				arg.Reset()
			}
		default:
			arg.WriteByte(c)
		}
	}
	if arg.Len() > 0 {
		args = append(args, arg.String())
	}
	return args
}

// ReadFile reads the arguments in the response file at path, which may be
// compressed.
func ReadFile(path string) ([]string, error) {
	r, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Tokenize(r)
}

// Write writes args to w, one per line, quoting them as needed so that
// Tokenize reads them back unchanged.
func Write(w io.Writer, args []string) error {
	for _, arg := range args {
		q, err := Quote(arg)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, q+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Quote returns arg in a form Tokenize reads back as the single argument arg.
// Empty arguments and arguments with line breaks cannot be represented.
func Quote(arg string) (string, error) {
	switch {
	case arg == "":
		return "", errors.New("respfile: empty arguments cannot be represented")
	case strings.ContainsAny(arg, "\r\n"):
		return "", fmt.Errorf("respfile: argument %q contains a line break", arg)
	case !strings.ContainsAny(arg, " \t\"'"):
		return arg, nil
	case !strings.Contains(arg, `"`):
		return `"` + arg + `"`, nil
	case !strings.Contains(arg, "'"):
		return "'" + arg + "'", nil
	}
	// Both quote characters: quote each special character on its own.
	var b strings.Builder
	for _, r := range arg {
		switch r {
		case '"':
			b.WriteString(`'"'`)
		case '\'', ' ', '\t':
			b.WriteString(`"` + string(r) + `"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
