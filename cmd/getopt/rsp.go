// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yeetrun/getopt/pkg/compress"
	"github.com/yeetrun/getopt/pkg/convert"
	"github.com/yeetrun/getopt/pkg/getopt"
	"github.com/yeetrun/getopt/pkg/respfile"
	"go.uber.org/zap"
)

// rspSuite returns the "rsp" suite for working with response files.
func (a *app) rspSuite() (*getopt.CommandSet, error) {
	cs := getopt.NewCommandSet("rsp")

	tokens := getopt.NewCommand("tokens", "Print the arguments read from response files")
	tokens.Run = func(_ context.Context, args []string) int {
		if len(args) == 0 {
			return a.fail(errors.New("no response files given"))
		}
		var out []string
		for _, path := range args {
			toks, err := respfile.ReadFile(path)
			if err != nil {
				return a.fail(err)
			}
			out = append(out, toks...)
		}
		return a.emitLines(out)
	}

	expand := getopt.NewCommand("expand", "Print the arguments after @file and +profile expansion")
	expand.Run = func(_ context.Context, args []string) int {
		return a.emitLines(args)
	}

	if err := cs.AddCommand(tokens); err != nil {
		return nil, err
	}
	if err := cs.AddCommand(expand); err != nil {
		return nil, err
	}
	save, err := a.rspSaveCommand()
	if err != nil {
		return nil, err
	}
	if err := cs.AddCommand(save); err != nil {
		return nil, err
	}
	return cs, nil
}

func (a *app) rspSaveCommand() (*getopt.Command, error) {
	var encoding string
	c := getopt.NewCommand("save", "Write arguments to a response file")
	c.Options = getopt.NewOptionSet()
	err := getopt.AddTyped[string](c.Options, "z|compress=",
		"Compress the file with {ENCODING}: gzip, zstd or deflate. Defaults to the file extension.",
		convert.Enum(compress.Gzip, compress.Zstd, compress.Deflate),
		func(e string) { encoding = e })
	if err != nil {
		return nil, err
	}
	c.Run = func(_ context.Context, args []string) int {
		if len(args) == 0 {
			return a.fail(errors.New("no response file given"))
		}
		path, rest := args[0], args[1:]
		enc := encoding
		if enc == "" {
			enc = compress.EncodingForPath(path)
		}
		if err := writeResponseFile(path, enc, rest); err != nil {
			return a.fail(err)
		}
		a.logger.Debug("wrote response file", zap.String("path", path), zap.String("encoding", enc), zap.Int("args", len(rest)))
		fmt.Fprintf(a.out, "Wrote %d arguments to %s\n", len(rest), path)
		return 0
	}
	return c, nil
}

func writeResponseFile(path, encoding string, args []string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w, err := compress.NewWriter(f, encoding)
	if err != nil {
		return err
	}
	if err := respfile.Write(w, args); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
