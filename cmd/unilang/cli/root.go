// Copyright 2026 The Unilang Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli wires the spec §6/§7 flag surface onto a cobra.Command,
// the way cmd/cue/cmd/root.go builds *cobra.Command for the cue binary,
// even though this CLI exposes a single command rather than a subcommand
// tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"unilang.dev/go/errors"
	"unilang.dev/go/term"
	"unilang.dev/go/unilang"
)

const defaultInitFile = "unilang_init.unl"

// New returns the root command (spec §6: "prog [options] [SRCPATH
// [args…]]").
func New() *cobra.Command {
	var (
		evalStrings []string
		noInitFile  bool
	)

	c := &cobra.Command{
		Use:                   "unilang [options] [SRCPATH [args...]]",
		Short:                 "evaluate a unilang script or string",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Args:                  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, evalStrings, noInitFile)
		},
	}
	c.Flags().StringArrayVarP(&evalStrings, "eval", "e", nil,
		"evaluate STRING; may repeat, evaluated in order before SRCPATH")
	c.Flags().BoolVarP(&noInitFile, "no-init-file", "q", false,
		"disable loading the init file")
	return c
}

// Main runs the CLI and returns the code for passing to os.Exit, the way
// cmd/cue/cmd.Main does for the cue binary. It is also the entry point
// testscript.RunMain re-execs into for the cmd/unilang/cli .txtar suite.
func Main() int {
	if err := New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, args []string, evalStrings []string, noInitFile bool) error {
	in := unilang.New()

	if !noInitFile {
		if src, err := os.ReadFile(defaultInitFile); err == nil {
			if _, err := in.RunScript(string(src), defaultInitFile); err != nil {
				return err
			}
		}
	}

	echo := os.Getenv("ECHO") != ""
	out := cmd.OutOrStdout()

	// UNILANG_NO_JIT and UNILANG_NO_SRCINFO are read for parity with the
	// original implementation's DeEnvs table (src/Main.cpp); this
	// implementation has no JIT and tracks no source positions beyond an
	// opaque source name, so both are documented no-ops.
	_ = os.Getenv("UNILANG_NO_JIT")
	_ = os.Getenv("UNILANG_NO_SRCINFO")

	for _, s := range evalStrings {
		forms, err := in.RunScript(s, "-e")
		if err != nil {
			return err
		}
		if echo {
			echoForms(out, forms)
		}
	}

	if len(args) == 0 {
		return nil
	}
	srcPath, trailing := args[0], args[1:]

	if err := bindTrailingArgs(in, trailing); err != nil {
		return err
	}

	src, sourceName, err := readSource(srcPath)
	if err != nil {
		return err
	}
	forms, err := in.RunScript(src, sourceName)
	if err != nil {
		return err
	}
	if echo {
		echoForms(out, forms)
	}
	return nil
}

func readSource(srcPath string) (src, sourceName string, err error) {
	if srcPath == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", errors.Wrap(errors.InvalidSyntax, err, "reading stdin")
		}
		return string(b), "<stdin>", nil
	}
	b, err := os.ReadFile(srcPath)
	if err != nil {
		return "", "", errors.Wrap(errors.InvalidSyntax, err, "reading %s", srcPath)
	}
	return string(b), srcPath, nil
}

func bindTrailingArgs(in *unilang.Interpreter, trailing []string) error {
	elems := make([]*term.Term, len(trailing))
	for i, a := range trailing {
		elems[i] = term.NewLeaf(term.StringBox(a), 0)
	}
	return in.Define("args", term.NewList(elems...))
}

func echoForms(out io.Writer, forms []*term.Term) {
	for _, f := range forms {
		// showReferenceMark is false: the CLI's echoed result is meant to
		// read as plain unilang source text, not as the internal "&" mark
		// a debugger-style Dump would want.
		fmt.Fprintln(out, term.Sprint(f, false))
	}
}
