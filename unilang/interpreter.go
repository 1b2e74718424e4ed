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

// Package unilang is the embedder API of spec §6: a host program links
// this package, builds an Interpreter, and feeds it source text or
// pre-built Term trees without going through the CLI.
package unilang

import (
	"unilang.dev/go/internal/core/boot"
	"unilang.dev/go/internal/core/eval"
	"unilang.dev/go/internal/core/sched"
	"unilang.dev/go/term"
)

// An Interpreter is an embeddable evaluation session: a top-level
// environment plus the single reducer Context evaluation within that
// session shares. The Context must persist across calls to Evaluate,
// not just within one: a one-shot continuation (call/1cc) captured
// while evaluating one top-level form can be invoked while evaluating a
// later, separate one (spec §8 scenario 5), and resuming it replays the
// captured reducer stack into whatever the originally-captured
// combining term was — not into the form that invoked it. Callers that
// need to observe the resumed value inspect the original form's Term,
// not the invoking form's return value; see RunScript.
type Interpreter struct {
	env *term.Environment
	ctx *sched.Context
}

// New returns an Interpreter with a fresh top-level environment
// parented on a newly booted, frozen ground environment.
func New() *Interpreter {
	env := boot.NewTopLevel()
	return &Interpreter{env: env, ctx: sched.NewContext(env)}
}

// Environment returns the interpreter's top-level environment, e.g. so
// an embedder can pre-bind host values before running a script.
func (in *Interpreter) Environment() *term.Environment { return in.env }

// Evaluate reduces t to completion in the interpreter's shared context,
// under sourceName for diagnostics (spec §6 Interpreter::evaluate). The
// mutated t, or whatever term a continuation resumption ultimately
// settled it to, is returned; t is also mutated in place.
func (in *Interpreter) Evaluate(t *term.Term, sourceName string) (*term.Term, error) {
	in.ctx.SourceName = sourceName
	in.ctx.Env = in.env
	in.ctx.NextTerm = t
	_, err := in.ctx.Rewrite(func(ctx *sched.Context) (sched.Status, error) {
		return eval.ReduceOnce(ctx.NextTerm, ctx)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ReadFrom parses src into top-level forms without evaluating them.
func (in *Interpreter) ReadFrom(src string) ([]*term.Term, error) {
	return boot.ReadAll(src)
}

// RunScript reads and evaluates every top-level form in src in order
// (spec §6 script entry point), returning one Term per form. Because a
// continuation invoked from a later form can reach back and mutate an
// earlier form's result (spec §8 scenario 5), callers must inspect the
// whole slice after RunScript returns rather than assume only the last
// entry matters.
func (in *Interpreter) RunScript(src, sourceName string) ([]*term.Term, error) {
	forms, err := in.ReadFrom(src)
	if err != nil {
		return nil, err
	}
	for _, f := range forms {
		if _, err := in.Evaluate(f, sourceName); err != nil {
			return nil, err
		}
	}
	return forms, nil
}

// RunLine reads and evaluates a single line of source text (spec §6 REPL
// line entry point), returning its value. A line may contain more than
// one top-level form; the value of the last one is returned.
func (in *Interpreter) RunLine(line, sourceName string) (*term.Term, error) {
	forms, err := in.ReadFrom(line)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return term.NewList(), nil
	}
	var last *term.Term
	for _, f := range forms {
		last, err = in.Evaluate(f, sourceName)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

// Define binds name to a host-provided value in the interpreter's
// top-level environment, e.g. for the CLI to bind trailing positional
// arguments (spec §6) before running a script.
func (in *Interpreter) Define(name string, t *term.Term) error {
	return in.env.Define(name, t)
}
