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

package eval

import (
	"unilang.dev/go/errors"
	"unilang.dev/go/internal/core/sched"
	"unilang.dev/go/term"
)

// A Primitive is a combiner implemented directly in Go: the ground
// environment's special forms ($vau, $if, $define!, ...) and the builtins
// supplemented from original_source/ (+, cons, ...). It is always an
// operative; primitives that want applicative argument evaluation wrap
// themselves with Wrap.
type Primitive struct {
	Name string
	Fn   func(ctx *sched.Context, operands []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error)
}

// Category implements term.Combiner.
func (p *Primitive) Category() term.CombinerCategory { return term.OperativeCombiner }

// A Compound is an operative created by evaluating a $vau expression: it
// captures its static environment, a parameter tree for the operand list,
// an optional name bound to the dynamic (caller's) environment, and a body
// sequence (spec §4.G).
type Compound struct {
	Params   *term.Term
	EnvParam string // "" or "#ignore" means the dynamic environment is dropped
	Captured *term.Environment
	Body     []*term.Term
}

// Category implements term.Combiner.
func (c *Compound) Category() term.CombinerCategory { return term.OperativeCombiner }

// An Applicative wraps another combiner (operative or, if nested, another
// applicative) so that its operands are evaluated before it runs (spec
// §4.G operative/applicative). Wrapping an already-wrapped applicative
// compounds: each layer evaluates the already-evaluated result of the
// layer beneath it one more time, which is what "wrap may nest" means.
type Applicative struct {
	Wrapped term.Combiner
}

// Category implements term.Combiner.
func (a *Applicative) Category() term.CombinerCategory { return term.ApplicativeCombiner }

// Wrap returns an applicative around c.
func Wrap(c term.Combiner) *Applicative { return &Applicative{Wrapped: c} }

// Unwrap returns the operative immediately beneath one layer of wrapping,
// and true, or (nil, false) if c is not an Applicative. wrap(unwrap(c))
// reconstructs an Applicative equal in behavior to c (spec §8 property 4).
func Unwrap(c term.Combiner) (term.Combiner, bool) {
	a, ok := c.(*Applicative)
	if !ok {
		return nil, false
	}
	return a.Wrapped, true
}

// Apply implements combiner application (spec §4.G): an Applicative
// evaluates its operands left to right under the caller's environment,
// then applies the wrapped combiner to the results (recursing here is what
// makes nested wrap layers each add one more evaluation pass); anything
// else is an operative and receives the operand list unevaluated.
func Apply(comb term.Combiner, combiningTerm *term.Term, operandTerms []*term.Term, ctx *sched.Context) (sched.Status, error) {
	if appl, ok := comb.(*Applicative); ok {
		callerEnv := ctx.Env
		return sequentialNonTail(ctx, operandTerms, func(ctx *sched.Context) (sched.Status, error) {
			ctx.Env = callerEnv
			return Apply(appl.Wrapped, combiningTerm, operandTerms, ctx)
		})
	}
	return invokeOperative(comb, combiningTerm, operandTerms, ctx.Env, ctx)
}

func invokeOperative(op term.Combiner, combiningTerm *term.Term, operandTerms []*term.Term, callerEnv *term.Environment, ctx *sched.Context) (sched.Status, error) {
	switch o := op.(type) {
	case *Primitive:
		return o.Fn(ctx, operandTerms, callerEnv, combiningTerm)
	case *Compound:
		return applyCompound(o, combiningTerm, operandTerms, callerEnv, ctx)
	case *contOperative:
		return o.invoke(ctx, operandTerms, combiningTerm)
	default:
		return sched.Neutral, errors.Newf(errors.TypeError, "operand position requires a combiner, found an unrecognized operative implementation")
	}
}

// applyCompound binds operandTerms against c's parameter tree in a fresh
// child environment, optionally binds the dynamic environment under
// EnvParam, runs every body statement but the last for effect, and tail-
// calls the last one (spec §4.G Bind, Body, Return).
func applyCompound(c *Compound, combiningTerm *term.Term, operandTerms []*term.Term, callerEnv *term.Environment, ctx *sched.Context) (sched.Status, error) {
	freshEnv := term.NewEnvironment(term.StrongParent(c.Captured))
	if err := bindParameterTree(c.Params, term.NewList(operandTerms...), freshEnv); err != nil {
		return sched.Neutral, err
	}
	if c.EnvParam != "" && c.EnvParam != "#ignore" {
		if err := freshEnv.Define(c.EnvParam, term.NewLeaf(term.EnvHandleBox(callerEnv), 0)); err != nil {
			return sched.Neutral, err
		}
	}
	if len(c.Body) == 0 {
		combiningTerm.SetContent(term.NewList())
		return sched.Retained, nil
	}
	nonLast, last := c.Body[:len(c.Body)-1], c.Body[len(c.Body)-1]
	ctx.Env = freshEnv
	return sequentialNonTail(ctx, nonLast, func(ctx *sched.Context) (sched.Status, error) {
		return TailEval(ctx, combiningTerm, last, freshEnv)
	})
}
