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

// Package eval implements one-step reduction (spec §4.F Evaluator) and
// combiner application (spec §4.G) as Reducer functions driven by
// package sched's trampoline. The two components are kept in one package,
// the way the teacher keeps value-dispatch (internal/core/adt/eval.go)
// and call handling (internal/core/adt/call.go) in the same adt package:
// dispatching a combining form immediately needs to invoke application,
// and application needs to re-enter reduction for its operands and body,
// so splitting them would mean an import cycle, not cleaner layering.
package eval

import (
	"strings"

	"unilang.dev/go/errors"
	"unilang.dev/go/internal/core/sched"
	"unilang.dev/go/term"
)

// Evaluate evaluates term t to completion under environment env, driving
// the trampoline until it empties (spec §6 Interpreter::evaluate). The
// mutated t is the result; err is non-nil if evaluation failed.
func Evaluate(env *term.Environment, t *term.Term, sourceName string) (*term.Term, error) {
	ctx := sched.NewContext(env)
	ctx.SourceName = sourceName
	ctx.NextTerm = t
	_, err := ctx.Rewrite(func(ctx *sched.Context) (sched.Status, error) {
		return ReduceOnce(ctx.NextTerm, ctx)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ReduceOnce performs a single step of reduction on t under ctx (spec
// §4.F reduce_once): dispatch by term shape. It is itself a Reducer-
// compatible function (it takes the (*sched.Context) -> (Status, error)
// shape modulo the explicit term argument) and pushes successor reducers
// rather than recursing for every non-trivial case, preserving the proper
// tail-call property.
func ReduceOnce(t *term.Term, ctx *sched.Context) (sched.Status, error) {
	switch {
	case t.IsLeaf():
		return reduceLeaf(t, ctx)
	case t.IsList():
		return reduceList(t, ctx)
	default:
		// Branched term with value: self-evaluating, unless the value
		// holds a reference, which propagates (spec §4.F clause 3).
		if ref, ok := term.AsReference(t); ok {
			return reduceViaReference(t, ref, ctx)
		}
		return sched.Retained, nil
	}
}

func reduceLeaf(t *term.Term, ctx *sched.Context) (sched.Status, error) {
	if tok, ok := term.TryAccess[term.Token](t.Value()); ok {
		// Reserved literals (#ignore, #inert, and any other "#"-prefixed
		// token the reader produces) are self-evaluating rather than
		// identifiers to resolve (spec §6 source-text surface).
		if strings.HasPrefix(string(tok), "#") {
			return sched.Retained, nil
		}
		return resolveSymbol(t, string(tok), ctx)
	}
	// Self-evaluating: a literal of any other kind, including an
	// already-built reference or combiner.
	if ref, ok := term.AsReference(t); ok {
		return reduceViaReference(t, ref, ctx)
	}
	return sched.Retained, nil
}

func resolveSymbol(t *term.Term, name string, ctx *sched.Context) (sched.Status, error) {
	bound, owner, err := term.Resolve(ctx.Env, name)
	if err != nil {
		return sched.Neutral, err
	}
	if bound == nil {
		return sched.Neutral, errors.Newf(errors.BadIdentifier, "identifier %q is not bound", name).WithPath(name)
	}
	_ = owner
	tags := term.PropagateTo(term.Nonmodifying, bound.Tags())
	ref := term.NewReference(bound, ctx.Env, tags)
	t.Value().Assign(term.KindReference, ref)
	return sched.Retained, nil
}

func reduceViaReference(t *term.Term, ref *term.Reference, ctx *sched.Context) (sched.Status, error) {
	_ = t
	_ = ref
	// The reference itself is the observed value; no further reduction
	// step is required here. Callers that need the referent (e.g. the
	// combining-form dispatcher selecting on the head's dynamic kind) go
	// through term.ReferenceTerm/Collapse explicitly.
	return sched.Retained, nil
}

func reduceList(t *term.Term, ctx *sched.Context) (sched.Status, error) {
	if t.Len() == 0 {
		return sched.Clean, nil
	}
	return reduceCombining(t, ctx)
}

// reduceCombining implements spec §4.F's combining-form dispatch: drop a
// leading Sticky metadata child if present, evaluate the head, then
// dispatch application once the head has become a combiner.
func reduceCombining(t *term.Term, ctx *sched.Context) (sched.Status, error) {
	children := t.Children()
	headIdx := 0
	for headIdx < len(children) && children[headIdx].IsSticky() {
		headIdx++
	}
	if headIdx >= len(children) {
		return sched.Clean, nil
	}
	head := children[headIdx]
	operands := children[headIdx+1:]

	pushNonTail(ctx, head, func(ctx *sched.Context) (sched.Status, error) {
		return reduceCombinedBranch(t, head, operands, ctx)
	})
	return sched.Neutral, nil
}

// reduceCombinedBranch runs once the head sub-term has been reduced: the
// head must now denote a combiner, which is applied to the (still
// unevaluated) operand list.
func reduceCombinedBranch(t, head *term.Term, operands []*term.Term, ctx *sched.Context) (sched.Status, error) {
	target := term.ReferenceTerm(head)
	comb, ok := term.TryAccess[term.Combiner](target.Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "head of combination is not a combiner").WithFrame(ctx.SourceName)
	}
	ctx.CombiningTerm = t
	return Apply(comb, t, operands, ctx)
}
