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

// A Continuation is a one-shot capture of a reducer stack plus the
// environment in effect at capture time (spec §4.G call/1cc). target is
// the combining term the captured call/1cc expression occupied; invoking
// the continuation writes the resume value there, exactly the way
// [TailEval] reuses a combining term for an ordinary tail call.
type Continuation struct {
	stack  []sched.Reducer
	env    *term.Environment
	target *term.Term
	used   bool
}

// contOperative is the operative invoked when a captured Continuation is
// called like a procedure. It is always exposed wrapped (Wrap), since
// invoking a continuation evaluates its one argument before resuming.
type contOperative struct {
	k *Continuation
}

func (c *contOperative) Category() term.CombinerCategory { return term.OperativeCombiner }

func (c *contOperative) invoke(ctx *sched.Context, operandTerms []*term.Term, combiningTerm *term.Term) (sched.Status, error) {
	if c.k.used {
		return sched.Neutral, errors.Newf(errors.BadContinuation, "continuation already invoked")
	}
	c.k.used = true
	var resume *term.Term
	if len(operandTerms) > 0 {
		resume = operandTerms[0]
	} else {
		resume = term.NewList()
	}
	c.k.target.SetContent(resume.Copy())
	ctx.Restore(c.k.stack)
	ctx.Env = c.k.env
	return sched.Retained, nil
}

// Call1CC is the primitive implementation of call/1cc: it captures the
// current stack and environment, then applies the already-evaluated
// receiver combiner to a fresh one-shot continuation value. It is
// registered wrapped (applicative), since its one operand — the receiver
// — is itself an expression to evaluate.
var Call1CC = Wrap(&Primitive{
	Name: "call/1cc",
	Fn: func(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
		if len(operandTerms) != 1 {
			return sched.Neutral, errors.Newf(errors.ArityError, "call/1cc expects exactly one operand")
		}
		receiverTerm := term.ReferenceTerm(operandTerms[0])
		receiver, ok := term.TryAccess[term.Combiner](receiverTerm.Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "call/1cc operand must evaluate to a combiner")
		}
		k := &Continuation{stack: ctx.Snapshot(), env: callerEnv, target: combiningTerm}
		kTerm := term.NewLeaf(term.CombinerBox(Wrap(&contOperative{k: k})), 0)
		return Apply(receiver, combiningTerm, []*term.Term{kTerm}, ctx)
	},
})
