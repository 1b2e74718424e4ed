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

import "unilang.dev/go/internal/core/sched"
import "unilang.dev/go/term"

// pushNonTail schedules expr for reduction as a sub-step that the caller
// still has work left to do after: ctx.Env is restored to whatever it was
// when pushNonTail was called before then runs, so a compound call buried
// inside expr's reduction cannot leak its environment change past this
// point. This is the one place stack depth grows with nesting, which is
// expected — spec §8 property 5 only bounds *tail* position.
func pushNonTail(ctx *sched.Context, expr *term.Term, then sched.Reducer) {
	savedEnv := ctx.Env
	ctx.Push(func(ctx *sched.Context) (sched.Status, error) {
		ctx.Env = savedEnv
		return then(ctx)
	})
	ctx.Push(func(ctx *sched.Context) (sched.Status, error) {
		return ReduceOnce(expr, ctx)
	})
}

// sequentialNonTail reduces exprs left to right, each as its own non-tail
// step restoring ctx.Env in between, then runs final. It is how operand
// lists (spec §4.G ArgEval) and every body statement but the last (spec
// §4.G Body) are threaded through the trampoline without native recursion.
func sequentialNonTail(ctx *sched.Context, exprs []*term.Term, final sched.Reducer) (sched.Status, error) {
	var step func(i int) sched.Reducer
	step = func(i int) sched.Reducer {
		if i >= len(exprs) {
			return final
		}
		return func(ctx *sched.Context) (sched.Status, error) {
			pushNonTail(ctx, exprs[i], step(i+1))
			return sched.Neutral, nil
		}
	}
	return step(0)(ctx)
}

// TailEval performs a tail call (spec §4.G Return / proper tail calls):
// expr's content is copied into combiningTerm — reusing the node already
// on the caller's side of the trampoline rather than allocating a new
// result slot — env becomes current, and reduction continues with a bare
// push, no wrapper. Because no reducer is added to restore state once this
// reduction completes, a chain of TailEval calls (e.g. a self-recursive
// call in tail position) leaves the stack depth exactly where it was
// before the chain began: this is the whole proper-tail-call mechanism.
func TailEval(ctx *sched.Context, combiningTerm, expr *term.Term, env *term.Environment) (sched.Status, error) {
	combiningTerm.SetContent(expr.Copy())
	ctx.Env = env
	ctx.Push(func(ctx *sched.Context) (sched.Status, error) {
		return ReduceOnce(combiningTerm, ctx)
	})
	return sched.Neutral, nil
}
