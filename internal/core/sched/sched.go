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

// Package sched implements the reducer trampoline of spec §4.E: a stack
// of pending reductions run one at a time from an explicit stack rather
// than through native recursion, so that proper tail calls and one-shot
// continuation capture are possible. The stack discipline (push onto a
// slice, pop from its tail) is lifted directly from the teacher's
// taskContext.pushTask/popTask in internal/core/adt/sched.go; what is
// simplified relative to the teacher is the payload each entry carries —
// this evaluator has no constraint-propagation counters to track, only a
// plain continuation-passing stack of Reducer closures.
package sched

import (
	"unilang.dev/go/errors"
	"unilang.dev/go/term"
)

// A Status reports what a single reduction step accomplished (spec §4.E).
type Status uint8

const (
	// Clean means the term under reduction is no longer needed: it
	// evaluated to itself or its result was discarded.
	Clean Status = iota
	// Retained means the term now carries the result of the reduction.
	Retained
	// Neutral means no progress was made this step.
	Neutral
	// Retrying means the same term should be re-evaluated.
	Retrying
)

func (s Status) String() string {
	switch s {
	case Clean:
		return "Clean"
	case Retained:
		return "Retained"
	case Neutral:
		return "Neutral"
	case Retrying:
		return "Retrying"
	default:
		return "Unknown"
	}
}

// A Reducer is a first-class handler run by the trampoline. It may push
// further reducers onto ctx's stack before returning — that is how a
// reducer "tail calls" a sub-expression without recursing into Rewrite.
type Reducer func(ctx *Context) (Status, error)

// A Context is the per-evaluation state threaded through every reduction
// (spec §3 Context).
type Context struct {
	// Env is the current environment (a strong handle).
	Env *term.Environment

	stack []Reducer

	// LastStatus is the status of the most recently completed reduction.
	LastStatus Status

	// NextTerm is the term currently under reduction.
	NextTerm *term.Term

	// CombiningTerm is the term being applied, kept for diagnostics and
	// tail-call elision.
	CombiningTerm *term.Term

	// SourceName is carried into tail frames for diagnostics; it is the
	// only source-location information the core tracks (spec §1).
	SourceName string

	cancelled bool
}

// NewContext returns a fresh context evaluating under env.
func NewContext(env *term.Environment) *Context {
	return &Context{Env: env}
}

// Cancel sets the cooperative cancellation flag; the next trampoline
// iteration observes it and unwinds (spec §5 Cancellation).
func (c *Context) Cancel() { c.cancelled = true }

// Cancelled reports whether cancellation has been requested.
func (c *Context) Cancelled() bool { return c.cancelled }

// Push installs r on top of the reducer stack: it will run before
// whatever was already pending, which is how a reducer sequences a
// successor continuation.
func (c *Context) Push(r Reducer) { c.stack = append(c.stack, r) }

// PushAll installs rs so that rs[0] runs first, rs[1] next, and so on:
// equivalent to pushing them one at a time in reverse order.
func (c *Context) PushAll(rs []Reducer) {
	for i := len(rs) - 1; i >= 0; i-- {
		c.Push(rs[i])
	}
}

// Depth reports the current stack depth, exposed for the tail-call
// property test (spec §8 property 5): evaluating a sequence of k
// statements in tail position must leave this bounded by a constant
// independent of k at the moment the final statement begins.
func (c *Context) Depth() int { return len(c.stack) }

func (c *Context) pop() (Reducer, bool) {
	n := len(c.stack)
	if n == 0 {
		return nil, false
	}
	r := c.stack[n-1]
	c.stack = c.stack[:n-1]
	return r, true
}

// Rewrite runs the trampoline: push the initial reducer, then repeatedly
// pop and run the top of the stack until it empties or a reducer fails
// (spec §4.E).
//
//	push(initial_reducer)
//	while stack not empty:
//	    r ← pop_front()
//	    last_status ← r(ctx)
//	return last_status
//
// A failing reducer aborts the run: the remaining stack is discarded and
// the error is returned to the caller, who may have installed a
// catch-reducer lower in a nested Rewrite call (spec §7 Propagation).
func (c *Context) Rewrite(initial Reducer) (Status, error) {
	c.Push(initial)
	for {
		if c.cancelled {
			c.stack = nil
			return Neutral, errors.Newf(errors.Cancelled, "evaluation cancelled").WithFrame(c.SourceName)
		}
		r, ok := c.pop()
		if !ok {
			return c.LastStatus, nil
		}
		status, err := r(c)
		if err != nil {
			c.stack = nil
			if e, ok := err.(*errors.Error); ok {
				return status, e.WithFrame(c.SourceName)
			}
			return status, err
		}
		c.LastStatus = status
	}
}

// Snapshot captures the current reducer stack by value, for one-shot
// continuation capture (spec §4.G call/1cc). It returns a fresh copy of
// the stack, so a capture taken here is unaffected by pushes or pops
// performed after it was taken.
func (c *Context) Snapshot() []Reducer {
	cp := make([]Reducer, len(c.stack))
	copy(cp, c.stack)
	return cp
}

// Restore replaces the current reducer stack wholesale, discarding
// whatever was pending. Invoking a captured continuation does this.
func (c *Context) Restore(stack []Reducer) {
	c.stack = append([]Reducer(nil), stack...)
}
