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

package term

import (
	"github.com/cockroachdb/apd/v3"
)

// Num is the numeric-literal payload of a KindNum box. The core's scope
// stops at holding a literal (spec §1: no numeric tower); the
// representation is the teacher's arbitrary-precision decimal so that
// derived-form arithmetic builtins (spec.md §8's `+`, `-`, `<=?`) have a
// real type to operate on instead of a hand-rolled one.
type Num struct {
	*apd.Decimal
}

// Equal lets Box.Equal defer to apd's own comparison.
func (n Num) Equal(other any) bool {
	o, ok := other.(Num)
	if !ok || o.Decimal == nil || n.Decimal == nil {
		return false
	}
	return n.Decimal.Cmp(o.Decimal) == 0
}

// NumFromInt64 returns a Num literal for a small integer.
func NumFromInt64(v int64) Num {
	return Num{apd.New(v, 0)}
}

// Token is the symbol payload of a KindToken box: a plain string value
// tagged as a token so the evaluator knows to treat it as an identifier
// to resolve rather than a self-evaluating string.
type Token string

func (t Token) Equal(other any) bool {
	o, ok := other.(Token)
	return ok && t == o
}

// EnvHandle is the payload of a KindEnvHandle box: a strong reference to
// an environment held as a first-class value (e.g. the result of
// `make-environment` or `get-current-environment`).
type EnvHandle struct{ Env *Environment }

func (h EnvHandle) Equal(other any) bool {
	o, ok := other.(EnvHandle)
	return ok && h.Env == o.Env
}

// WeakEnvHandle is the payload of a KindWeakEnv box.
type WeakEnvHandle struct{ Ref WeakEnvRef }

// EnvListHandle is the payload of a KindEnvList box: a first-class list of
// environments, as exposed to derived code that introspects a parent
// specification.
type EnvListHandle struct{ Envs []*Environment }

// CombinerCategory discriminates operative from applicative combiners
// (spec §4.G). It lives in this package, rather than with the concrete
// combiner types (defined in package eval's combine.go, and eval depends
// on term), so that a Term's value box can hold a Combiner without term
// depending on eval.
type CombinerCategory uint8

const (
	OperativeCombiner CombinerCategory = iota
	ApplicativeCombiner
)

// A Combiner is the marker interface a KindCombiner box's payload
// implements: either an operative (spec §4.G fexpr) or an applicative
// wrapper around one. The concrete types, and the logic that invokes them,
// live in package eval (combine.go); this package only needs to recognize
// that a value is a combiner and which category it falls in, without
// importing eval's concrete types and creating a cycle.
type Combiner interface {
	Category() CombinerCategory
}

// HostValue is the payload of a KindHost box: an opaque embedder value
// keyed by a stable type-id (spec §9 "escape hatch for embedder types").
type HostValue struct {
	TypeID string
	Value  any
}

// BoolBox returns a Box holding a boolean.
func BoolBox(v bool) Box {
	b := Box{}
	b.Assign(KindBool, v)
	return b
}

// NumBox returns a Box holding a numeric literal.
func NumBox(n Num) Box {
	b := Box{}
	b.Assign(KindNum, n)
	return b
}

// StringBox returns a Box holding a string.
func StringBox(s string) Box {
	b := Box{}
	b.Assign(KindString, s)
	return b
}

// TokenBox returns a Box holding a symbol.
func TokenBox(s string) Box {
	b := Box{}
	b.Assign(KindToken, Token(s))
	return b
}

// EnvHandleBox returns a Box holding a strong environment handle.
func EnvHandleBox(e *Environment) Box {
	b := Box{}
	b.Assign(KindEnvHandle, EnvHandle{Env: e})
	return b
}

// ReferenceBox returns a Box holding a reference.
func ReferenceBox(r *Reference) Box {
	b := Box{}
	b.Assign(KindReference, r)
	return b
}

// CombinerBox returns a Box holding a combiner.
func CombinerBox(c Combiner) Box {
	b := Box{}
	b.Assign(KindCombiner, c)
	return b
}
