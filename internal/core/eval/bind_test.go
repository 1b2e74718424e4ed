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
	"testing"

	"github.com/go-quicktest/qt"

	"unilang.dev/go/errors"
	"unilang.dev/go/term"
)

func sym(name string) *term.Term { return term.NewLeaf(term.TokenBox(name), 0) }
func num(v int64) *term.Term     { return term.NewLeaf(term.NumBox(term.NumFromInt64(v)), term.Unique) }

func TestBindParameterTreeIgnoreDiscardsOperand(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	err := bindParameterTree(sym("#ignore"), num(1), env)
	qt.Assert(t, qt.IsNil(err))
}

func TestBindParameterTreeBareSymbolBindsByValue(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	err := bindParameterTree(sym("x"), num(5), env)
	qt.Assert(t, qt.IsNil(err))

	got, ok := env.LookupLocal("x")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(term.Access[term.Num](got.Value()).Decimal.String(), "5"))
	qt.Assert(t, qt.IsTrue(got.Tags().Has(term.Unique)), qt.Commentf("operand was Unique-tagged, so the bound copy stays move-eligible"))
}

func TestBindParameterTreeAmpersandBindsByReference(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	operand := num(5)
	err := bindParameterTree(sym("&x"), operand, env)
	qt.Assert(t, qt.IsNil(err))

	got, ok := env.LookupLocal("x")
	qt.Assert(t, qt.IsTrue(ok))
	ref, ok := term.AsReference(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ref.Target, operand))
}

func TestBindParameterTreeDestructuresListWithRestParameter(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	param := term.NewList(sym("a"), sym("b"), sym("."), sym("rest"))
	operand := term.NewList(num(1), num(2), num(3), num(4))

	err := bindParameterTree(param, operand, env)
	qt.Assert(t, qt.IsNil(err))

	a, _ := env.LookupLocal("a")
	b, _ := env.LookupLocal("b")
	rest, _ := env.LookupLocal("rest")
	qt.Assert(t, qt.Equals(term.Access[term.Num](a.Value()).Decimal.String(), "1"))
	qt.Assert(t, qt.Equals(term.Access[term.Num](b.Value()).Decimal.String(), "2"))
	qt.Assert(t, qt.IsTrue(rest.IsList()))
	qt.Assert(t, qt.Equals(rest.Len(), 2))
}

func TestBindParameterTreeArityMismatchWithoutRestIsParameterMismatch(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	param := term.NewList(sym("a"), sym("b"))
	operand := term.NewList(num(1))

	err := bindParameterTree(param, operand, env)
	qt.Assert(t, qt.IsNotNil(err))
	var uerr *errors.Error
	qt.Assert(t, qt.ErrorAs(err, &uerr))
	qt.Assert(t, qt.Equals(uerr.Kind, errors.ParameterMismatch))
}

func TestBindParameterTreeAtomOperandAgainstListParamIsListTypeError(t *testing.T) {
	env := term.NewEnvironment(term.NoParent)
	param := term.NewList(sym("a"))
	operand := num(1)

	err := bindParameterTree(param, operand, env)
	qt.Assert(t, qt.IsNotNil(err))
	var uerr *errors.Error
	qt.Assert(t, qt.ErrorAs(err, &uerr))
	qt.Assert(t, qt.Equals(uerr.Kind, errors.ListTypeError))
}
