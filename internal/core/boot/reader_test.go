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

package boot

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-quicktest/qt"

	"unilang.dev/go/term"
)

func TestReadAllSkipsCommentsAndWhitespace(t *testing.T) {
	forms, err := ReadAll(`
; a leading comment
(+ 1 2) ; trailing comment
   (+ 3 4)
`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 2))
	qt.Assert(t, qt.Equals(term.Sprint(forms[0], true), "(+ 1 2)"))
	qt.Assert(t, qt.Equals(term.Sprint(forms[1], true), "(+ 3 4)"))
}

func TestReadAllNestedLists(t *testing.T) {
	forms, err := ReadAll(`($lambda (x y) (+ x (- y 1)))`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 1))
	qt.Assert(t, qt.Equals(term.Sprint(forms[0], true), "($lambda (x y) (+ x (- y 1)))"))
}

func TestReadAllStringEscapes(t *testing.T) {
	forms, err := ReadAll(`"line one\nline two\ttabbed \"quoted\""`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 1))
	qt.Assert(t, qt.Equals(term.Access[string](forms[0].Value()), "line one\nline two\ttabbed \"quoted\""))
}

func TestReadAllReservedLiterals(t *testing.T) {
	forms, err := ReadAll(`#t #f #inert #ignore`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 4))
	qt.Assert(t, qt.Equals(term.Access[bool](forms[0].Value()), true))
	qt.Assert(t, qt.Equals(term.Access[bool](forms[1].Value()), false))
	qt.Assert(t, qt.Equals(string(term.Access[term.Token](forms[2].Value())), "#inert"))
	qt.Assert(t, qt.Equals(string(term.Access[term.Token](forms[3].Value())), "#ignore"))
}

// TestReadAllDisambiguatesSymbolsThatLookNumeric exercises looksNumeric's
// guard: "-", "+" and operator-like symbols such as "<=?" must read as
// Token symbols, not fail a numeric parse attempt.
func TestReadAllDisambiguatesSymbolsThatLookNumeric(t *testing.T) {
	forms, err := ReadAll(`- + <=? -5 +5 5 -5.25 .5`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 8))

	wantToken := func(i int, want string) {
		qt.Assert(t, qt.Equals(forms[i].Value().Type(), term.KindToken))
		qt.Assert(t, qt.Equals(string(term.Access[term.Token](forms[i].Value())), want))
	}
	wantNum := func(i int, want *apd.Decimal) {
		qt.Assert(t, qt.Equals(forms[i].Value().Type(), term.KindNum))
		got := term.Access[term.Num](forms[i].Value()).Decimal
		qt.Assert(t, qt.Equals(got.Cmp(want), 0))
	}

	wantToken(0, "-")
	wantToken(1, "+")
	wantToken(2, "<=?")
	wantNum(3, apd.New(-5, 0))
	wantNum(4, apd.New(5, 0))
	wantNum(5, apd.New(5, 0))
	wantNum(6, apd.New(-525, -2))
	wantNum(7, apd.New(5, -1))
}

func TestReadAllUnterminatedListIsError(t *testing.T) {
	_, err := ReadAll(`(+ 1 2`)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestReadAllUnterminatedStringIsError(t *testing.T) {
	_, err := ReadAll(`"unterminated`)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestReadAllUnexpectedCloseParenIsError(t *testing.T) {
	_, err := ReadAll(`)`)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestReadAllEmptyListIsAnEmptyList(t *testing.T) {
	forms, err := ReadAll(`()`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(forms), 1))
	qt.Assert(t, qt.IsTrue(forms[0].IsList()))
	qt.Assert(t, qt.Equals(forms[0].Len(), 0))
}
