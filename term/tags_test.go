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
	"testing"

	"github.com/go-quicktest/qt"
)

// TestIsMovableRequiresUniqueAndNotNonmodifying exercises spec §8 property
// 2: a value is movable iff it is Unique and not Nonmodifying.
func TestIsMovableRequiresUniqueAndNotNonmodifying(t *testing.T) {
	cases := []struct {
		name string
		tags Tags
		want bool
	}{
		{"unqualified", Tags(0), false},
		{"unique-alone", Unique, true},
		{"unique-and-nonmodifying", Unique | Nonmodifying, false},
		{"nonmodifying-alone", Nonmodifying, false},
		{"unique-temporary", Unique | Temporary, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			qt.Assert(t, qt.Equals(c.tags.IsMovable(), c.want))
		})
	}
}

// TestLValueTagsStripsTemporary confirms the lvalue projection drops
// Temporary but preserves every other bit.
func TestLValueTagsStripsTemporary(t *testing.T) {
	all := Unique | Nonmodifying | Temporary
	qt.Assert(t, qt.Equals(all.LValueTags(), Unique|Nonmodifying))
}

// TestEnsureValueTagsClearsTemporary mirrors LValueTags: both clear the
// same bit, but EnsureValueTags is the name spec §4.G's Return state uses.
func TestEnsureValueTagsClearsTemporary(t *testing.T) {
	qt.Assert(t, qt.Equals((Unique | Temporary).EnsureValueTags(), Unique))
}

// TestPropagateToOnlyCarriesNonmodifying confirms constness propagates
// from src to dst but uniqueness and temporariness do not.
func TestPropagateToOnlyCarriesNonmodifying(t *testing.T) {
	got := PropagateTo(Tags(0), Unique|Nonmodifying|Temporary)
	qt.Assert(t, qt.Equals(got, Nonmodifying))
}

// TestHasAndAny exercise the two bitset predicates against a mixed tag
// word.
func TestHasAndAny(t *testing.T) {
	mixed := Unique | Sticky
	qt.Assert(t, qt.IsTrue(mixed.Has(Unique)))
	qt.Assert(t, qt.IsFalse(mixed.Has(Unique|Nonmodifying)))
	qt.Assert(t, qt.IsTrue(mixed.Any(Nonmodifying|Sticky)))
	qt.Assert(t, qt.IsFalse(mixed.Any(Nonmodifying|Temporary)))
}
