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

// TestReferenceTermFollowsThroughOnlyWhenReference confirms
// ReferenceTerm(t) is t itself for a plain leaf and the borrowed target
// when t's box holds a *Reference.
func TestReferenceTermFollowsThroughOnlyWhenReference(t *testing.T) {
	plain := NewLeaf(NumFromInt64Box(1), 0)
	qt.Assert(t, qt.Equals(ReferenceTerm(plain), plain))

	env := NewEnvironment(NoParent)
	target := NewLeaf(NumFromInt64Box(7), 0)
	ref := NewLeaf(ReferenceBox(NewReference(target, env, Unique)), 0)
	qt.Assert(t, qt.Equals(ReferenceTerm(ref), target))
}

// TestCollapseFoldsChainAndMergesTags exercises spec §4.D collapse: a
// reference-to-a-reference folds to a single reference on the innermost
// non-reference target, with tags merged via PropagateTo.
func TestCollapseFoldsChainAndMergesTags(t *testing.T) {
	env := NewEnvironment(NoParent)
	inner := NewLeaf(NumFromInt64Box(7), 0)

	innermost := NewLeaf(ReferenceBox(NewReference(inner, env, Nonmodifying)), 0)
	outer := NewLeaf(ReferenceBox(NewReference(innermost, env, Unique)), 0)

	collapsed := Collapse(outer)
	ref, ok := AsReference(collapsed)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(ref.Target, inner))
	// PropagateTo(dst=Unique, src=Nonmodifying) carries only Nonmodifying
	// on top of dst, so the merged tags are Unique|Nonmodifying.
	qt.Assert(t, qt.Equals(ref.Tags, Unique|Nonmodifying))
}

// TestCollapseIsIdempotent exercises spec §8 property 6: collapsing an
// already-collapsed reference is a no-op, returning the same term.
func TestCollapseIsIdempotent(t *testing.T) {
	env := NewEnvironment(NoParent)
	target := NewLeaf(NumFromInt64Box(3), 0)
	ref := NewLeaf(ReferenceBox(NewReference(target, env, Unique)), 0)

	once := Collapse(ref)
	qt.Assert(t, qt.Equals(once, ref), qt.Commentf("a reference with a non-reference target is already collapsed"))

	twice := Collapse(once)
	qt.Assert(t, qt.Equals(twice, once))
}

// TestIsMovableFailsAfterAnchorInvalidated confirms a reference loses
// movability once its environment anchor expires, even if its tags still
// pass IsMovable on the Tags bitset alone.
func TestIsMovableFailsAfterAnchorInvalidated(t *testing.T) {
	env := NewEnvironment(NoParent)
	target := NewLeaf(NumFromInt64Box(1), 0)
	ref := NewReference(target, env, Unique)

	qt.Assert(t, qt.IsTrue(ref.IsMovable()))
	env.Anchor().Invalidate()
	qt.Assert(t, qt.IsFalse(ref.IsMovable()))
}
