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

	"github.com/google/go-cmp/cmp"
	"github.com/go-quicktest/qt"
)

// termEqual is the cmp.Comparer the term_test.go structural-equality tests
// defer to: Term carries unexported fields, so a bare cmp.Diff would
// panic, the way cue/lit_test.go registers a cmp.Comparer for big.Rat/
// big.Int rather than letting cmp recurse into their unexported internals.
var termEqual = cmp.Comparer(func(a, b *Term) bool { return a.Equal(b) })

// TestIsListIsLeafIsPair exercises the three structural predicates of
// spec §3 directly off their defining conditions.
func TestIsListIsLeafIsPair(t *testing.T) {
	list := NewList(NewLeaf(NumBox(NumFromInt64(1)), 0))
	qt.Assert(t, qt.IsTrue(list.IsList()))
	qt.Assert(t, qt.IsFalse(list.IsLeaf()))
	qt.Assert(t, qt.IsFalse(list.IsPair()))

	leaf := NewLeaf(StringBox("x"), 0)
	qt.Assert(t, qt.IsFalse(leaf.IsList()))
	qt.Assert(t, qt.IsTrue(leaf.IsLeaf()))

	pair := NewBranch(StringBox("tag"), 0, NewLeaf(NumFromInt64Box(1), 0), NewLeaf(NumFromInt64Box(2), 0))
	qt.Assert(t, qt.IsFalse(pair.IsList()))
	qt.Assert(t, qt.IsFalse(pair.IsLeaf()))
	qt.Assert(t, qt.IsTrue(pair.IsPair()))
}

// NumFromInt64Box is a small local helper so tests read as "a numeric
// leaf", not an indirection through Num plumbing.
func NumFromInt64Box(v int64) Box { return NumBox(NumFromInt64(v)) }

// TestAtomWithDecorationIsNotAPair exercises the Sticky-first-child branch
// of spec §3's pair/atom-with-decoration distinction.
func TestAtomWithDecorationIsNotAPair(t *testing.T) {
	meta := NewLeaf(StringBox("meta"), Sticky)
	decorated := NewBranch(StringBox("atom"), 0, meta)
	qt.Assert(t, qt.IsTrue(decorated.IsAtomWithDecoration()))
	qt.Assert(t, qt.IsFalse(decorated.IsPair()))
	qt.Assert(t, qt.Equals(decorated.CountPrefix(), 0))
}

// TestCountPrefixStopsAtStickyTail confirms CountPrefix reports only the
// leading non-sticky run, leaving the sticky tail out of the visible
// element count.
func TestCountPrefixStopsAtStickyTail(t *testing.T) {
	l := NewList(
		NewLeaf(NumFromInt64Box(1), 0),
		NewLeaf(NumFromInt64Box(2), 0),
		NewLeaf(StringBox("meta"), Sticky),
	)
	qt.Assert(t, qt.Equals(l.CountPrefix(), 2))
	qt.Assert(t, qt.Equals(l.Len(), 3))
}

// TestCopyIsDeepAndIndependent ensures Copy produces a structurally equal
// but fully independent tree: mutating the copy must not be observable
// through the original.
func TestCopyIsDeepAndIndependent(t *testing.T) {
	orig := NewList(NewLeaf(NumFromInt64Box(1), 0), NewLeaf(NumFromInt64Box(2), 0))
	cp := orig.Copy()
	if diff := cmp.Diff(orig, cp, termEqual); diff != "" {
		t.Errorf("Copy produced a structurally different tree (-orig +cp):\n%s", diff)
	}

	cp.At(0).SetContent(NewLeaf(NumFromInt64Box(99), 0))
	if diff := cmp.Diff(orig, cp, termEqual); diff == "" {
		t.Errorf("mutating the copy should have diverged it from the original")
	}
	qt.Assert(t, qt.Equals(Access[Num](orig.At(0).Value()).Decimal.String(), "1"))
}

// TestMoveClearsSource confirms Move transfers content and leaves the
// source cleared, so it cannot alias the destination's new content.
func TestMoveClearsSource(t *testing.T) {
	src := NewLeaf(StringBox("hello"), Unique)
	dst := &Term{}
	dst.Move(src)

	qt.Assert(t, qt.Equals(Access[string](dst.Value()), "hello"))
	qt.Assert(t, qt.Equals(dst.Tags(), Unique))
	qt.Assert(t, qt.IsTrue(src.IsList()))
	qt.Assert(t, qt.Equals(src.Tags(), Tags(0)))
}

// TestSetAtTouchesOnlyOneChild exercises the in-place single-slot mutation
// set-first!/set-rest! go through, distinct from SetContent replacing the
// whole term.
func TestSetAtTouchesOnlyOneChild(t *testing.T) {
	pair := NewList(NewLeaf(NumFromInt64Box(1), 0), NewLeaf(NumFromInt64Box(2), 0))
	pair.SetAt(0, NewLeaf(NumFromInt64Box(9), 0))

	qt.Assert(t, qt.Equals(Access[Num](pair.At(0).Value()).Decimal.String(), "9"))
	qt.Assert(t, qt.Equals(Access[Num](pair.At(1).Value()).Decimal.String(), "2"))
}

// TestRemoveHeadPanicsOnStickyFirstChild documents the precondition
// violation as a panic, matching the teacher's convention of panicking on
// broken internal invariants rather than returning an error for a caller
// bug.
func TestRemoveHeadPanicsOnStickyFirstChild(t *testing.T) {
	decorated := NewBranch(StringBox("atom"), 0, NewLeaf(StringBox("meta"), Sticky))
	defer func() {
		r := recover()
		qt.Assert(t, qt.IsNotNil(r))
	}()
	decorated.RemoveHead()
}

// TestClearDeepRecursesIntoChildren confirms ClearDeep empties every
// descendant, not just the root term.
func TestClearDeepRecursesIntoChildren(t *testing.T) {
	child := NewLeaf(NumFromInt64Box(1), 0)
	root := NewList(child)
	root.ClearDeep()

	qt.Assert(t, qt.IsTrue(root.IsList()))
	qt.Assert(t, qt.Equals(root.Len(), 0))
	qt.Assert(t, qt.IsTrue(child.IsList()))
	qt.Assert(t, qt.Equals(child.Tags(), Tags(0)))
}

// TestAssertValueTagsPanicsOnTemporary exercises spec §4.G's invariant
// that a stored value must already have had Temporary cleared.
func TestAssertValueTagsPanicsOnTemporary(t *testing.T) {
	tmp := NewLeaf(NumFromInt64Box(1), Temporary)
	defer func() {
		r := recover()
		qt.Assert(t, qt.IsNotNil(r))
	}()
	tmp.AssertValueTags()
}
