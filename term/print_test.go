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
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

// TestSprintShowReferenceMarkToggle exercises the showReferenceMark
// parameter of Sprint (spec "Supplemented features" item 2,
// TermToStringWithReferenceMark): the same reference renders with or
// without its leading "&" depending on the flag, never affecting the
// target's own text.
func TestSprintShowReferenceMarkToggle(t *testing.T) {
	env := NewEnvironment(NoParent)
	target := NewLeaf(NumFromInt64Box(5), 0)
	ref := NewLeaf(ReferenceBox(NewReference(target, env, 0)), 0)

	qt.Assert(t, qt.Equals(Sprint(ref, true), "&5"))
	qt.Assert(t, qt.Equals(Sprint(ref, false), "5"))
}

// TestSprintLeavesNonReferenceTermsUnaffectedByTheFlag confirms the flag
// only changes rendering at a reference leaf, not elsewhere in the tree.
func TestSprintLeavesNonReferenceTermsUnaffectedByTheFlag(t *testing.T) {
	l := NewList(NewLeaf(NumFromInt64Box(1), 0), NewLeaf(StringBox("x"), 0))
	qt.Assert(t, qt.Equals(Sprint(l, true), Sprint(l, false)))
	qt.Assert(t, qt.Equals(Sprint(l, false), `(1 "x")`))
}

// TestDumpRendersStructureAndRespectsTheFlag confirms Dump surfaces the
// tree shape (kind/tags per node) and threads showReferenceMark into the
// per-node Value field the way Sprint would render it standalone.
func TestDumpRendersStructureAndRespectsTheFlag(t *testing.T) {
	env := NewEnvironment(NoParent)
	target := NewLeaf(NumFromInt64Box(5), 0)
	ref := NewLeaf(ReferenceBox(NewReference(target, env, 0)), 0)

	withMark := Dump(ref, true)
	withoutMark := Dump(ref, false)
	qt.Assert(t, qt.IsTrue(strings.Contains(withMark, "&5")))
	qt.Assert(t, qt.IsFalse(strings.Contains(withoutMark, "&5")))
	qt.Assert(t, qt.IsTrue(strings.Contains(withoutMark, "Kind")))
}
