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

// Package term implements the finite ordered tree data model of spec §3-4:
// Term and the tag algebra (component A), the value box (B), the
// environment graph (C), and TermReference/collapse (D). These four
// components are kept in one package, the way the teacher keeps Vertex,
// Environment, Conjunct and every Value kind together in
// internal/core/adt: they interlock tightly enough — a Reference borrows a
// Term and anchors an Environment, an Environment binds Terms, a Term's Box
// can hold a Reference or an Environment handle — that splitting them
// would mean an import cycle, not cleaner layering.
package term

// A Term is a node in the evaluated tree (spec §3 Term). The zero Term is
// an empty list.
type Term struct {
	children []*Term
	value    Box
	tags     Tags
}

// NewLeaf returns a leaf term holding box, tagged tags.
func NewLeaf(box Box, tags Tags) *Term {
	return &Term{value: box, tags: tags}
}

// NewList returns a list term with the given elements.
func NewList(children ...*Term) *Term {
	return &Term{children: children}
}

// NewBranch returns a branched term with value carrying both box and
// children: a pair when children[0] is not Sticky, an atom with decoration
// otherwise.
func NewBranch(box Box, tags Tags, children ...*Term) *Term {
	return &Term{value: box, tags: tags, children: children}
}

// Tags reports the term's own tag bits.
func (t *Term) Tags() Tags { return t.tags }

// SetTags replaces the term's own tag bits.
func (t *Term) SetTags(tags Tags) { t.tags = tags }

// Value returns a pointer to the term's value box. It is never nil, but
// may be Empty.
func (t *Term) Value() *Box { return &t.value }

// IsList reports whether t's value box is empty (spec §3: is_list(t) ⇔
// value box is empty).
func (t *Term) IsList() bool { return t.value.Empty() }

// IsLeaf reports whether t has no children.
func (t *Term) IsLeaf() bool { return len(t.children) == 0 }

// IsSticky reports whether t is marked as structural metadata.
func (t *Term) IsSticky() bool { return t.tags.Has(Sticky) }

// IsPair reports whether t has children whose first child is not Sticky
// (spec §3: a pair is a branched term whose first child is non-sticky).
func (t *Term) IsPair() bool {
	return len(t.children) > 0 && !t.children[0].IsSticky()
}

// IsAtomWithDecoration reports whether t has children but the first bears
// the Sticky tag: an atom carrying invisible metadata rather than a pair.
func (t *Term) IsAtomWithDecoration() bool {
	return len(t.children) > 0 && t.children[0].IsSticky()
}

// CountPrefix returns the number of leading non-sticky children; children
// past that point are invisible metadata, iterated only when sticky
// semantics are requested.
func (t *Term) CountPrefix() int {
	n := 0
	for _, c := range t.children {
		if c.IsSticky() {
			break
		}
		n++
	}
	return n
}

// Children returns the full child sequence, including any sticky tail.
func (t *Term) Children() []*Term { return t.children }

// Len returns the number of children.
func (t *Term) Len() int { return len(t.children) }

// At returns the i'th child.
func (t *Term) At(i int) *Term { return t.children[i] }

// AddChild appends a child to t.
func (t *Term) AddChild(c *Term) { t.children = append(t.children, c) }

// SetAt replaces the i'th child in place, the mutation a stored pair's
// first/rest slot goes through (e.g. set-first!): unlike SetContent, it
// touches only one child and leaves the rest of t's structure untouched.
func (t *Term) SetAt(i int, c *Term) { t.children[i] = c }

// RemoveHead removes and returns the first child. Its precondition (spec
// §4.A) is that the first child is not Sticky; violating it is a caller
// bug, so this panics rather than returning an error, matching the
// teacher's convention of panicking on broken internal invariants (see
// Box.Access).
func (t *Term) RemoveHead() *Term {
	if len(t.children) == 0 {
		panic("term: RemoveHead on a term with no children")
	}
	if t.children[0].IsSticky() {
		panic("term: RemoveHead precondition violated: first child is sticky")
	}
	head := t.children[0]
	t.children = t.children[1:]
	return head
}

// Clear empties the value and children of t without recursing into the
// children's own content (spec §4.A). Use ClearDeep to recycle a term's
// entire subtree, e.g. before reusing it as a fresh binding slot.
func (t *Term) Clear() {
	t.value = Box{}
	t.children = nil
	t.tags = 0
}

// ClearDeep recursively clears t and every descendant, freeing the whole
// subtree for reuse. This is the depth control spec §4.A defers to §5: the
// original C++ implementation's TermNode::Clear has no recursive variant
// of its own, but term recycling (e.g. rebuilding a combiner's result term
// in place) needs one.
func (t *Term) ClearDeep() {
	for _, c := range t.children {
		c.ClearDeep()
	}
	t.Clear()
}

// SetContent assigns t's children, value and tags from other, discarding
// t's previous content.
func (t *Term) SetContent(other *Term) {
	t.children = other.children
	t.value = other.value
	t.tags = other.tags
}

// Move transfers other's children, value and tags into t and empties
// other, without deep-copying. Unlike SetContent, other is left cleared
// so it cannot alias t's new content.
func (t *Term) Move(other *Term) {
	t.SetContent(other)
	other.children = nil
	other.value = Box{}
	other.tags = 0
}

// Copy returns a deep structural copy of t.
func (t *Term) Copy() *Term {
	if t == nil {
		return nil
	}
	cp := &Term{value: t.value, tags: t.tags}
	if len(t.children) > 0 {
		cp.children = make([]*Term, len(t.children))
		for i, c := range t.children {
			cp.children[i] = c.Copy()
		}
	}
	return cp
}

// Equal reports whether t and other are structurally equal: same tags,
// pairwise-equal children, and equal value.
func (t *Term) Equal(other *Term) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.tags != other.tags || len(t.children) != len(other.children) {
		return false
	}
	if !t.value.Equal(&other.value) {
		return false
	}
	for i := range t.children {
		if !t.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// AssertBranch panics unless t has both children and a non-empty value,
// i.e. is a branched term with value (spec §4.A invariant helper).
func (t *Term) AssertBranch() {
	if t.IsLeaf() || t.value.Empty() {
		panic("term: expected a branched term with value")
	}
}

// AssertValueTags panics if t's tags are inconsistent with it denoting a
// stored first-class value: Temporary must already be cleared (spec §4.G
// Return: ensure_value_tags clears Temporary before the result is
// observed).
func (t *Term) AssertValueTags() {
	if t.tags.Has(Temporary) {
		panic("term: value tags carry Temporary on a stored value")
	}
}
