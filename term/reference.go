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

// A Reference is a first-class TermReference value (spec §3/§4.D): a leaf
// value of kind Reference carrying a tag word, a non-owning borrow of a
// target Term, and a weak handle on the environment anchor that keeps the
// target alive.
type Reference struct {
	Tags   Tags
	Target *Term
	Env    WeakEnvRef
}

// NewReference constructs a reference to target, anchored on env.
func NewReference(target *Term, env *Environment, tags Tags) *Reference {
	return &Reference{Tags: tags, Target: target, Env: env.WeakRef()}
}

// Equal gives *Reference a identity-shaped equality so Box.Equal's
// defer-to-held-type path works for reference-valued boxes: two
// references are equal iff they denote the same target with the same
// tags, matching the teacher's composite-equality convention of deferring
// to the held value's own notion of sameness.
func (r *Reference) Equal(other any) bool {
	o, ok := other.(*Reference)
	if !ok || o == nil {
		return false
	}
	return r.Target == o.Target && r.Tags == o.Tags
}

// IsMovable reports whether r may be moved from: its tags must pass
// IsMovable and its environment anchor must still be alive.
func (r *Reference) IsMovable() bool {
	if r == nil {
		return false
	}
	env, ok := r.Env.Deref()
	return ok && env != nil && r.Tags.IsMovable()
}

// AsReference reports whether t's value box holds a *Reference, returning
// it if so.
func AsReference(t *Term) (*Reference, bool) {
	if t == nil {
		return nil, false
	}
	return TryAccess[*Reference](t.Value())
}

// ReferenceTerm returns the term t refers through if its value box holds a
// reference, or t itself otherwise (spec §4.D reference_term).
func ReferenceTerm(t *Term) *Term {
	if ref, ok := AsReference(t); ok {
		return ref.Target
	}
	return t
}

// Collapse folds a chain of references into a single reference with merged
// tags (spec §4.D collapse): given a reference leaf, if its referent is
// itself a reference, the tags are merged via PropagateTo (the outer
// reference's tags as dst, each inner reference's tags as src) and the
// innermost non-reference referent is returned wrapped in a fresh
// reference leaf; otherwise r is returned unchanged. Collapse is
// idempotent (spec §8 property 6): collapsing an already-collapsed
// reference is a no-op.
func Collapse(r *Term) *Term {
	ref, ok := AsReference(r)
	if !ok {
		return r
	}
	tags := ref.Tags
	target := ref.Target
	env := ref.Env
	for {
		inner, ok := AsReference(target)
		if !ok {
			break
		}
		tags = PropagateTo(tags, inner.Tags)
		target = inner.Target
		env = inner.Env
	}
	if target == ref.Target && tags == ref.Tags {
		return r
	}
	merged := &Reference{Tags: tags, Target: target, Env: env}
	box := Box{}
	box.Assign(KindReference, merged)
	return NewLeaf(box, r.Tags())
}
