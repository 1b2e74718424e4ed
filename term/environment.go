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
	"github.com/google/uuid"

	"unilang.dev/go/errors"
)

// An Anchor is the shared sentinel an Environment's weak handles use to
// detect expiry (spec §3 Environment / Glossary "Anchor"). Its lifetime is
// strictly >= the environment's: a weak handle holds the Anchor, not the
// Environment itself, so it cannot resurrect a destroyed parent.
//
// The anchor carries a UUID purely for debug identity (Sprint shows it
// when rendering an environment handle), the way the teacher uses
// google/uuid for content identity elsewhere in the module.
type Anchor struct {
	id    uuid.UUID
	alive bool
}

func newAnchor() *Anchor { return &Anchor{id: uuid.New(), alive: true} }

// ID returns the anchor's debug identity.
func (a *Anchor) ID() uuid.UUID { return a.id }

// Alive reports whether the anchor has not been invalidated.
func (a *Anchor) Alive() bool { return a != nil && a.alive }

// Invalidate marks the anchor expired: every weak handle derived from it
// will subsequently fail to dereference. Strong handles are unaffected;
// invalidating an anchor does not free the Environment, it only poisons
// weak access to it, matching spec §5 "Freezing an environment makes it
// safely shareable" — Invalidate is the complementary teardown operation.
// Within this module only tests call it; the evaluator never invalidates
// an anchor, including when a used continuation is discarded.
func (a *Anchor) Invalidate() {
	if a != nil {
		a.alive = false
	}
}

// ParentKind discriminates the four shapes a parent specification may
// take (spec §3 Environment).
type ParentKind uint8

const (
	ParentNone ParentKind = iota
	ParentStrong
	ParentWeak
	ParentList
)

// A WeakEnvRef is a weak handle on an Environment: dereferencing it fails
// once the referenced environment's anchor has been invalidated.
type WeakEnvRef struct {
	env    *Environment
	anchor *Anchor
}

// Deref resolves the weak reference, reporting false if it has expired.
func (w WeakEnvRef) Deref() (*Environment, bool) {
	if w.env == nil || !w.anchor.Alive() {
		return nil, false
	}
	return w.env, true
}

// A ParentSpec is the value-box-shaped parent specification of spec §3:
// tried in order on a lookup miss as strong handle, weak handle, ordered
// list (searched left-to-right, depth-first), or empty.
type ParentSpec struct {
	Kind   ParentKind
	Strong *Environment
	Weak   WeakEnvRef
	List   []ParentSpec
}

// NoParent is the empty parent specification: end of chain.
var NoParent = ParentSpec{Kind: ParentNone}

// StrongParent builds a strong-handle parent specification.
func StrongParent(e *Environment) ParentSpec {
	return ParentSpec{Kind: ParentStrong, Strong: e}
}

// WeakParent builds a weak-handle parent specification.
func WeakParent(e *Environment) ParentSpec {
	return ParentSpec{Kind: ParentWeak, Weak: e.WeakRef()}
}

// ListParent builds an ordered-list parent specification.
func ListParent(specs ...ParentSpec) ParentSpec {
	return ParentSpec{Kind: ParentList, List: specs}
}

// An Environment is a name->term binding table with a parent
// specification, as described in spec §3/§4.C.
type Environment struct {
	bindings map[string]*Term
	parent   ParentSpec
	frozen   bool
	anchor   *Anchor
}

// NewEnvironment returns a fresh, unfrozen environment with the given
// parent specification.
func NewEnvironment(parent ParentSpec) *Environment {
	return &Environment{
		bindings: make(map[string]*Term),
		parent:   parent,
		anchor:   newAnchor(),
	}
}

// Anchor returns the environment's shared anchor.
func (e *Environment) Anchor() *Anchor { return e.anchor }

// WeakRef returns a weak handle on e.
func (e *Environment) WeakRef() WeakEnvRef { return WeakEnvRef{env: e, anchor: e.anchor} }

// Parent returns the environment's parent specification.
func (e *Environment) Parent() ParentSpec { return e.parent }

// SetParent replaces the environment's parent specification. Fails like
// any other mutator if e is frozen.
func (e *Environment) SetParent(p ParentSpec) error {
	if e.frozen {
		return errors.Newf(errors.NonmodifiableEnvironment, "cannot reparent a frozen environment")
	}
	e.parent = p
	return nil
}

// Frozen reports whether e rejects mutators.
func (e *Environment) Frozen() bool { return e.frozen }

// Freeze flips the frozen flag irreversibly.
func (e *Environment) Freeze() { e.frozen = true }

// LookupLocal returns the term bound to name in e itself, without
// consulting the parent chain.
func (e *Environment) LookupLocal(name string) (*Term, bool) {
	t, ok := e.bindings[name]
	return t, ok
}

// Define binds name to t, overwriting any existing local binding. It
// fails with NonmodifiableEnvironment if e is frozen.
func (e *Environment) Define(name string, t *Term) error {
	if e.frozen {
		return errors.Newf(errors.NonmodifiableEnvironment, "cannot define %q in a frozen environment", name)
	}
	e.bindings[name] = t
	return nil
}

// DefineChecked binds name to t, but fails with BadIdentifier if name is
// already locally bound, rather than overwriting it.
func (e *Environment) DefineChecked(name string, t *Term) error {
	if e.frozen {
		return errors.Newf(errors.NonmodifiableEnvironment, "cannot define %q in a frozen environment", name)
	}
	if _, ok := e.bindings[name]; ok {
		return errors.Newf(errors.BadIdentifier, "%q is already bound in this environment", name)
	}
	e.bindings[name] = t
	return nil
}

// Set rebinds an already-visible name in whichever environment owns it.
// It fails with BadIdentifier if name is not reachable from e, and with
// NonmodifiableEnvironment if the owning environment is frozen.
func (e *Environment) Set(name string, t *Term) error {
	_, owner, err := Resolve(e, name)
	if err != nil {
		return err
	}
	if owner == nil {
		return errors.Newf(errors.BadIdentifier, "%q is not bound in any reachable environment", name)
	}
	if owner.frozen {
		return errors.Newf(errors.NonmodifiableEnvironment, "cannot set %q: owning environment is frozen", name)
	}
	owner.bindings[name] = t
	return nil
}

// Remove unbinds name from e itself. It fails with
// NonmodifiableEnvironment if e is frozen, and is a no-op otherwise if the
// name was not locally bound.
func (e *Environment) Remove(name string) error {
	if e.frozen {
		return errors.Newf(errors.NonmodifiableEnvironment, "cannot remove %q from a frozen environment", name)
	}
	delete(e.bindings, name)
	return nil
}

// Resolve performs the name-resolution algorithm of spec §4.C: depth-first,
// left-to-right through nested parent-specification lists, following a
// delayed "redirector" continuation exactly as the original implementation
// does (src/Context.cpp RedirectEnvironmentList), rather than true
// recursion, so that arbitrarily long sibling lists do not consume native
// stack. It returns the bound term and the environment that owns the
// binding (nil, nil, nil on a plain miss), or a BadIdentifier error if the
// same environment is revisited during the walk (a cyclic parent spec).
//
// NOTE: the original C++ Resolve loop unconditionally clears its
// "search_next" redirector at the end of the inner block, which looks
// like a latent infinite-loop hazard when an EnvironmentList fails to find
// a match (spec §9 Open questions). This implementation is derived from
// the algorithm in spec §4.C directly, not from that control flow.
func Resolve(start *Environment, name string) (*Term, *Environment, error) {
	if start == nil {
		return nil, nil, nil
	}

	visited := map[*Environment]bool{}
	var pending [][]ParentSpec
	cur := StrongParent(start)

	for {
		switch cur.Kind {
		case ParentStrong, ParentWeak:
			var env *Environment
			if cur.Kind == ParentStrong {
				env = cur.Strong
			} else if e, ok := cur.Weak.Deref(); ok {
				env = e
			}
			if env == nil {
				goto popRedirector
			}
			if visited[env] {
				return nil, nil, errors.Newf(errors.BadIdentifier,
					"cyclic parent specification while resolving %q", name)
			}
			visited[env] = true
			if t, ok := env.LookupLocal(name); ok {
				return t, env, nil
			}
			cur = env.parent
			continue

		case ParentList:
			if len(cur.List) == 0 {
				goto popRedirector
			}
			first := cur.List[0]
			if rest := cur.List[1:]; len(rest) > 0 {
				pending = append(pending, rest)
			}
			cur = first
			continue

		default: // ParentNone
			goto popRedirector
		}

	popRedirector:
		if len(pending) == 0 {
			return nil, nil, nil
		}
		top := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		first := top[0]
		if rest := top[1:]; len(rest) > 0 {
			pending = append(pending, rest)
		}
		cur = first
	}
}
