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
	"strings"

	"unilang.dev/go/errors"
	"unilang.dev/go/term"
)

// bindParameterTree implements the parameter-tree binder of spec §4.G: a
// leaf parameter is #ignore, a bare symbol, or a sigiled symbol (&x, %x);
// a parameter with children destructures the operand the same way,
// recursively, with "." separating fixed parameters from a rest parameter.
func bindParameterTree(param, operand *term.Term, env *term.Environment) error {
	if param.IsLeaf() && !param.IsList() {
		return bindLeafToken(param, operand, env)
	}
	return bindListShape(param, operand, env)
}

func bindLeafToken(param, operand *term.Term, env *term.Environment) error {
	tok, ok := term.TryAccess[term.Token](param.Value())
	if !ok {
		return errors.Newf(errors.InvalidSyntax, "parameter tree leaf is not a symbol")
	}
	name := string(tok)
	switch {
	case name == "#ignore":
		return nil
	case strings.HasPrefix(name, "&") && len(name) > 1:
		return bindByReference(name[1:], operand, env)
	case strings.HasPrefix(name, "%") && len(name) > 1:
		return bindForwarding(name[1:], operand, env)
	default:
		return bindByValue(name, operand, env)
	}
}

// bindTagsFor computes the tags a freshly stored binding should carry,
// given the tags of the operand it was bound from (spec §4.G "Binding
// propagates tags via propagate_to").
func bindTagsFor(operandTags term.Tags) term.Tags {
	tags := term.PropagateTo(0, operandTags)
	if operandTags.IsMovable() {
		tags |= term.Unique
	}
	return tags.EnsureValueTags()
}

// bindByValue implements the bare-symbol rule: the operand is stored by
// value. Go's garbage collector makes the move/copy distinction an
// allocation detail rather than a correctness one (the same simplification
// already made for Box's storage modes), so both cases deep-copy the
// referent; what differs is the Unique tag recorded so the body can still
// observe which bindings were move-eligible.
func bindByValue(name string, operand *term.Term, env *term.Environment) error {
	effectiveTags := operand.Tags()
	referent := operand
	if ref, ok := term.AsReference(operand); ok {
		referent = ref.Target
		effectiveTags = ref.Tags
	}
	bound := referent.Copy()
	bound.SetTags(bindTagsFor(effectiveTags))
	return env.Define(name, bound)
}

// bindByReference implements &x: bind to a TermReference of the operand's
// underlying slot, with Nonmodifying stripped unless the ultimate referent
// is itself read-only.
func bindByReference(name string, operand *term.Term, env *term.Environment) error {
	target := term.ReferenceTerm(operand)
	tags := target.Tags() &^ term.Nonmodifying
	if target.Tags().Has(term.Nonmodifying) {
		tags |= term.Nonmodifying
	}
	r := term.NewReference(target, env, tags)
	return env.Define(name, term.NewLeaf(term.ReferenceBox(r), 0))
}

// bindForwarding implements %x: bind by value when the operand is
// movable, otherwise fall back to a collapsed reference bind.
func bindForwarding(name string, operand *term.Term, env *term.Environment) error {
	movable := operand.Tags().IsMovable()
	if ref, ok := term.AsReference(operand); ok {
		movable = ref.IsMovable()
	}
	if movable {
		return bindByValue(name, operand, env)
	}
	return bindByReference(name, term.Collapse(operand), env)
}

// bindListShape destructures a list-shaped parameter tree against a
// list-shaped operand, honoring a "." rest-parameter marker (spec §4.G
// "Subpair destructuring").
func bindListShape(param, operand *term.Term, env *term.Environment) error {
	derefOperand := term.ReferenceTerm(operand)
	if derefOperand.IsLeaf() && !derefOperand.IsList() {
		return errors.Newf(errors.ListTypeError, "parameter tree expects a list, operand is an atom")
	}

	children := param.Children()
	dotIdx := -1
	for i, c := range children {
		if c.IsLeaf() && !c.IsList() {
			if tok, ok := term.TryAccess[term.Token](c.Value()); ok && string(tok) == "." {
				dotIdx = i
				break
			}
		}
	}
	fixed := children
	var rest *term.Term
	if dotIdx >= 0 {
		fixed = children[:dotIdx]
		if dotIdx+1 < len(children) {
			rest = children[dotIdx+1]
		}
	}

	opChildren := derefOperand.Children()
	if len(opChildren) < len(fixed) || (rest == nil && len(opChildren) != len(fixed)) {
		return errors.Newf(errors.ParameterMismatch,
			"parameter tree expects %d operand(s), got %d", len(fixed), len(opChildren))
	}
	for i, p := range fixed {
		if err := bindParameterTree(p, opChildren[i], env); err != nil {
			return err
		}
	}
	if rest != nil {
		restOperands := append([]*term.Term(nil), opChildren[len(fixed):]...)
		if err := bindParameterTree(rest, term.NewList(restOperands...), env); err != nil {
			return err
		}
	}
	return nil
}
