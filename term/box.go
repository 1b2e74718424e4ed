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

import "fmt"

// A Kind tags the dynamic type held by a [Box]. It is the tagged-sum
// discriminant of spec §9 "Dynamic dispatch over value kinds".
type Kind uint8

const (
	// KindNone marks an empty box: the owning Term is a list.
	KindNone Kind = iota
	KindBool
	// KindNum holds a numeric literal. The core does not implement a
	// numeric tower (spec §1 Out-of-scope); the representation is the
	// teacher's decimal type, which the few arithmetic builtins in
	// package eval (+, -, <=?) operate on directly.
	KindNum
	KindString
	// KindToken holds a symbol (an identifier looked up by the
	// evaluator), represented as a plain string value tagged Token.
	KindToken
	KindEnvHandle
	KindWeakEnv
	KindEnvList
	KindCombiner
	KindReference
	// KindHost is the escape hatch for embedder types, keyed by a stable
	// type-id string supplied by the host.
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindNum:
		return "num"
	case KindString:
		return "string"
	case KindToken:
		return "token"
	case KindEnvHandle:
		return "env-handle"
	case KindWeakEnv:
		return "weak-env"
	case KindEnvList:
		return "env-list"
	case KindCombiner:
		return "combiner"
	case KindReference:
		return "reference"
	case KindHost:
		return "host"
	default:
		return "unknown"
	}
}

// storageMode records how a Box's payload is held. It exists to make the
// three storage strategies of spec §4.B explicit in the data even though
// Go's garbage collector, not the Box, owns the actual memory.
type storageMode uint8

const (
	storageOwned storageMode = iota
	storageShared
	storageIndirect
)

// sharedCell is the payload of a shared-mode Box: several Boxes may hold a
// pointer to the same cell, so a mutation through one is visible through
// the others, mirroring the teacher's reference-counted shared storage.
type sharedCell struct {
	value any
}

// A Box is a type-erased, dynamically-typed holder for the value of a
// Term (spec §4.B). The zero Box is empty (Kind() == KindNone).
type Box struct {
	kind Kind
	mode storageMode

	owned any

	shared *sharedCell

	// alias is set only in storageIndirect mode: this Box aliases
	// another Box's payload, e.g. to let a reference address a pair's
	// first child in place rather than copying it.
	alias *Box

	// hostType identifies the dynamic type for KindHost boxes.
	hostType string
}

// Empty reports whether b holds no value.
func (b *Box) Empty() bool { return b == nil || b.kind == KindNone }

// Type reports the dynamic kind currently held.
func (b *Box) Type() Kind {
	if b == nil {
		return KindNone
	}
	if b.mode == storageIndirect && b.alias != nil {
		return b.alias.Type()
	}
	return b.kind
}

// HostType reports the embedder-supplied type-id for a KindHost box.
func (b *Box) HostType() string {
	if b.mode == storageIndirect && b.alias != nil {
		return b.alias.HostType()
	}
	return b.hostType
}

func (b *Box) raw() any {
	switch b.mode {
	case storageShared:
		if b.shared == nil {
			return nil
		}
		return b.shared.value
	case storageIndirect:
		if b.alias == nil {
			return nil
		}
		return b.alias.raw()
	default:
		return b.owned
	}
}

func (b *Box) setRaw(v any) {
	switch b.mode {
	case storageShared:
		if b.shared == nil {
			b.shared = &sharedCell{}
		}
		b.shared.value = v
	case storageIndirect:
		if b.alias != nil {
			b.alias.setRaw(v)
		}
	default:
		b.owned = v
	}
}

// TryAccess returns the payload of b as a T and true if b holds a value of
// that dynamic type, or the zero value and false otherwise. It never
// panics; it is the Go "comma ok" rendering of spec §4.B's
// `try_access<T>() -> pointer or null`.
func TryAccess[T any](b *Box) (T, bool) {
	var zero T
	if b == nil {
		return zero, false
	}
	v := b.raw()
	if v == nil {
		return zero, false
	}
	if val, ok := v.(T); ok {
		return val, true
	}
	return zero, false
}

// Access returns the payload of b as a T. It panics if b does not hold a
// value of that dynamic type; callers on a well-typed evaluation path
// should prefer this, reserving TryAccess for genuinely optional access.
func Access[T any](b *Box) T {
	val, ok := TryAccess[T](b)
	if !ok {
		var zero T
		panic(fmt.Sprintf("term: value box holds %v, not %T", b.Type(), zero))
	}
	return val
}

// Assign stores v under kind k, replacing whatever b held before. Owned
// storage is used unless b was already in shared mode, in which case the
// existing shared cell is updated in place so aliases observe the change.
func (b *Box) Assign(k Kind, v any) {
	b.kind = k
	if b.mode == storageIndirect && b.alias != nil {
		b.alias.Assign(k, v)
		return
	}
	b.setRaw(v)
}

// AssignHost stores an embedder value keyed by a stable type-id.
func (b *Box) AssignHost(typeID string, v any) {
	b.Assign(KindHost, v)
	b.hostType = typeID
}

// Clear empties the box.
func (b *Box) Clear() {
	*b = Box{}
}

// MakeShared converts b to shared storage in place and returns b; further
// copies of the Box value (not pointer) still alias the same cell because
// the cell is held by pointer.
func (b *Box) MakeShared() *Box {
	if b.mode == storageShared {
		return b
	}
	cell := &sharedCell{value: b.raw()}
	b.mode = storageShared
	b.shared = cell
	b.owned = nil
	return b
}

// MakeIndirect returns a new Box that aliases the stable address of b: a
// read or write through the result is a read or write through b, without
// copying b's value. The evaluator does not build indirect boxes itself:
// first& references a pair's first child through a Reference instead.
func (b *Box) MakeIndirect() Box {
	return Box{kind: b.kind, mode: storageIndirect, alias: b, hostType: b.hostType}
}

// Equal reports whether b and other hold dynamically equal values. It
// defers to the held type's own equality when available via a comparable
// underlying type; otherwise kind+pointer identity is used for host
// values, matching the teacher's defer-to-held-type convention for Value
// equality (internal/core/adt composite equality).
func (b *Box) Equal(other *Box) bool {
	if b.Type() != other.Type() {
		return false
	}
	if b.Type() == KindNone {
		return true
	}
	bv, ov := b.raw(), other.raw()
	if eq, ok := bv.(interface{ Equal(any) bool }); ok {
		return eq.Equal(ov)
	}
	return comparableEqual(bv, ov)
}

// comparableEqual compares two dynamic values with ==, tolerating
// uncomparable underlying types (e.g. a host value wrapping a slice) by
// reporting them unequal rather than panicking.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
