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

// Package errors defines the typed failures the evaluator can raise (see
// spec §7) and the chain/formatting machinery used to surface them to an
// embedder.
//
// The pivotal type is [Error]: every failure from internal/core/* implements
// it and carries a [Kind], a frame chain (the tail-call source-name chain
// threaded through evaluation, not a byte offset — position tracking beyond
// an opaque source-name is out of scope), and a path into the term tree
// where useful.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New is a convenience wrapper for [errors.New] in the standard library.
// It does not return a typed evaluator error.
func New(msg string) error { return errors.New(msg) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target's type.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error { return errors.Unwrap(err) }

// A Kind identifies one of the typed failures of spec §7. Kind is a closed
// set: it is structural, not tied to any source language's exception
// hierarchy.
type Kind uint8

const (
	// BadIdentifier marks an unresolved name or a cyclic parent spec.
	BadIdentifier Kind = iota + 1
	// InvalidSyntax marks a malformed parameter tree or special form.
	InvalidSyntax
	// ListTypeError marks an operation that expected a list/pair and found
	// a leaf, or vice versa.
	ListTypeError
	// TypeError marks a value-box kind mismatch, or an applicative/
	// operative expected where the other was found.
	TypeError
	// ArityError marks an operand count mismatch against a parameter tree.
	ArityError
	// ValueCategoryError marks an assignment attempted through a
	// non-modifiable reference.
	ValueCategoryError
	// BadContinuation marks the second invocation of a one-shot
	// continuation.
	BadContinuation
	// NonmodifiableEnvironment marks a mutation of a frozen environment.
	NonmodifiableEnvironment
	// Cancelled marks a cancellation flag observed by the trampoline.
	Cancelled
	// ParameterMismatch marks a destructuring arity mismatch in a
	// parameter-tree binding.
	ParameterMismatch
)

func (k Kind) String() string {
	switch k {
	case BadIdentifier:
		return "BadIdentifier"
	case InvalidSyntax:
		return "InvalidSyntax"
	case ListTypeError:
		return "ListTypeError"
	case TypeError:
		return "TypeError"
	case ArityError:
		return "ArityError"
	case ValueCategoryError:
		return "ValueCategoryError"
	case BadContinuation:
		return "BadContinuation"
	case NonmodifiableEnvironment:
		return "NonmodifiableEnvironment"
	case Cancelled:
		return "Cancelled"
	case ParameterMismatch:
		return "ParameterMismatch"
	default:
		return "Unknown"
	}
}

// ListReason refines [ListTypeError], distinguishing "expected a list,
// found a typed leaf" from "expected a list, found a non-list branch" —
// the original C++ implementation throws these from two distinct call
// sites (ThrowListTypeErrorForInvalidType / ThrowListTypeErrorForNonlist)
// even though spec.md collapses both into a single row.
type ListReason uint8

const (
	// ReasonNone is used for kinds other than ListTypeError.
	ReasonNone ListReason = iota
	// WantList means a list was expected.
	WantList
	// WantPair means a pair (branched term with children) was expected.
	WantPair
	// WantLeaf means a leaf was expected.
	WantLeaf
)

// An Error is the common failure type raised by the evaluator. It chains:
// Unwrap returns the error that triggered this one, if this error was
// raised while unwinding another (e.g. a BadContinuation surfaced while
// resuming a captured stack that was itself mid-error).
type Error struct {
	Kind   Kind
	Reason ListReason // only meaningful when Kind == ListTypeError

	// Frames is the source-name chain carried into tail frames, outermost
	// first (WithFrame prepends), per spec §3 Context.current-source-name.
	Frames []string

	// Path is the sequence of symbol names leading to the failing term,
	// when known.
	Path []string

	msg   string
	args  []interface{}
	cause error
}

// Newf creates an Error of the given kind with a printf-style message.
func Newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, msg: format, args: args}
}

// Wrap creates an Error of the given kind that chains to cause.
func Wrap(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, msg: format, args: args, cause: cause}
}

// WithFrame returns a copy of e with name pushed onto the front of the
// frame chain. Used by the trampoline when unwinding through tail frames.
func (e *Error) WithFrame(name string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Frames = append([]string{name}, e.Frames...)
	return &clone
}

// WithPath returns a copy of e with name appended to its path.
func (e *Error) WithPath(name string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = append(append([]string(nil), e.Path...), name)
	return &clone
}

// Msg returns the unformatted message and its arguments, for deferred/
// localized formatting.
func (e *Error) Msg() (string, []interface{}) { return e.msg, e.args }

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	fmt.Fprintf(&b, e.msg, e.args...)
	if len(e.Frames) > 0 {
		b.WriteString(" (in ")
		b.WriteString(strings.Join(e.Frames, " -> "))
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap lets [errors.Is]/[errors.As] walk the cause chain.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind, which is the
// only identity an evaluator caller should generally match on.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Print returns a human-readable rendering of err as a string, the way the top-level REPL/script driver formats a failure (spec §7
// "User-visible").
func Print(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
