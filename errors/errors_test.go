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

package errors

import (
	stderrors "errors"
	"testing"

	"github.com/go-quicktest/qt"
)

// TestKindStringCoversEveryDefinedKind guards against a Kind added to the
// const block without a matching String() case silently falling through
// to "Unknown".
func TestKindStringCoversEveryDefinedKind(t *testing.T) {
	kinds := []Kind{
		BadIdentifier, InvalidSyntax, ListTypeError, TypeError, ArityError,
		ValueCategoryError, BadContinuation, NonmodifiableEnvironment,
		Cancelled, ParameterMismatch,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		qt.Assert(t, qt.Not(qt.Equals(s, "Unknown")))
		qt.Assert(t, qt.IsFalse(seen[s]))
		seen[s] = true
	}
}

// TestNewfFormatsLazily confirms the message is formatted only when
// Error() is called, and that Msg returns the raw format/args pair for a
// caller that wants to format it differently (e.g. localized).
func TestNewfFormatsLazily(t *testing.T) {
	e := Newf(BadIdentifier, "%q is unbound", "x")
	format, args := e.Msg()
	qt.Assert(t, qt.Equals(format, "%q is unbound"))
	qt.Assert(t, qt.DeepEquals(args, []interface{}{"x"}))
	qt.Assert(t, qt.Equals(e.Error(), `BadIdentifier: "x" is unbound`))
}

// TestWrapChainsCauseAndUnwraps confirms Wrap attaches cause so that
// both Unwrap and errors.Is can walk to it.
func TestWrapChainsCauseAndUnwraps(t *testing.T) {
	cause := stderrors.New("disk is full")
	e := Wrap(TypeError, cause, "writing %s failed", "module.unl")
	qt.Assert(t, qt.Equals(e.Unwrap(), cause))
	qt.Assert(t, qt.IsTrue(Is(e, cause)))
	qt.Assert(t, qt.Equals(e.Error(), "TypeError: writing module.unl failed: disk is full"))
}

// TestWithFrameIsImmutableAndPrepends confirms each WithFrame call
// returns a new *Error with name pushed to the front, leaving the
// receiver's own Frames untouched — the trampoline relies on this to
// accumulate a frame chain while unwinding through nested tail frames
// without retroactively mutating an error another caller still holds.
func TestWithFrameIsImmutableAndPrepends(t *testing.T) {
	e0 := Newf(ArityError, "bad arity")
	e1 := e0.WithFrame("inner.unl")
	e2 := e1.WithFrame("outer.unl")

	qt.Assert(t, qt.HasLen(e0.Frames, 0))
	qt.Assert(t, qt.DeepEquals(e1.Frames, []string{"inner.unl"}))
	qt.Assert(t, qt.DeepEquals(e2.Frames, []string{"outer.unl", "inner.unl"}))
}

// TestWithFrameOnNilIsNil confirms the nil-receiver guard the trampoline
// depends on when an error value might not actually be an *Error.
func TestWithFrameOnNilIsNil(t *testing.T) {
	var e *Error
	qt.Assert(t, qt.IsNil(e.WithFrame("x")))
	qt.Assert(t, qt.IsNil(e.WithPath("x")))
}

// TestWithPathAppendsWithoutMutatingSharedBacking confirms WithPath
// grows a copy's Path independently of a sibling built from the same
// parent, guarding against an append aliasing bug in the shared-backing-
// array sense.
func TestWithPathAppendsWithoutMutatingSharedBacking(t *testing.T) {
	base := Newf(BadIdentifier, "missing").WithPath("a")
	left := base.WithPath("left")
	right := base.WithPath("right")

	qt.Assert(t, qt.DeepEquals(base.Path, []string{"a"}))
	qt.Assert(t, qt.DeepEquals(left.Path, []string{"a", "left"}))
	qt.Assert(t, qt.DeepEquals(right.Path, []string{"a", "right"}))
}

// TestIsMatchesOnKindOnly confirms two unrelated *Error values with the
// same Kind compare equal under Is, the only identity an evaluator
// caller should match on (distinct messages/causes/frames do not
// matter), while different Kinds never match.
func TestIsMatchesOnKindOnly(t *testing.T) {
	a := Newf(TypeError, "first message")
	b := Wrap(TypeError, stderrors.New("boom"), "second message")
	c := Newf(ArityError, "first message")

	qt.Assert(t, qt.IsTrue(Is(a, b)))
	qt.Assert(t, qt.IsTrue(Is(b, a)))
	qt.Assert(t, qt.IsFalse(Is(a, c)))
}

// TestPrintFormatsTypedAndPlainErrorsDifferently confirms Print renders
// a typed *Error through its Kind-prefixed Error() string but falls back
// to the plain Error() text for an error that isn't one of ours, and
// returns "" for nil.
func TestPrintFormatsTypedAndPlainErrorsDifferently(t *testing.T) {
	qt.Assert(t, qt.Equals(Print(nil), ""))
	qt.Assert(t, qt.Equals(Print(Newf(Cancelled, "stopped")), "Cancelled: stopped"))
	qt.Assert(t, qt.Equals(Print(stderrors.New("plain failure")), "plain failure"))
}

// TestErrorIncludesFramesInOrder confirms the rendered Error() string
// lists accumulated frames outermost first (the frame added last comes
// first), matching WithFrame's prepend-to-front discipline.
func TestErrorIncludesFramesInOrder(t *testing.T) {
	e := Newf(InvalidSyntax, "bad form").WithFrame("inner.unl").WithFrame("outer.unl")
	qt.Assert(t, qt.Equals(e.Error(), "InvalidSyntax: bad form (in outer.unl -> inner.unl)"))
}

// TestListTypeErrorCarriesReason confirms Reason survives a WithFrame
// copy, since it is the one field that disambiguates the two
// distinct ListTypeError throw sites supplement #4 merges into a single
// Kind.
func TestListTypeErrorCarriesReason(t *testing.T) {
	e := &Error{Kind: ListTypeError, Reason: WantPair, msg: "not a pair"}
	framed := e.WithFrame("f.unl")
	qt.Assert(t, qt.Equals(framed.Reason, WantPair))
}
