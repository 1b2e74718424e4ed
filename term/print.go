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
	"fmt"
	"strconv"
	"strings"

	"github.com/kr/pretty"
)

// Sprint renders t as unilang source text (TermToStringWithReferenceMark
// in the original implementation). When showReferenceMark is true, a
// leaf that is itself a reference is prefixed with "&"; when false, the
// reference is dereferenced silently, as the original does when a
// caller has no use for distinguishing references from their targets.
// It is used by the CLI's ECHO/-e paths and by tests asserting readable
// output, not by the evaluator itself.
func Sprint(t *Term, showReferenceMark bool) string {
	var b strings.Builder
	sprintTo(&b, t, showReferenceMark)
	return b.String()
}

func sprintTo(b *strings.Builder, t *Term, showReferenceMark bool) {
	if t == nil {
		b.WriteString("()")
		return
	}
	if ref, ok := AsReference(t); ok {
		if showReferenceMark {
			b.WriteByte('&')
		}
		sprintTo(b, ref.Target, showReferenceMark)
		return
	}
	if t.IsLeaf() {
		sprintLeafValue(b, t.Value())
		return
	}
	b.WriteByte('(')
	for i, c := range t.Children() {
		if i > 0 {
			b.WriteByte(' ')
		}
		sprintTo(b, c, showReferenceMark)
	}
	b.WriteByte(')')
}

func sprintLeafValue(b *strings.Builder, box *Box) {
	switch box.Type() {
	case KindNone:
		b.WriteString("()")
	case KindBool:
		if Access[bool](box) {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindNum:
		b.WriteString(Access[Num](box).Decimal.String())
	case KindString:
		b.WriteString(strconv.Quote(Access[string](box)))
	case KindToken:
		b.WriteString(string(Access[Token](box)))
	case KindEnvHandle:
		fmt.Fprintf(b, "#[environment %s]", Access[EnvHandle](box).Env.Anchor().ID())
	case KindWeakEnv:
		b.WriteString("#[environment]")
	case KindEnvList:
		b.WriteString("#[environment-list]")
	case KindCombiner:
		b.WriteString("#[combiner]")
	case KindReference:
		b.WriteString("#[reference]")
	case KindHost:
		fmt.Fprintf(b, "#[host %s]", box.HostType())
	default:
		b.WriteString("#[unknown]")
	}
}

// Dump returns a structural debug rendering of t, grounded on the
// teacher's use of kr/pretty for diagnostic dumps (cue/errors,
// various _test.go): unlike Sprint, it exposes the Term tree's raw
// shape (tags, box kind, child count) rather than unilang source text.
// showReferenceMark is forwarded to the Sprint call each node's Value
// field uses to render itself.
func Dump(t *Term, showReferenceMark bool) string {
	return pretty.Sprint(snapshot(t, showReferenceMark))
}

// snapshot turns t into a plain, cycle-free value kr/pretty can walk:
// Term itself is unexported-field-only, so pretty.Sprint on a *Term
// would print nothing useful.
type snapshotNode struct {
	Kind     string
	Tags     string
	Value    string
	Children []snapshotNode
}

func snapshot(t *Term, showReferenceMark bool) snapshotNode {
	if t == nil {
		return snapshotNode{Kind: "nil"}
	}
	n := snapshotNode{
		Kind:  t.Value().Type().String(),
		Tags:  t.Tags().String(),
		Value: Sprint(t, showReferenceMark),
	}
	for _, c := range t.Children() {
		n.Children = append(n.Children, snapshot(c, showReferenceMark))
	}
	return n
}
