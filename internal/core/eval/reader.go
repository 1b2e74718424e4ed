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
	"unicode"

	"github.com/cockroachdb/apd/v3"

	"unilang.dev/go/errors"
	"unilang.dev/go/term"
)

// ReadAll parses src into a sequence of top-level forms (spec §6 source
// surface: symbols, strings, numbers, reserved literals #t #f #inert
// #ignore, parenthesized lists, and ";" line comments). It does not
// evaluate anything; the returned terms are plain, unreduced trees.
//
// It lives in package eval, not package boot, because the module loader
// behind $import! (resolveModuleEnv in ground.go) needs it to parse a
// module file's source text into forms before evaluating them; package
// boot already depends on package eval to build the ground environment,
// so the dependency could not run the
// other way. boot.ReadAll forwards to this.
func ReadAll(src string) ([]*term.Term, error) {
	r := &reader{src: []rune(src)}
	var forms []*term.Term
	for {
		r.skipAtmosphere()
		if r.atEnd() {
			return forms, nil
		}
		t, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, t)
	}
}

type reader struct {
	src []rune
	pos int
}

func (r *reader) atEnd() bool { return r.pos >= len(r.src) }
func (r *reader) peek() rune  { return r.src[r.pos] }

func (r *reader) skipAtmosphere() {
	for !r.atEnd() {
		switch c := r.peek(); {
		case unicode.IsSpace(c):
			r.pos++
		case c == ';':
			for !r.atEnd() && r.peek() != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

func (r *reader) readForm() (*term.Term, error) {
	r.skipAtmosphere()
	if r.atEnd() {
		return nil, errors.Newf(errors.InvalidSyntax, "unexpected end of input")
	}
	switch c := r.peek(); {
	case c == '(':
		return r.readList()
	case c == ')':
		return nil, errors.Newf(errors.InvalidSyntax, "unexpected ')'")
	case c == '"':
		return r.readString()
	default:
		return r.readAtom()
	}
}

func (r *reader) readList() (*term.Term, error) {
	r.pos++ // consume '('
	var children []*term.Term
	for {
		r.skipAtmosphere()
		if r.atEnd() {
			return nil, errors.Newf(errors.InvalidSyntax, "unterminated list")
		}
		if r.peek() == ')' {
			r.pos++
			return term.NewList(children...), nil
		}
		t, err := r.readForm()
		if err != nil {
			return nil, err
		}
		children = append(children, t)
	}
}

func (r *reader) readString() (*term.Term, error) {
	r.pos++ // consume opening quote
	var b strings.Builder
	for {
		if r.atEnd() {
			return nil, errors.Newf(errors.InvalidSyntax, "unterminated string literal")
		}
		c := r.src[r.pos]
		r.pos++
		if c == '"' {
			return term.NewLeaf(term.StringBox(b.String()), 0), nil
		}
		if c == '\\' && !r.atEnd() {
			esc := r.src[r.pos]
			r.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
}

func isDelimiter(c rune) bool {
	return unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' || c == ';'
}

// readAtom reads a reserved literal, a number, or a symbol — in that
// preference order, since "#t"/"#f"/"#inert"/"#ignore" and digit-leading
// text would otherwise be ambiguous with a symbol of the same spelling.
func (r *reader) readAtom() (*term.Term, error) {
	start := r.pos
	for !r.atEnd() && !isDelimiter(r.peek()) {
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if text == "" {
		return nil, errors.Newf(errors.InvalidSyntax, "empty atom")
	}
	switch text {
	case "#t":
		return term.NewLeaf(term.BoolBox(true), 0), nil
	case "#f":
		return term.NewLeaf(term.BoolBox(false), 0), nil
	case "#inert", "#ignore":
		return term.NewLeaf(term.TokenBox(text), 0), nil
	}
	if looksNumeric(text) {
		if d, _, err := apd.NewFromString(text); err == nil {
			return term.NewLeaf(term.NumBox(term.Num{Decimal: d}), 0), nil
		}
	}
	return term.NewLeaf(term.TokenBox(text), 0), nil
}

// looksNumeric guards apd.NewFromString against symbols such as "-",
// "+" and "<=?" that would otherwise need to fail a parse attempt to be
// recognized as symbols; a numeric literal always starts with a digit
// or a decimal point, optionally preceded by a sign.
func looksNumeric(text string) bool {
	i := 0
	if text[0] == '+' || text[0] == '-' {
		i++
	}
	if i >= len(text) {
		return false
	}
	return unicode.IsDigit(rune(text[i])) || text[i] == '.'
}
