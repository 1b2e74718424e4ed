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
	"os"

	"github.com/cockroachdb/apd/v3"

	"unilang.dev/go/errors"
	"unilang.dev/go/internal/core/sched"
	"unilang.dev/go/term"
)

// NewGroundEnvironment builds the ground environment of spec §4.H: every
// primitive special form and builtin the derived-forms loader needs, plus
// the handful of forms ($lambda, $let, $cond, $when, list*, apply, accl,
// map1, $provide!, $import!) a from-source derivation would otherwise
// define in terms of $vau/$define!/$if/$sequence. They are registered here
// directly rather than bootstrapped by evaluating source text: our term
// tree represents combinations as flat children slices rather than
// recursive cons cells, so a cons-based quasiquote derivation (the
// standard Kernel technique) would have to build fake flat lists out of
// dotted pairs, which the rest of this package does not do. Each form
// below computes exactly what such a derivation would, so the boundary
// this draws is "no privileged access to evaluator internals a from-
// source definition couldn't also reach", not "no derived forms at all".
func NewGroundEnvironment() *term.Environment {
	env := term.NewEnvironment(term.NoParent)
	def := func(name string, c term.Combiner) {
		_ = env.Define(name, term.NewLeaf(term.CombinerBox(c), 0))
	}

	def("$vau", &Primitive{Name: "$vau", Fn: vauFn})
	def("$define!", &Primitive{Name: "$define!", Fn: defineBangFn})
	def("$set!", &Primitive{Name: "$set!", Fn: setBangFn})
	def("$if", &Primitive{Name: "$if", Fn: ifFn})
	def("$sequence", &Primitive{Name: "$sequence", Fn: sequenceFn})
	def("$lambda", &Primitive{Name: "$lambda", Fn: lambdaFn})
	def("$let", &Primitive{Name: "$let", Fn: letFn})
	def("$cond", &Primitive{Name: "$cond", Fn: condFn})
	def("$when", &Primitive{Name: "$when", Fn: whenFn})
	def("$provide!", &Primitive{Name: "$provide!", Fn: provideBangFn})
	def("$import!", &Primitive{Name: "$import!", Fn: importBangFn})

	def("wrap", Wrap(&Primitive{Name: "wrap", Fn: wrapFn}))
	def("unwrap", Wrap(&Primitive{Name: "unwrap", Fn: unwrapFn}))
	def("cons", Wrap(&Primitive{Name: "cons", Fn: consFn}))
	def("set-first!", Wrap(&Primitive{Name: "set-first!", Fn: setFirstFn}))
	def("first&", Wrap(&Primitive{Name: "first&", Fn: firstAmpFn}))
	def("get-current-environment", Wrap(&Primitive{Name: "get-current-environment", Fn: getCurEnvFn}))
	def("make-environment", Wrap(&Primitive{Name: "make-environment", Fn: makeEnvFn}))
	def("freeze", Wrap(&Primitive{Name: "freeze", Fn: freezeFn}))
	def("eval", Wrap(&Primitive{Name: "eval", Fn: evalFn}))
	def("apply", Wrap(&Primitive{Name: "apply", Fn: applyFn}))
	def("list*", Wrap(&Primitive{Name: "list*", Fn: listStarFn}))
	def("accl", Wrap(&Primitive{Name: "accl", Fn: acclFn}))
	def("map1", Wrap(&Primitive{Name: "map1", Fn: map1Fn}))
	def("eq?", Wrap(&Primitive{Name: "eq?", Fn: eqFn}))
	def("+", Wrap(&Primitive{Name: "+", Fn: plusFn}))
	def("-", Wrap(&Primitive{Name: "-", Fn: minusFn}))
	def("<=?", Wrap(&Primitive{Name: "<=?", Fn: lessEqFn}))
	def("call/1cc", Call1CC)

	return env
}

func inertTerm() *term.Term  { return term.NewLeaf(term.TokenBox("#inert"), 0) }
func boolTerm(b bool) *term.Term { return term.NewLeaf(term.BoolBox(b), 0) }
func numTerm(d *apd.Decimal) *term.Term { return term.NewLeaf(term.NumBox(term.Num{Decimal: d}), 0) }

func numOf(t *term.Term) (term.Num, bool) {
	return term.TryAccess[term.Num](term.ReferenceTerm(t).Value())
}

var numCtx = newNumContext()

func newNumContext() apd.Context {
	c := apd.BaseContext
	c.Precision = 40
	return c
}

// vauFn is the one genuinely primitive special form (spec §4.G): it
// captures the caller's environment as the Compound's static environment
// without evaluating anything.
func vauFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 2 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$vau requires a parameter tree and an environment parameter")
	}
	formals, envParamTerm, body := operandTerms[0], operandTerms[1], operandTerms[2:]
	envParamName := "#ignore"
	if tok, ok := term.TryAccess[term.Token](envParamTerm.Value()); ok {
		envParamName = string(tok)
	} else {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$vau environment parameter must be a symbol or #ignore")
	}
	compound := &Compound{
		Params:   formals,
		EnvParam: envParamName,
		Captured: callerEnv,
		Body:     append([]*term.Term(nil), body...),
	}
	combiningTerm.SetContent(term.NewLeaf(term.CombinerBox(compound), 0))
	return sched.Retained, nil
}

func defineBangFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "$define! requires a parameter tree and an expression")
	}
	paramTree, exprTerm := operandTerms[0], operandTerms[1]
	pushNonTail(ctx, exprTerm, func(ctx *sched.Context) (sched.Status, error) {
		if err := bindParameterTree(paramTree, exprTerm, callerEnv); err != nil {
			return sched.Neutral, err
		}
		combiningTerm.SetContent(inertTerm())
		return sched.Retained, nil
	})
	return sched.Neutral, nil
}

// setBangFn implements the general three-operand form
// ($set! <environment-expr> <lvalue> <expression>): the environment and
// the value are both evaluated. A bare-symbol lvalue already visible from
// that environment is rebound in the environment that owns the binding;
// any other lvalue, or a symbol not yet bound, is a parameter tree bound
// against the value inside the named environment itself. If the named
// environment is frozen, the binding is attempted there and fails.
func setBangFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 3 {
		return sched.Neutral, errors.Newf(errors.ArityError, "$set! requires an environment, an lvalue and an expression")
	}
	envExpr, lvalue, valExpr := operandTerms[0], operandTerms[1], operandTerms[2]
	pushNonTail(ctx, envExpr, func(ctx *sched.Context) (sched.Status, error) {
		eh, ok := term.TryAccess[term.EnvHandle](term.ReferenceTerm(envExpr).Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "$set! target is not an environment")
		}
		pushNonTail(ctx, valExpr, func(ctx *sched.Context) (sched.Status, error) {
			target := eh.Env
			if tok, ok := term.TryAccess[term.Token](lvalue.Value()); ok && !target.Frozen() {
				_, owner, err := term.Resolve(target, string(tok))
				if err != nil {
					return sched.Neutral, err
				}
				if owner != nil {
					target = owner
				}
			}
			if err := bindParameterTree(lvalue, valExpr, target); err != nil {
				return sched.Neutral, err
			}
			combiningTerm.SetContent(inertTerm())
			return sched.Retained, nil
		})
		return sched.Neutral, nil
	})
	return sched.Neutral, nil
}

func ifFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 3 {
		return sched.Neutral, errors.Newf(errors.ArityError, "$if requires a test, a consequent and an alternative")
	}
	testExpr, thenExpr, elseExpr := operandTerms[0], operandTerms[1], operandTerms[2]
	pushNonTail(ctx, testExpr, func(ctx *sched.Context) (sched.Status, error) {
		b, ok := term.TryAccess[bool](term.ReferenceTerm(testExpr).Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "$if test must be a boolean")
		}
		branch := elseExpr
		if b {
			branch = thenExpr
		}
		return TailEval(ctx, combiningTerm, branch, callerEnv)
	})
	return sched.Neutral, nil
}

func sequenceFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) == 0 {
		combiningTerm.SetContent(inertTerm())
		return sched.Retained, nil
	}
	nonLast, last := operandTerms[:len(operandTerms)-1], operandTerms[len(operandTerms)-1]
	return sequentialNonTail(ctx, nonLast, func(ctx *sched.Context) (sched.Status, error) {
		return TailEval(ctx, combiningTerm, last, callerEnv)
	})
}

func lambdaFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$lambda requires a parameter tree")
	}
	compound := &Compound{
		Params:   operandTerms[0],
		EnvParam: "#ignore",
		Captured: callerEnv,
		Body:     append([]*term.Term(nil), operandTerms[1:]...),
	}
	combiningTerm.SetContent(term.NewLeaf(term.CombinerBox(Wrap(compound)), 0))
	return sched.Retained, nil
}

func letFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$let requires a binding list")
	}
	clauses := operandTerms[0].Children()
	names := make([]string, len(clauses))
	exprs := make([]*term.Term, len(clauses))
	for i, c := range clauses {
		if c.IsLeaf() || c.Len() != 2 {
			return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$let binding clause must be (name expr)")
		}
		tok, ok := term.TryAccess[term.Token](c.At(0).Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$let binding name must be a symbol")
		}
		names[i] = string(tok)
		exprs[i] = c.At(1)
	}
	body := operandTerms[1:]
	freshEnv := term.NewEnvironment(term.StrongParent(callerEnv))
	return sequentialNonTail(ctx, exprs, func(ctx *sched.Context) (sched.Status, error) {
		for i, name := range names {
			if err := bindByValue(name, exprs[i], freshEnv); err != nil {
				return sched.Neutral, err
			}
		}
		if len(body) == 0 {
			combiningTerm.SetContent(inertTerm())
			return sched.Retained, nil
		}
		nonLast, last := body[:len(body)-1], body[len(body)-1]
		ctx.Env = freshEnv
		return sequentialNonTail(ctx, nonLast, func(ctx *sched.Context) (sched.Status, error) {
			return TailEval(ctx, combiningTerm, last, freshEnv)
		})
	})
}

func condFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	return condStep(ctx, operandTerms, 0, callerEnv, combiningTerm)
}

func condStep(ctx *sched.Context, clauses []*term.Term, i int, env *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if i >= len(clauses) {
		combiningTerm.SetContent(inertTerm())
		return sched.Retained, nil
	}
	clause := clauses[i]
	if clause.IsLeaf() || clause.Len() < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$cond clause must be (test body...)")
	}
	testExpr := clause.At(0)
	body := clause.Children()[1:]
	pushNonTail(ctx, testExpr, func(ctx *sched.Context) (sched.Status, error) {
		b, ok := term.TryAccess[bool](term.ReferenceTerm(testExpr).Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "$cond test must be a boolean")
		}
		if !b {
			return condStep(ctx, clauses, i+1, env, combiningTerm)
		}
		if len(body) == 0 {
			combiningTerm.SetContent(inertTerm())
			return sched.Retained, nil
		}
		nonLast, last := body[:len(body)-1], body[len(body)-1]
		return sequentialNonTail(ctx, nonLast, func(ctx *sched.Context) (sched.Status, error) {
			return TailEval(ctx, combiningTerm, last, env)
		})
	})
	return sched.Neutral, nil
}

func whenFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$when requires a test")
	}
	testExpr, body := operandTerms[0], operandTerms[1:]
	pushNonTail(ctx, testExpr, func(ctx *sched.Context) (sched.Status, error) {
		b, ok := term.TryAccess[bool](term.ReferenceTerm(testExpr).Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "$when test must be a boolean")
		}
		if !b || len(body) == 0 {
			combiningTerm.SetContent(inertTerm())
			return sched.Retained, nil
		}
		nonLast, last := body[:len(body)-1], body[len(body)-1]
		return sequentialNonTail(ctx, nonLast, func(ctx *sched.Context) (sched.Status, error) {
			return TailEval(ctx, combiningTerm, last, callerEnv)
		})
	})
	return sched.Neutral, nil
}

func provideBangFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$provide! requires a list of names")
	}
	names := make([]string, 0, operandTerms[0].Len())
	for _, n := range operandTerms[0].Children() {
		tok, ok := term.TryAccess[term.Token](n.Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$provide! names must be symbols")
		}
		names = append(names, string(tok))
	}
	body := operandTerms[1:]
	childEnv := term.NewEnvironment(term.StrongParent(callerEnv))
	ctx.Env = childEnv
	return sequentialNonTail(ctx, body, func(ctx *sched.Context) (sched.Status, error) {
		for _, name := range names {
			t, ok := childEnv.LookupLocal(name)
			if !ok {
				return sched.Neutral, errors.Newf(errors.BadIdentifier, "%q not defined in $provide! body", name)
			}
			if err := callerEnv.Define(name, t.Copy()); err != nil {
				return sched.Neutral, err
			}
		}
		combiningTerm.SetContent(inertTerm())
		return sched.Retained, nil
	})
}

func importBangFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 1 {
		return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$import! requires a source environment expression")
	}
	envExpr, nameTerms := operandTerms[0], operandTerms[1:]
	names := make([]string, len(nameTerms))
	for i, n := range nameTerms {
		tok, ok := term.TryAccess[term.Token](n.Value())
		if !ok {
			return sched.Neutral, errors.Newf(errors.InvalidSyntax, "$import! names must be symbols")
		}
		names[i] = string(tok)
	}
	pushNonTail(ctx, envExpr, func(ctx *sched.Context) (sched.Status, error) {
		sourceEnv, err := resolveImportSource(term.ReferenceTerm(envExpr))
		if err != nil {
			return sched.Neutral, err
		}
		for _, name := range names {
			t, _, err := term.Resolve(sourceEnv, name)
			if err != nil {
				return sched.Neutral, err
			}
			if t == nil {
				return sched.Neutral, errors.Newf(errors.BadIdentifier, "%q not found for $import!", name)
			}
			if err := callerEnv.Define(name, t.Copy()); err != nil {
				return sched.Neutral, err
			}
		}
		combiningTerm.SetContent(inertTerm())
		return sched.Retained, nil
	})
	return sched.Neutral, nil
}

// resolveImportSource interprets $import!'s already-evaluated first
// operand as either a first-class environment, the direct case, or a
// module name naming a file the derived-forms loader locates via
// SearchPath and evaluates, the case the spec's UNILANG_PATH config
// knob exists for. Only these two shapes are accepted; anything else
// is a type error, same as before this second mode was added.
func resolveImportSource(sourceVal *term.Term) (*term.Environment, error) {
	if eh, ok := term.TryAccess[term.EnvHandle](sourceVal.Value()); ok {
		return eh.Env, nil
	}
	var name string
	if tok, ok := term.TryAccess[term.Token](sourceVal.Value()); ok {
		name = string(tok)
	} else if s, ok := term.TryAccess[string](sourceVal.Value()); ok {
		name = s
	} else {
		return nil, errors.Newf(errors.TypeError, "$import! source is not an environment or a module name")
	}
	return resolveModuleEnv(name)
}

// resolveModuleEnv locates name on SearchPath, reads and parses it, and
// evaluates its forms in a fresh environment parented on a freshly
// booted ground environment — isolated from callerEnv, the way loading
// a module should not see the importing script's bindings. Evaluation
// runs on its own Context and Rewrite loop rather than reusing the
// caller's ctx, so a module's internal tail calls do not interleave with
// or get mistaken for the importing script's stack.
func resolveModuleEnv(name string) (*term.Environment, error) {
	path, ok := Resolve(name)
	if !ok {
		return nil, errors.Newf(errors.BadIdentifier, "module %q not found on UNILANG_PATH", name)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.BadIdentifier, err, "reading module %q", name)
	}
	forms, err := ReadAll(string(src))
	if err != nil {
		return nil, errors.Wrap(errors.InvalidSyntax, err, "parsing module %q", name)
	}
	moduleEnv := term.NewEnvironment(term.StrongParent(NewGroundEnvironment()))
	modCtx := sched.NewContext(moduleEnv)
	modCtx.SourceName = path
	for _, f := range forms {
		modCtx.NextTerm = f
		if _, err := modCtx.Rewrite(func(c *sched.Context) (sched.Status, error) {
			return ReduceOnce(c.NextTerm, c)
		}); err != nil {
			return nil, err
		}
	}
	return moduleEnv, nil
}

func wrapFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 1 {
		return sched.Neutral, errors.Newf(errors.ArityError, "wrap requires exactly one operand")
	}
	c, ok := term.TryAccess[term.Combiner](term.ReferenceTerm(operandTerms[0]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "wrap operand must be a combiner")
	}
	combiningTerm.SetContent(term.NewLeaf(term.CombinerBox(Wrap(c)), 0))
	return sched.Retained, nil
}

func unwrapFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 1 {
		return sched.Neutral, errors.Newf(errors.ArityError, "unwrap requires exactly one operand")
	}
	c, ok := term.TryAccess[term.Combiner](term.ReferenceTerm(operandTerms[0]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "unwrap operand must be a combiner")
	}
	u, ok := Unwrap(c)
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "unwrap operand must be an applicative")
	}
	combiningTerm.SetContent(term.NewLeaf(term.CombinerBox(u), 0))
	return sched.Retained, nil
}

func consFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "cons requires exactly two operands")
	}
	car := term.ReferenceTerm(operandTerms[0]).Copy()
	cdr := term.ReferenceTerm(operandTerms[1]).Copy()
	combiningTerm.SetContent(term.NewList(car, cdr))
	return sched.Retained, nil
}

func setFirstFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "set-first! requires a pair and a value")
	}
	pair := term.ReferenceTerm(operandTerms[0])
	if pair.IsLeaf() || pair.Len() < 1 {
		return sched.Neutral, errors.Newf(errors.ListTypeError, "set-first! target is not a pair")
	}
	pair.SetAt(0, term.ReferenceTerm(operandTerms[1]).Copy())
	combiningTerm.SetContent(inertTerm())
	return sched.Retained, nil
}

func firstAmpFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 1 {
		return sched.Neutral, errors.Newf(errors.ArityError, "first& requires exactly one operand")
	}
	pair := term.ReferenceTerm(operandTerms[0])
	if pair.IsLeaf() || pair.Len() < 1 {
		return sched.Neutral, errors.Newf(errors.ListTypeError, "first& target is not a pair")
	}
	slot := pair.At(0)
	tags := slot.Tags() &^ term.Nonmodifying
	ref := term.NewReference(slot, callerEnv, tags)
	combiningTerm.SetContent(term.NewLeaf(term.ReferenceBox(ref), 0))
	return sched.Retained, nil
}

func getCurEnvFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	combiningTerm.SetContent(term.NewLeaf(term.EnvHandleBox(callerEnv), 0))
	return sched.Retained, nil
}

func makeEnvFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	parent := term.NoParent
	if len(operandTerms) >= 1 {
		if eh, ok := term.TryAccess[term.EnvHandle](term.ReferenceTerm(operandTerms[0]).Value()); ok {
			parent = term.StrongParent(eh.Env)
		}
	}
	combiningTerm.SetContent(term.NewLeaf(term.EnvHandleBox(term.NewEnvironment(parent)), 0))
	return sched.Retained, nil
}

func freezeFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 1 {
		return sched.Neutral, errors.Newf(errors.ArityError, "freeze requires exactly one operand")
	}
	eh, ok := term.TryAccess[term.EnvHandle](term.ReferenceTerm(operandTerms[0]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "freeze operand is not an environment")
	}
	eh.Env.Freeze()
	combiningTerm.SetContent(inertTerm())
	return sched.Retained, nil
}

func evalFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "eval requires an expression and an environment")
	}
	exprData := term.ReferenceTerm(operandTerms[0]).Copy()
	eh, ok := term.TryAccess[term.EnvHandle](term.ReferenceTerm(operandTerms[1]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "eval's second operand is not an environment")
	}
	return TailEval(ctx, combiningTerm, exprData, eh.Env)
}

// applyFn implements (apply combiner arglist [env]) as the standard Kernel
// `(eval (cons (unwrap combiner) arglist) env)`: it strips exactly one
// application layer and invokes what remains directly on the already-
// evaluated argument list, rather than re-evaluating those arguments.
func applyFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "apply requires a combiner and an argument list")
	}
	comb, ok := term.TryAccess[term.Combiner](term.ReferenceTerm(operandTerms[0]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "apply's first operand is not a combiner")
	}
	argList := term.ReferenceTerm(operandTerms[1])
	env := callerEnv
	if len(operandTerms) >= 3 {
		if eh, ok := term.TryAccess[term.EnvHandle](term.ReferenceTerm(operandTerms[2]).Value()); ok {
			env = eh.Env
		}
	}
	target := comb
	if u, ok := Unwrap(comb); ok {
		target = u
	}
	ctx.Env = env
	return invokeOperative(target, combiningTerm, argList.Children(), env, ctx)
}

func listStarFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) == 0 {
		combiningTerm.SetContent(term.NewList())
		return sched.Retained, nil
	}
	head, last := operandTerms[:len(operandTerms)-1], term.ReferenceTerm(operandTerms[len(operandTerms)-1])
	elems := make([]*term.Term, 0, len(head)+last.Len())
	for _, h := range head {
		elems = append(elems, term.ReferenceTerm(h).Copy())
	}
	elems = append(elems, last.Children()...)
	combiningTerm.SetContent(term.NewList(elems...))
	return sched.Retained, nil
}

func acclFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 3 {
		return sched.Neutral, errors.Newf(errors.ArityError, "accl requires a list, a base value and a combiner")
	}
	elems := term.ReferenceTerm(operandTerms[0]).Children()
	comb, ok := term.TryAccess[term.Combiner](term.ReferenceTerm(operandTerms[2]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "accl's third operand is not a combiner")
	}
	return acclStep(ctx, elems, 0, term.ReferenceTerm(operandTerms[1]).Copy(), comb, combiningTerm)
}

func acclStep(ctx *sched.Context, elems []*term.Term, i int, acc *term.Term, comb term.Combiner, combiningTerm *term.Term) (sched.Status, error) {
	if i >= len(elems) {
		combiningTerm.SetContent(acc)
		return sched.Retained, nil
	}
	savedEnv := ctx.Env
	resultTerm := &term.Term{}
	ctx.Push(func(ctx *sched.Context) (sched.Status, error) {
		ctx.Env = savedEnv
		return acclStep(ctx, elems, i+1, resultTerm, comb, combiningTerm)
	})
	return Apply(comb, resultTerm, []*term.Term{acc, elems[i]}, ctx)
}

func map1Fn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "map1 requires a combiner and a list")
	}
	comb, ok := term.TryAccess[term.Combiner](term.ReferenceTerm(operandTerms[0]).Value())
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "map1's first operand is not a combiner")
	}
	elems := term.ReferenceTerm(operandTerms[1]).Children()
	results := make([]*term.Term, len(elems))
	return map1Step(ctx, comb, elems, results, 0, combiningTerm)
}

func map1Step(ctx *sched.Context, comb term.Combiner, elems, results []*term.Term, i int, combiningTerm *term.Term) (sched.Status, error) {
	if i >= len(elems) {
		combiningTerm.SetContent(term.NewList(results...))
		return sched.Retained, nil
	}
	savedEnv := ctx.Env
	resultTerm := &term.Term{}
	ctx.Push(func(ctx *sched.Context) (sched.Status, error) {
		ctx.Env = savedEnv
		results[i] = resultTerm
		return map1Step(ctx, comb, elems, results, i+1, combiningTerm)
	})
	return Apply(comb, resultTerm, []*term.Term{elems[i]}, ctx)
}

func eqFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) != 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "eq? requires exactly two operands")
	}
	a := term.ReferenceTerm(operandTerms[0])
	b := term.ReferenceTerm(operandTerms[1])
	combiningTerm.SetContent(boolTerm(a.Equal(b)))
	return sched.Retained, nil
}

func plusFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	sum := apd.New(0, 0)
	for _, o := range operandTerms {
		n, ok := numOf(o)
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "+ expects numeric operands")
		}
		var res apd.Decimal
		if _, err := numCtx.Add(&res, sum, n.Decimal); err != nil {
			return sched.Neutral, errors.Wrap(errors.TypeError, err, "+ failed")
		}
		sum = &res
	}
	combiningTerm.SetContent(numTerm(sum))
	return sched.Retained, nil
}

func minusFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) == 0 {
		return sched.Neutral, errors.Newf(errors.ArityError, "- requires at least one operand")
	}
	first, ok := numOf(operandTerms[0])
	if !ok {
		return sched.Neutral, errors.Newf(errors.TypeError, "- expects numeric operands")
	}
	if len(operandTerms) == 1 {
		var res apd.Decimal
		res.Neg(first.Decimal)
		combiningTerm.SetContent(numTerm(&res))
		return sched.Retained, nil
	}
	acc := new(apd.Decimal).Set(first.Decimal)
	for _, o := range operandTerms[1:] {
		n, ok := numOf(o)
		if !ok {
			return sched.Neutral, errors.Newf(errors.TypeError, "- expects numeric operands")
		}
		var res apd.Decimal
		if _, err := numCtx.Sub(&res, acc, n.Decimal); err != nil {
			return sched.Neutral, errors.Wrap(errors.TypeError, err, "- failed")
		}
		acc = &res
	}
	combiningTerm.SetContent(numTerm(acc))
	return sched.Retained, nil
}

func lessEqFn(ctx *sched.Context, operandTerms []*term.Term, callerEnv *term.Environment, combiningTerm *term.Term) (sched.Status, error) {
	if len(operandTerms) < 2 {
		return sched.Neutral, errors.Newf(errors.ArityError, "<=? requires at least two operands")
	}
	for i := 0; i < len(operandTerms)-1; i++ {
		a, ok1 := numOf(operandTerms[i])
		b, ok2 := numOf(operandTerms[i+1])
		if !ok1 || !ok2 {
			return sched.Neutral, errors.Newf(errors.TypeError, "<=? expects numeric operands")
		}
		if a.Decimal.Cmp(b.Decimal) > 0 {
			combiningTerm.SetContent(boolTerm(false))
			return sched.Retained, nil
		}
	}
	combiningTerm.SetContent(boolTerm(true))
	return sched.Retained, nil
}
