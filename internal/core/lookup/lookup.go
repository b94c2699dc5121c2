// Copyright 2024 The Verona Authors
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

// Package lookup implements name resolution over the dialect's symbol
// tables: upward lexical lookup, downward member lookup through a
// qualified scoped name, and the alias-cycle check used to reject
// recursive type aliases.
package lookup

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
)

// Bindings maps a TypeParam definition node to the type node bound to it in
// one particular lookup context. It never includes bindings for type
// arguments supplied on the definition found itself — those are added
// separately by bind, one level further in.
type Bindings map[*ast.Node]*ast.Node

func mergeBindings(outer, inner Bindings) Bindings {
	merged := make(Bindings, len(outer)+len(inner))
	for k, v := range outer {
		merged[k] = v
	}
	for k, v := range inner {
		merged[k] = v
	}
	return merged
}

// Result is one resolved definition together with the type-parameter
// bindings in scope at the point it was found, and whether supplying type
// arguments on it failed arity (too many, never too few — missing ones get
// fresh type variables per bind).
//
// TypeArgs is the raw type-arguments node supplied at this use site, kept
// distinct from Bindings (the zipped formal→actual map). A caller that
// needs to know whether Def was referenced bare (TypeArgs == nil, so no
// formal of Def is bound here; trailing formals get fresh type variables
// only when some type arguments are supplied) reads this field instead of
// re-deriving it from Bindings, which cannot tell "explicitly bound to a
// fresh var" apart from "filled with a fresh var" once binding has happened.
type Result struct {
	Def             *ast.Node
	Bindings        Bindings
	TypeArgs        *ast.Node
	TooManyTypeArgs bool
}

// Results is an ordered set of candidate resolutions. Most call sites want
// exactly one candidate of an expected kind; ambiguity or a kind mismatch
// is a caller-level diagnostic, not a lookup-level one.
type Results []Result

// One returns the sole candidate if there is exactly one and it is one of
// kinds (or kinds is empty).
func (rs Results) One(kinds ...ast.Kind) (Result, bool) {
	if len(rs) != 1 {
		return Result{}, false
	}
	if len(kinds) == 0 {
		return rs[0], true
	}
	if rs[0].Def.Kind().In(kinds...) {
		return rs[0], true
	}
	return Result{}, false
}

// LookupName resolves an identifier or operator symbol upward through
// enclosing scopes. A `Use` binding found along
// the way is expanded by looking down into the type it names, but only if
// the use appears lexically before id — uses are not retroactive.
func LookupName(id *ast.Node, ta *ast.Node) Results {
	var out Results
	for _, def := range ast.LookupUpward(id, id.Location()) {
		if def.Kind() == lang.Use {
			if precedes(def, id) {
				target := def.Children()[0]
				out = append(out, lookdown(Result{Def: target}, id.Location(), ta, ast.NodeSet{})...)
			}
			continue
		}
		out = append(out, bind(def, ta, nil))
	}
	return out
}

// precedes reports whether a is positioned before b in its enclosing
// block, approximated here by a shallower-or-earlier-sibling test walking
// up from b toward a's parent. Use bindings are only visible to code that
// lexically follows them.
func precedes(a, b *ast.Node) bool {
	ap, bp := a.Parent(), b.Parent()
	if ap == nil || bp == nil {
		return false
	}
	if ap != bp {
		// Different blocks: a Use is visible to nested scopes that occur
		// anywhere within its own block, since those scopes as a whole come
		// after it once it has been bound. Walk b up to ap's level.
		for cur := bp; cur != nil; cur = cur.Parent() {
			if cur.Parent() == ap {
				return precedes(a, cur)
			}
		}
		return false
	}
	siblings := ap.Children()
	ai, bi := -1, -1
	for i, c := range siblings {
		if c == a {
			ai = i
		}
		if c == b {
			bi = i
		}
	}
	return ai >= 0 && bi >= 0 && ai < bi
}

// scopedNameParts pulls the (context, identifier, type-arguments) triple
// out of a TypeName or FunctionName node, both of which share that shape.
func scopedNameParts(tn *ast.Node) (ctx, id, ta *ast.Node) {
	c := tn.Children()
	ctx = c[0]
	id = c[1]
	if len(c) > 2 {
		ta = c[2]
	}
	return
}

// LookupScopedName resolves a qualified name node (TypeName or
// FunctionName): with no context (TypeUnit) it is an ordinary upward
// lookup; otherwise the context is resolved first and id is looked down
// into each of its results.
func LookupScopedName(tn *ast.Node) Results {
	ctx, id, ta := scopedNameParts(tn)
	if ctx.Kind() == lang.TypeUnit {
		return LookupName(id, ta)
	}
	return LookupScopedNameName(ctx, id, ta)
}

// LookupScopedNameName resolves id downward into ctx's resolution(s).
func LookupScopedNameName(ctx, id, ta *ast.Node) Results {
	return lookdownAll(resolveContext(ctx), id.Location(), ta, ast.NodeSet{})
}

// resolveContext resolves a scoped name's left-hand context to its
// candidate definitions: recursively through a nested TypeName/FunctionName,
// or directly if ctx already denotes a definition (a prior pass may have
// rewritten the context to point straight at one, e.g. after `reference`).
func resolveContext(ctx *ast.Node) Results {
	switch ctx.Kind() {
	case lang.TypeName, lang.FunctionName:
		return LookupScopedName(ctx)
	default:
		return Results{{Def: ctx}}
	}
}
