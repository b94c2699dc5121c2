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

// Package subtype implements the structural subtyping relation over the
// dialect's type lattice: a bound-type wrapper that eagerly unwinds names,
// aliases, and viewpoint adaptation to a normal form, and a sequent-calculus
// procedure that decides `sub <: sup` over that normal form.
package subtype

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/lookup"
)

// Bound pairs a type node with the type-parameter bindings needed to
// interpret any TypeParam it or its descendants mention — the same pairing
// lookup.Result carries through resolution, renamed here since a bound type
// is a snapshot, not a search result.
type Bound struct {
	Node     *ast.Node
	Bindings lookup.Bindings
}

// New wraps t with bindings and eagerly unwinds it: Type wrappers are
// unpeeled, qualified names are resolved to their definitions, and a
// TypeView is reduced by the viewpoint-adaptation table until further
// reduction would require information not yet known (an unbound TypeParam
// or TypeVar on either side). Cycles found while resolving a chain of
// aliases/names stop unwinding at the point of the cycle rather than
// recursing forever, tracked via a visited-set scoped to this call.
func New(t *ast.Node, bindings lookup.Bindings) Bound {
	b := Bound{Node: t, Bindings: bindings}
	visited := ast.NodeSet{}
	for {
		switch b.Node.Kind() {
		case lang.Type:
			b.Node = b.Node.Children()[0]

		case lang.TypeName, lang.FunctionName:
			if visited.Has(b.Node) {
				return b
			}
			visited = visited.Add(b.Node)
			results := lookup.LookupScopedName(b.Node)
			if len(results) == 0 {
				return b
			}
			r := results[0]
			b.Node = r.Def
			b.Bindings = mergeOverBindings(b.Bindings, r.Bindings)

		case lang.TypeParam:
			if visited.Has(b.Node) {
				return b
			}
			visited = visited.Add(b.Node)
			bound, ok := b.Bindings[b.Node]
			if !ok {
				return b
			}
			b.Node = bound

		case lang.TypeView:
			next, ok := reduceView(b)
			if !ok {
				return b
			}
			b = next

		default:
			return b
		}
	}
}

// mergeOverBindings applies one level of typevar/typeparam indirection: a
// binding found while resolving a name that itself points at a TypeVar or
// TypeParam already bound in the caller's own bindings is replaced by that
// outer binding, so bindings picked up at an outer use site win over fresh
// ones synthesized deeper in.
func mergeOverBindings(outer, found lookup.Bindings) lookup.Bindings {
	merged := make(lookup.Bindings, len(outer)+len(found))
	for k, v := range found {
		switch v.Kind() {
		case lang.TypeVar:
			// k (the typeparam just bound to a fresh typevar) may already be
			// bound by the caller's own context; that outer binding wins.
			if ov, ok := outer[k]; ok {
				v = ov
			}
		case lang.TypeParam:
			// v is itself a typeparam reference (a default forwarding to an
			// enclosing generic); follow it through the outer bindings if
			// they already resolve it.
			if ov, ok := outer[v]; ok {
				v = ov
			}
		}
		merged[k] = v
	}
	for k, v := range outer {
		merged[k] = v
	}
	return merged
}

func (b Bound) child(i int) Bound {
	return New(b.Node.Children()[i], b.Bindings)
}

func (b Bound) rebind(n *ast.Node) Bound {
	return New(n, b.Bindings)
}

// reduceView applies the TypeView viewpoint-adaptation table to b, which
// must itself be a TypeView. It returns the reduced Bound and
// true, or ok=false when neither side reduces further (at least one side is
// an unresolved TypeParam/TypeVar).
func reduceView(b Bound) (Bound, bool) {
	children := b.Node.Children()
	lhs := b.child(0)
	rhs := b.child(len(children) - 1)

	switch lhs.Node.Kind() {
	case lang.TypeTuple, lang.TypeList, lang.Package, lang.Class, lang.TypeTrait, lang.TypeUnit:
		// K.C = K for every type K with no viewpoint of its own.
		return b.rebind(lhs.Node), true

	case lang.TypeUnion, lang.TypeIsect:
		// (A | B).C = A.C | B.C, (A & B).C = A.C & B.C
		out := ast.New(lhs.Node.Kind())
		for _, t := range lhs.Node.Children() {
			out.Append(ast.New(lang.TypeView, t, rhs.Node))
		}
		return b.rebind(out), true

	case lang.TypeAlias:
		return b.rebind(ast.New(lang.TypeView, aliasTarget(lhs.Node), rhs.Node)), true
	}

	switch rhs.Node.Kind() {
	case lang.TypeUnion, lang.TypeIsect, lang.TypeTuple, lang.TypeList:
		// A.(B & C) = A.B & A.C, A.(B | C) = A.B | A.C, A.(B, C) = A.B, A.C
		out := ast.New(rhs.Node.Kind())
		for _, t := range rhs.Node.Children() {
			out.Append(ast.New(lang.TypeView, lhs.Node, t))
		}
		return b.rebind(out), true

	case lang.TypeAlias:
		return b.rebind(ast.New(lang.TypeView, lhs.Node, aliasTarget(rhs.Node))), true

	case lang.Package, lang.Class, lang.TypeTrait, lang.TypeUnit:
		return b.rebind(rhs.Node), true

	case lang.TypeConst:
		// *.Const = Const
		return b.rebind(rhs.Node), true
	}

	linIn := func(k ast.Kind) bool { return k == lang.TypeLin || k == lang.TypeIn }

	switch {
	case linIn(lhs.Node.Kind()) && rhs.Node.Kind() == lang.TypeLin:
		// (Lin | In).Lin = never: no reduction in this shape, caller keeps
		// the TypeView and the sequent's catch-all reports no match.
		return b, false

	case linIn(lhs.Node.Kind()) && (rhs.Node.Kind() == lang.TypeIn || rhs.Node.Kind() == lang.TypeOut):
		// (Lin | In).(In | Out) = In
		return b.rebind(ast.New(lang.TypeIn)), true

	case lhs.Node.Kind() == lang.TypeOut && (rhs.Node.Kind() == lang.TypeLin || rhs.Node.Kind() == lang.TypeIn || rhs.Node.Kind() == lang.TypeOut):
		// Out.(Lin | In | Out) = Out
		return b.rebind(lhs.Node), true

	case lhs.Node.Kind() == lang.TypeConst && (rhs.Node.Kind() == lang.TypeLin || rhs.Node.Kind() == lang.TypeIn || rhs.Node.Kind() == lang.TypeOut):
		// Const.(Lin | In | Out) = Const
		return b.rebind(lhs.Node), true
	}

	return b, false
}

func aliasTarget(alias *ast.Node) *ast.Node {
	for _, c := range alias.Children() {
		if c.Kind() == lang.Type {
			return c
		}
	}
	return alias.Children()[len(alias.Children())-1]
}
