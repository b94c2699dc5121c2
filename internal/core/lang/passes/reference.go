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

package passes

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/errors"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/lookup"
	"github.com/project-verona/verona-go/internal/core/rewrite"
)

// exprContainers lists the kinds whose children are expression terms
// rather than structural slots (a definition's own name, a class's
// TypeParams, ...) — an Ident found directly under one of these is a use,
// not a binding occurrence, and is what the "reference" pass classifies.
var exprContainers = []ast.Kind{
	lang.Expr, lang.ExprSeq, lang.Tuple, lang.Args, lang.Block,
	lang.Call, lang.CallLHS, lang.Conditional, lang.Assign,
}

// Reference builds the "reference" pass: every bare
// identifier in expression context is resolved by symbol-table lookup and
// rewritten into the reference kind its binding implies — RefVar for a
// `Var`/`FieldVar` binding, RefLet for a `Let`/`Param`/`FieldLet` binding,
// TypeName for a type-bearing definition, Selector otherwise (a method or
// field name resolved later by dot-call sugar). A TypeView already built
// by the typeview pass over an expression-position `A::b`/`A.b` becomes a
// TypeName if its resolved member is itself type-bearing, else a
// FunctionName — both share the same (ctx, ident, args) shape.
func Reference() rewrite.Pass {
	return rewrite.Pass{
		Name: "reference",
		Dir:  rewrite.TopDown,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Ident), Action: classifyIdent},
			{Pattern: rewrite.T(lang.TypeView), Action: classifyScoped},
		},
		Schema: wfReference(),
	}
}

func classifyIdent(m *rewrite.Match) rewrite.Replacement {
	id := m.Node
	p := id.Parent()
	if p == nil || !p.Kind().In(exprContainers...) {
		return rewrite.Keep()
	}

	results := lookup.LookupName(id, nil)
	res, ok := results.One()
	if !ok || res.Def == nil {
		return rewrite.ReplaceWith(retag(id, lang.Selector))
	}

	switch res.Def.Kind() {
	case lang.Var, lang.FieldVar:
		return rewrite.ReplaceWith(retag(id, lang.RefVar))
	case lang.Let, lang.FieldLet, lang.Param:
		return rewrite.ReplaceWith(retag(id, lang.RefLet))
	case lang.Class, lang.TypeAlias, lang.TypeTrait, lang.TypeParam:
		return rewrite.ReplaceWith(retag(id, lang.TypeName))
	default:
		return rewrite.ReplaceWith(retag(id, lang.Selector))
	}
}

func classifyScoped(m *rewrite.Match) rewrite.Replacement {
	tv := m.Node
	p := tv.Parent()
	if p == nil || !p.Kind().In(exprContainers...) {
		return rewrite.Keep()
	}
	children := tv.Children()
	if len(children) != 2 {
		return rewrite.Keep()
	}
	ctx, id := children[0], children[1]
	if id.Kind() != lang.Ident {
		return rewrite.Keep()
	}

	results := lookup.LookupScopedName(ast.New(lang.TypeName, ctx, retag(id, lang.Ident)))
	res, ok := results.One()
	if !ok || res.Def == nil {
		return rewrite.Fail(errors.Newf(tv.Pos(), errors.Resolution,
			"%q is not a member of its scope", id.Location()), tv)
	}

	switch res.Def.Kind() {
	case lang.Class, lang.TypeAlias, lang.TypeTrait, lang.TypeParam:
		return rewrite.ReplaceWith(ast.New(lang.TypeName, ctx, retag(id, lang.Ident)))
	default:
		return rewrite.ReplaceWith(ast.New(lang.FunctionName, ctx, retag(id, lang.Ident)))
	}
}

func wfReference() *ast.Schema {
	s := ast.NewSchema("reference", wfTypeDNF())
	return s
}
