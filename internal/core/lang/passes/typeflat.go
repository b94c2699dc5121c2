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
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/rewrite"
)

// TypeFlat builds the "typeflat" pass: a Type wrapper around nothing
// becomes TypeUnit; a Type wrapper around exactly one already-typed child
// unwraps to that child directly; a Type wrapper around more than one
// child (the operators didn't fully reduce to a single combinator — a
// leftover comma-separated list) becomes a TypeTuple: unwrap arity-1
// tuples/types, collapse empty to TypeUnit, flatten nested type nodes.
func TypeFlat() rewrite.Pass {
	return rewrite.Pass{
		Name: "typeflat",
		Dir:  rewrite.BottomUp,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Type),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					switch len(children) {
					case 0:
						return rewrite.ReplaceWith(ast.New(lang.TypeUnit))
					case 1:
						return rewrite.ReplaceWith(children[0])
					default:
						return rewrite.ReplaceWith(ast.New(lang.TypeTuple, children...))
					}
				},
			},
			{
				// A nested TypeTuple of exactly one element flattens into
				// its element; a TypeTuple nested directly inside another
				// TypeTuple splices its elements into the parent.
				Pattern: rewrite.T(lang.TypeTuple),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					if len(children) == 1 {
						return rewrite.ReplaceWith(children[0])
					}
					flat := make([]*ast.Node, 0, len(children))
					changed := false
					for _, c := range children {
						if c.Kind() == lang.TypeTuple {
							flat = append(flat, childrenCopy(c)...)
							changed = true
						} else {
							flat = append(flat, c)
						}
					}
					if !changed {
						return rewrite.Keep()
					}
					return rewrite.ReplaceWith(ast.New(lang.TypeTuple, flat...))
				},
			},
		},
		Schema: wfTypeFlat(),
	}
}

// typeResultKinds lists every kind a Type wrapper can unwrap to. From
// typeflat onward, any field that used to hold a Type wrapper holds one of
// these directly instead.
var typeResultKinds = []ast.Kind{
	lang.TypeUnit, lang.TypeLin, lang.TypeIn, lang.TypeOut, lang.TypeConst,
	lang.TypeTuple, lang.TypeList, lang.TypeView, lang.TypeFunc, lang.TypeThrow,
	lang.TypeUnion, lang.TypeIsect, lang.TypeVar, lang.TypeName,
}

func wfTypeFlat() *ast.Schema {
	s := ast.NewSchema("typeflat", wfTypeAlg())
	s.Undefine(lang.Function)
	s.Define(lang.Function,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "params", Kinds: []ast.Kind{lang.Params}, Arity: ast.Exactly1},
		ast.Field{Name: "ret", Kinds: typeResultKinds, Arity: ast.Exactly1},
		ast.Field{Name: "body", Kinds: []ast.Kind{lang.Block}, Arity: ast.Exactly1},
	)
	for _, k := range []ast.Kind{lang.Let, lang.Var, lang.FieldLet, lang.FieldVar, lang.Param, lang.TypeParam} {
		s.Undefine(k)
		s.Define(k,
			ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
			ast.Field{Name: "type", Kinds: typeResultKinds, Arity: ast.Exactly1},
			ast.Field{Name: "default", Kinds: []ast.Kind{lang.Group, lang.Expr}, Arity: ast.ZeroOrOne},
		)
	}
	s.Undefine(lang.TypeAlias)
	s.Define(lang.TypeAlias,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "type", Kinds: typeResultKinds, Arity: ast.Exactly1},
	)
	return s
}
