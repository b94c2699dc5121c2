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

// LocalVar builds the "localvar" pass: `var x` becomes a
// heap cell, `let x = cell.create()`; a later read of `x` becomes
// `x.load()`; a later write `x = v` becomes `x.store(v)`. RefVar/RefVarLHS
// survive only long enough for this pass to see them — by the end of this
// pass run every local is a Let/RefLet plus explicit load/store calls.
func LocalVar() rewrite.Pass {
	return rewrite.Pass{
		Name: "localvar",
		Dir:  rewrite.BottomUp,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Var),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					if len(children) < 2 {
						return rewrite.Keep()
					}
					var createArgs []*ast.Node
					if len(children) > 2 {
						createArgs = append(createArgs, children[2])
					}
					create := ast.New(lang.Call,
						ast.New(lang.Selector, syntheticIdent(cellCreateSelector)),
						ast.New(lang.Args, createArgs...))
					letNode := ast.New(lang.Let, children[0], children[1], create)
					return rewrite.ReplaceWith(letNode)
				},
			},
			{
				Pattern: rewrite.T(lang.RefVar),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					id := m.Node.Children()[0]
					load := ast.New(lang.Call,
						ast.New(lang.Selector, syntheticIdent(cellLoadSelector)),
						ast.New(lang.Args, ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, id.Pos(), id.End()))))
					return rewrite.ReplaceWith(load)
				},
			},
			{
				Pattern: rewrite.T(lang.Assign),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					if len(children) != 2 || children[0].Kind() != lang.RefVarLHS {
						return rewrite.Keep()
					}
					id := children[0].Children()[0]
					store := ast.New(lang.Call,
						ast.New(lang.Selector, syntheticIdent(cellStoreSelector)),
						ast.New(lang.Args, ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, id.Pos(), id.End())), children[1]))
					return rewrite.ReplaceWith(store)
				},
			},
		},
		Schema: wfLocalVar(),
	}
}

// cellCreateSelector/cellLoadSelector/cellStoreSelector name the runtime
// cell type's factory and accessor methods a `var` desugars to.
const (
	cellCreateSelector = "create"
	cellLoadSelector   = "load"
	cellStoreSelector  = "store"
)

func wfLocalVar() *ast.Schema {
	return ast.NewSchema("localvar", wfAssignLHS())
}
