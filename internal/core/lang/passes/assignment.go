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
	"strconv"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/rewrite"
)

// Assignment builds the "assignment" pass:
//
//   - `let x = e` (a local Let definition still carrying its initializer
//     as structure left it) splits into a bare Bind declaration plus a
//     separate Assign of the initializer, unifying every local's init
//     with the synthetic Binds the later anf pass introduces.
//   - A Tuple on the LHS of an Assign destructures: the RHS is bound once
//     to a fresh local, and each tuple element is assigned from a
//     positional selector call (`_0`, `_1`, ...) against that binding, so
//     the RHS is evaluated exactly once regardless of how many elements
//     are bound from it.
//   - Any other Assign is passed through unchanged (a write to a `var`
//     was already turned into a store call by localvar, which runs
//     earlier; what remains is a plain expression-statement assignment
//     the drop pass will track as a move of its RHS).
func Assignment() rewrite.Pass {
	return rewrite.Pass{
		Name: "assignment",
		Dir:  rewrite.TopDown,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Let), Action: splitLetInit},
			{Pattern: rewrite.T(lang.Assign), Action: destructureTuple},
		},
		Schema: wfAssignment(),
	}
}

func splitLetInit(m *rewrite.Match) rewrite.Replacement {
	children := childrenCopy(m.Node)
	if len(children) != 3 {
		return rewrite.Keep()
	}
	name, ty, init := children[0], children[1], children[2]
	bind := ast.New(lang.Bind, ast.NewLeaf(lang.Ident, name.Pos(), name.End()), ty)
	assign := ast.New(lang.Assign,
		ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, name.Pos(), name.End())), init)
	return rewrite.SpliceSeq(bind, assign)
}

func destructureTuple(m *rewrite.Match) rewrite.Replacement {
	children := childrenCopy(m.Node)
	if len(children) != 2 || children[0].Kind() != lang.Tuple {
		return rewrite.Keep()
	}
	lhs, rhs := children[0], children[1]

	tmp := freshName("destructure")
	bind := ast.New(lang.Bind, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End()),
		ast.New(lang.Type, ast.New(lang.TypeVar)))
	bindAssign := ast.New(lang.Assign,
		ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End())), rhs)

	out := []*ast.Node{bind, bindAssign}
	for i, elem := range childrenCopy(lhs) {
		selector := ast.New(lang.Call,
			ast.New(lang.Selector, syntheticIdent(positionalSelector(i))),
			ast.New(lang.Args, ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End()))))
		out = append(out, ast.New(lang.Assign, elem, selector))
	}
	return rewrite.SpliceSeq(out...)
}

func positionalSelector(i int) string {
	return "_" + strconv.Itoa(i)
}

func wfAssignment() *ast.Schema {
	s := ast.NewSchema("assignment", wfLocalVar())
	s.Undefine(lang.Let)
	return s
}
