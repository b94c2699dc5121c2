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

// isAtomic reports whether n is already in ANF normal form as an operand:
// a literal, a DontCare, Unit, or a reference to an existing binding.
func isAtomic(n *ast.Node) bool {
	switch n.Kind() {
	case lang.RefLet, lang.NumberLit, lang.StringLit, lang.DontCare, lang.Unit:
		return true
	default:
		return false
	}
}

// ANF builds the "anf" pass: every Call argument that is
// not already atomic is hoisted into a fresh Bind, in the order it is
// found, inserted immediately before the statement that uses it within the
// nearest enclosing Block — so evaluation order is preserved exactly as
// written, just named.
func ANF() rewrite.Pass {
	return rewrite.Pass{
		Name: "anf",
		Dir:  rewrite.TopDown,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Block), Action: normalizeBlock},
		},
		Schema: wfANF(),
	}
}

func normalizeBlock(m *rewrite.Match) rewrite.Replacement {
	stmts := childrenCopy(m.Node)
	for i, stmt := range stmts {
		operand := findNonAtomicArg(stmt)
		if operand == nil {
			continue
		}
		tmp := freshName("anf")
		bind := ast.New(lang.Bind, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End()),
			ast.New(lang.Type, ast.New(lang.TypeVar)))
		ref := ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End()))
		parent := operand.Parent()
		parent.Replace(operand, ref)
		assign := ast.New(lang.Assign, ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, tmp.Pos(), tmp.End())), operand)

		next := make([]*ast.Node, 0, len(stmts)+2)
		next = append(next, stmts[:i]...)
		next = append(next, bind, assign)
		next = append(next, stmts[i:]...)
		return rewrite.ReplaceWith(ast.New(lang.Block, next...))
	}
	return rewrite.Keep()
}

// findNonAtomicArg returns the first non-atomic Args element found by a
// depth-first search of stmt, or nil if every argument in stmt is already
// atomic.
func findNonAtomicArg(stmt *ast.Node) *ast.Node {
	var found *ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if found != nil {
			return
		}
		if n.Kind() == lang.Args {
			for _, arg := range n.Children() {
				if !isAtomic(arg) {
					found = arg
					return
				}
			}
		}
		for _, c := range n.Children() {
			walk(c)
			if found != nil {
				return
			}
		}
	}
	walk(stmt)
	return found
}

func wfANF() *ast.Schema {
	return ast.NewSchema("anf", wfDefaultArgs())
}
