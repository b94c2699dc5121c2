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
	"github.com/project-verona/verona-go/internal/core/rewrite"
)

// TypeDNF builds the "typednf" pass: pushes TypeUnion outward through
// TypeIsect and TypeThrow until the tree is in disjunctive normal form,
// then rejects the two shapes DNF makes easy to detect: a
// TypeIsect mixing a TypeThrow branch with a non-throwing one, and a
// TypeThrow nested directly inside another TypeThrow.
func TypeDNF() rewrite.Pass {
	return rewrite.Pass{
		Name: "typednf",
		Dir:  rewrite.BottomUp,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.TypeThrow),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					inner := m.Node.Children()[0]
					if inner.Kind() == lang.TypeThrow {
						return rewrite.Fail(errors.Newf(m.Node.Pos(), errors.TypeGrammar,
							"nested throw types are not allowed"), m.Node)
					}
					if inner.Kind() == lang.TypeUnion {
						parts := make([]*ast.Node, 0, len(inner.Children()))
						for _, t := range childrenCopy(inner) {
							parts = append(parts, ast.New(lang.TypeThrow, t))
						}
						return rewrite.ReplaceWith(ast.New(lang.TypeUnion, parts...))
					}
					return rewrite.Keep()
				},
			},
			{
				Pattern: rewrite.T(lang.TypeIsect),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					for i, c := range children {
						if c.Kind() != lang.TypeUnion {
							continue
						}
						// Distribute: pull the i'th union out across the
						// isect — (A & (B|C) & D) = (A&B&D) | (A&C&D).
						rest := append(append([]*ast.Node(nil), children[:i]...), children[i+1:]...)
						parts := make([]*ast.Node, 0, len(c.Children()))
						for _, alt := range childrenCopy(c) {
							isect := append(append([]*ast.Node(nil), rest...), alt)
							parts = append(parts, ast.New(lang.TypeIsect, isect...))
						}
						return rewrite.ReplaceWith(ast.New(lang.TypeUnion, parts...))
					}

					sawThrow, sawPlain := false, false
					for _, c := range children {
						if c.Kind() == lang.TypeThrow {
							sawThrow = true
						} else {
							sawPlain = true
						}
					}
					if sawThrow && sawPlain {
						return rewrite.Fail(errors.Newf(m.Node.Pos(), errors.TypeGrammar,
							"cannot intersect a throw type with a non-throw type"), m.Node)
					}
					return rewrite.Keep()
				},
			},
		},
		Schema: wfTypeDNF(),
	}
}

func wfTypeDNF() *ast.Schema {
	return ast.NewSchema("typednf", wfTypeFlat())
}
