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

// AssignLHS builds the "assignlhs" pass: reinterprets the
// left side of an Assign, recursively turning RefVar into RefVarLHS and
// Call into CallLHS (a tuple destructures element-wise, so its own
// children are converted the same way) so later passes can tell a
// store-to site from a read-from site without re-inspecting context.
func AssignLHS() rewrite.Pass {
	return rewrite.Pass{
		Name: "assignlhs",
		Dir:  rewrite.TopDown,
		Once: true,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Assign),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					if len(children) == 0 {
						return rewrite.Keep()
					}
					lhs := toLHS(children[0])
					rest := append([]*ast.Node{lhs}, children[1:]...)
					return rewrite.ReplaceWith(ast.New(lang.Assign, rest...))
				},
			},
		},
		Schema: wfAssignLHS(),
	}
}

func toLHS(n *ast.Node) *ast.Node {
	switch n.Kind() {
	case lang.RefVar:
		return ast.New(lang.RefVarLHS, childrenCopy(n)...)
	case lang.Call:
		children := childrenCopy(n)
		if len(children) > 0 {
			children[0] = toLHS(children[0])
		}
		return ast.New(lang.CallLHS, children...)
	case lang.Tuple:
		children := childrenCopy(n)
		for i, c := range children {
			children[i] = toLHS(c)
		}
		return ast.New(lang.Tuple, children...)
	default:
		return n
	}
}

func wfAssignLHS() *ast.Schema {
	return ast.NewSchema("assignlhs", wfApplication())
}
