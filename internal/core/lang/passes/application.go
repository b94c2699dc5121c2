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

// ReverseApp builds the "reverseapp" pass: within an Expr's
// still-flat child list, a `lhs . rhs` window — any single operand, a `.`
// symbol, then any single operand — is rewritten to the reversed adjacency
// `rhs lhs`, so `x.f(y)` becomes the term run `f x (y)`. The application
// pass that follows collapses that run into a single Call, which is what
// actually implements `x.f(y) ≡ f(x, y)`.
func ReverseApp() rewrite.Pass {
	return rewrite.Pass{
		Name: "reverseapp",
		Dir:  rewrite.BottomUp,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Expr),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					next, changed := reduceAllDots(m.Node)
					if !changed {
						return rewrite.Keep()
					}
					return rewrite.ReplaceWith(next)
				},
			},
		},
		Schema: wfReverseApp(),
	}
}

// reduceAllDots finds the leftmost `operand . operand` window in
// container's children, splices in the reversed pair, and reports whether
// it found one. The pass re-applies it until no window is left, so a chain
// `a.b.c` becomes `b a . c` and then `b c a`.
func reduceAllDots(container *ast.Node) (*ast.Node, bool) {
	children := childrenCopy(container)
	for i := 1; i+1 < len(children); i++ {
		if isSymbol(children[i], ".") {
			lhs, rhs := children[i-1], children[i+1]
			next := append(append([]*ast.Node(nil), children[:i-1]...), rhs, lhs)
			next = append(next, children[i+2:]...)
			return ast.New(container.Kind(), next...), true
		}
	}
	return container, false
}

func wfReverseApp() *ast.Schema {
	return ast.NewSchema("reverseapp", wfReference())
}

// Application builds the "application" pass: a maximal run
// of 2+ adjacent terms inside an Expr collapses into a single Call, first
// term as callee, the rest as Args. Any `_` (DontCare) among the arguments
// triggers partial application: the whole Call is instead wrapped in a
// fresh Lambda, with that argument position replaced by a reference to a
// new Param of the synthesised lambda.
func Application() rewrite.Pass {
	return rewrite.Pass{
		Name: "application",
		Dir:  rewrite.BottomUp,
		Once: true,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Expr),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					children := childrenCopy(m.Node)
					if len(children) < 2 {
						return rewrite.Keep()
					}
					callee := children[0]
					argNodes := flattenArgs(children[1:])
					call := buildCall(callee, argNodes)
					return rewrite.ReplaceWith(ast.New(lang.Expr, call))
				},
			},
		},
		Schema: wfApplication(),
	}
}

// flattenArgs unwraps any Paren/Args/Tuple grouping nodes directly adjacent
// to the callee into one flat argument list; a bare term is one argument.
func flattenArgs(terms []*ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, t := range terms {
		switch t.Kind() {
		case lang.Paren, lang.Args, lang.Tuple:
			out = append(out, childrenCopy(t)...)
		default:
			out = append(out, t)
		}
	}
	return out
}

func buildCall(callee *ast.Node, argNodes []*ast.Node) *ast.Node {
	holeIdx := -1
	for i, a := range argNodes {
		if a.Kind() == lang.DontCare {
			holeIdx = i
			break
		}
	}
	if holeIdx < 0 {
		return ast.New(lang.Call, callee, ast.New(lang.Args, argNodes...))
	}

	paramName := freshName("hole")
	param := ast.New(lang.Param, paramName, ast.New(lang.Type, ast.New(lang.TypeVar)))
	params := ast.New(lang.Params, param)
	filled := make([]*ast.Node, len(argNodes))
	copy(filled, argNodes)
	filled[holeIdx] = ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, paramName.Pos(), paramName.End()))
	body := ast.New(lang.Block, ast.New(lang.Expr, ast.New(lang.Call, callee, ast.New(lang.Args, filled...))))
	return ast.New(lang.Lambda, ast.New(lang.TypeParams), params, ast.New(lang.Type, ast.New(lang.TypeVar)), body)
}

func wfApplication() *ast.Schema {
	return ast.NewSchema("application", wfReverseApp())
}
