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

// The four type-precedence passes (typeview, typefunc, typethrow, typealg)
// share one shape: scan a Type node's still-flat child list for the
// tightest-remaining operator symbol and collapse it with its operand(s)
// into its named combinator, tightest operator first. Each pass exhausts
// its own operator before the next pass in the pipeline runs, which is
// what gives the chain its precedence climbing order without an explicit
// precedence table.

func isSymbol(n *ast.Node, spelling string) bool {
	return n.Kind() == lang.Symbol && n.Location() == spelling
}

// reduceLeftAssocBinary finds the first occurrence of a binary operator
// symbol (scanning left to right, so repeated application is naturally
// left-associative) and collapses [lhs, op, rhs] into combine(lhs, rhs).
// It reports whether a reduction was made.
func reduceLeftAssocBinary(container *ast.Node, spelling string, combine func(lhs, rhs *ast.Node) *ast.Node) (*ast.Node, bool) {
	children := childrenCopy(container)
	for i := 1; i < len(children); i++ {
		if isSymbol(children[i], spelling) && i+1 < len(children) {
			lhs, rhs := children[i-1], children[i+1]
			combined := combine(lhs, rhs)
			next := append(append([]*ast.Node(nil), children[:i-1]...), combined)
			next = append(next, children[i+2:]...)
			return ast.New(container.Kind(), next...), true
		}
	}
	return container, false
}

// reduceRightAssocBinary is reduceLeftAssocBinary's mirror: it finds the
// *last* occurrence of the operator so repeated application right-folds,
// used for `->`'s right-associativity.
func reduceRightAssocBinary(container *ast.Node, spelling string, combine func(lhs, rhs *ast.Node) *ast.Node) (*ast.Node, bool) {
	children := childrenCopy(container)
	for i := len(children) - 2; i >= 1; i-- {
		if isSymbol(children[i], spelling) {
			lhs, rhs := children[i-1], children[i+1]
			combined := combine(lhs, rhs)
			next := append(append([]*ast.Node(nil), children[:i-1]...), combined)
			next = append(next, children[i+2:]...)
			return ast.New(container.Kind(), next...), true
		}
	}
	return container, false
}

// reducePostfixUnary collapses the first `operand, op` pair into
// wrap(operand), for a postfix operator like `...`.
func reducePostfixUnary(container *ast.Node, spelling string, wrap func(operand *ast.Node) *ast.Node) (*ast.Node, bool) {
	children := childrenCopy(container)
	for i := 1; i < len(children); i++ {
		if isSymbol(children[i], spelling) {
			operand := children[i-1]
			combined := wrap(operand)
			next := append(append([]*ast.Node(nil), children[:i-1]...), combined)
			next = append(next, children[i+1:]...)
			return ast.New(container.Kind(), next...), true
		}
	}
	return container, false
}

// reducePrefixUnary collapses the first `op, operand` pair into
// wrap(operand), for a prefix keyword operator like `throw`.
func reducePrefixUnary(container *ast.Node, spelling string, wrap func(operand *ast.Node) *ast.Node) (*ast.Node, bool) {
	children := childrenCopy(container)
	for i := 0; i+1 < len(children); i++ {
		if children[i].Kind() == lang.Ident && children[i].Location() == spelling {
			operand := children[i+1]
			combined := wrap(operand)
			next := append(append([]*ast.Node(nil), children[:i]...), combined)
			next = append(next, children[i+2:]...)
			return ast.New(container.Kind(), next...), true
		}
	}
	return container, false
}

func typePrecPass(name string, reduce func(*ast.Node) (*ast.Node, bool), schema *ast.Schema) rewrite.Pass {
	return rewrite.Pass{
		Name: name,
		Dir:  rewrite.TopDown,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.Type),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					next, changed := reduce(m.Node)
					if !changed {
						return rewrite.Keep()
					}
					return rewrite.ReplaceWith(next)
				},
			},
		},
		Schema: schema,
	}
}

// TypeView builds the "typeview" pass: `::` and `.`, the tightest-binding
// type operators, both collapse to TypeView(lhs, rhs) — a scoped name and a
// viewpoint adaptation share representation because both mean "look up rhs
// from lhs's perspective".
func TypeView() rewrite.Pass {
	return typePrecPass("typeview", func(t *ast.Node) (*ast.Node, bool) {
		if next, ok := reduceLeftAssocBinary(t, "::", viewCombine); ok {
			return next, true
		}
		return reduceLeftAssocBinary(t, ".", viewCombine)
	}, wfTypeView())
}

func viewCombine(lhs, rhs *ast.Node) *ast.Node {
	return ast.New(lang.TypeView, lhs, rhs)
}

func wfTypeView() *ast.Schema {
	s := ast.NewSchema("typeview", wfStructure())
	return s
}

// TypeFunc builds the "typefunc" pass: `...` (postfix, TypeList) then `->`
// (right-associative, TypeFunc).
func TypeFunc() rewrite.Pass {
	return typePrecPass("typefunc", func(t *ast.Node) (*ast.Node, bool) {
		if next, ok := reducePostfixUnary(t, "...", func(op *ast.Node) *ast.Node {
			return ast.New(lang.TypeList, op)
		}); ok {
			return next, true
		}
		return reduceRightAssocBinary(t, "->", func(lhs, rhs *ast.Node) *ast.Node {
			return ast.New(lang.TypeFunc, lhs, rhs)
		})
	}, wfTypeFunc())
}

func wfTypeFunc() *ast.Schema {
	return ast.NewSchema("typefunc", wfTypeView())
}

// TypeThrow builds the "typethrow" pass: prefix `throw`, TypeThrow(t).
func TypeThrow() rewrite.Pass {
	return typePrecPass("typethrow", func(t *ast.Node) (*ast.Node, bool) {
		return reducePrefixUnary(t, "throw", func(op *ast.Node) *ast.Node {
			return ast.New(lang.TypeThrow, op)
		})
	}, wfTypeThrow())
}

func wfTypeThrow() *ast.Schema {
	return ast.NewSchema("typethrow", wfTypeFunc())
}

// TypeAlg builds the "typealg" pass: `&` (TypeIsect) binds tighter than `|`
// (TypeUnion), both left-associative and variadic at the AST level —
// repeated application folds every chain of same-operator terms into a
// single flat TypeIsect/TypeUnion rather than a binary tree.
func TypeAlg() rewrite.Pass {
	return typePrecPass("typealg", func(t *ast.Node) (*ast.Node, bool) {
		if next, ok := reduceFlatBinary(t, "&", lang.TypeIsect); ok {
			return next, true
		}
		return reduceFlatBinary(t, "|", lang.TypeUnion)
	}, wfTypeAlg())
}

// reduceFlatBinary is reduceLeftAssocBinary specialised to flatten chains:
// if either operand is already a node of kind k (from a prior fold in the
// same container), its children are spliced in directly instead of
// nesting.
func reduceFlatBinary(container *ast.Node, spelling string, k ast.Kind) (*ast.Node, bool) {
	return reduceLeftAssocBinary(container, spelling, func(lhs, rhs *ast.Node) *ast.Node {
		var parts []*ast.Node
		if lhs.Kind() == k {
			parts = append(parts, childrenCopy(lhs)...)
		} else {
			parts = append(parts, lhs)
		}
		if rhs.Kind() == k {
			parts = append(parts, childrenCopy(rhs)...)
		} else {
			parts = append(parts, rhs)
		}
		return ast.New(k, parts...)
	})
}

func wfTypeAlg() *ast.Schema {
	return ast.NewSchema("typealg", wfTypeThrow())
}
