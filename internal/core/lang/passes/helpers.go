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

// Package passes implements the twenty dialect passes as rewrite.Pass
// values, in pipeline order (see Pipeline in pipeline.go).
//
// Most of these passes need to find and collapse an arbitrary-width,
// arbitrary-offset window of adjacent siblings (e.g. reverseapp's "object,
// dot, operator" triple, found wherever it occurs in a longer Expr child
// list) rather than a pattern anchored at position 0. Rather than stretch
// the rewrite engine's sequence matcher into a general windowed search, a
// rule here matches its container by Kind alone and scans the container's
// own children procedurally in its Action, the same way lambda/drop/conddrop
// do (a mutable scan driven by Go code, not a pure declarative pattern).
package passes

import (
	"strconv"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/token"
)

// syntheticIdent mints an Ident node spelled exactly as text, backed by its
// own tiny single-use source file so Location() keeps working uniformly
// for every identifier regardless of whether a human or a rewrite rule
// wrote it: identity is by spelling, not by origin. Used for
// names a pass introduces that don't exist in the user's source — `self`,
// `create`, `load`, `store`, synthesized fields, fresh lambda parameters.
func syntheticIdent(text string) *ast.Node {
	f := token.NewFile("<synthetic>", []byte(text))
	return ast.NewLeaf(lang.Ident, f.Pos(0), f.Pos(len(text)))
}

// freshCounter backs freshName: every synthesized binder in a pass (a
// partial-application parameter, a closure-conversion field, a default-arg
// overload forward) needs a spelling distinct from anything the user wrote
// and from every other synthesized name, so collisions never arise across
// independent rewrite sites.
var freshCounter int

// freshName returns a new identifier node spelled "prefix$N" for a
// monotonically increasing N, backed by its own synthetic source file.
func freshName(prefix string) *ast.Node {
	freshCounter++
	return syntheticIdent(prefix + "$" + strconv.Itoa(freshCounter))
}

// childrenCopy returns a defensive copy of n's children, safe to range over
// while n is being rebuilt.
func childrenCopy(n *ast.Node) []*ast.Node {
	return append([]*ast.Node(nil), n.Children()...)
}

// rebuild constructs a fresh node of kind k with the given children
// (callers return the fresh node as a Replacement).
func rebuild(k ast.Kind, children ...*ast.Node) *ast.Node {
	return ast.New(k, children...)
}

// firstChildOfKind returns the first child of n with kind k, or nil.
func firstChildOfKind(n *ast.Node, k ast.Kind) *ast.Node {
	for _, c := range n.Children() {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// isIdentLike reports whether n is a bare name token eligible for
// classification by the reference pass.
func isIdentLike(n *ast.Node) bool {
	return n.Kind() == lang.Ident
}

// retag clones a leaf/identifier node's essential span onto a new node of
// kind k, used when a pass reclassifies a token's kind without touching its
// source span or children.
func retag(n *ast.Node, k ast.Kind) *ast.Node {
	out := ast.NewLeaf(k, n.Pos(), n.End())
	for _, c := range childrenCopy(n) {
		out.Append(c)
	}
	return out
}
