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

package rewrite

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/errors"
)

// Direction selects the traversal order a Pass uses.
type Direction int

const (
	// TopDown visits a node before its children (the default).
	TopDown Direction = iota
	// BottomUp visits a node's children before the node itself.
	BottomUp
)

// Rule is one pattern/action pair. The pattern is tried at a node; if it
// matches, the action computes the Replacement for that node.
type Rule struct {
	Pattern *Pattern
	Action  func(*Match) Replacement
}

// Pass is a named, directed set of rules plus the WF schema its output
// must satisfy. Once, if set, visits each node at most once
// per pass run instead of re-examining the result of a rewrite — required
// for rules whose own output would otherwise match again and loop.
type Pass struct {
	Name   string
	Dir    Direction
	Once   bool
	Rules  []Rule
	Schema *ast.Schema
}

type replKind int

const (
	rkNode replKind = iota
	rkSeq
	rkEmpty
	rkNoChange
	rkError
	rkLift
)

// Replacement is what a Rule's action returns: a new node, a Seq of nodes
// to splice in, an explicit empty (delete), NoChange (keep, stop
// re-matching this site), an Error, or a Lift (attach to an ancestor).
type Replacement struct {
	kind replKind
	node *ast.Node
	seq  []*ast.Node
	lift ast.Kind
}

// ReplaceWith produces a single new node in place of the matched one.
func ReplaceWith(n *ast.Node) Replacement { return Replacement{kind: rkNode, node: n} }

// SpliceSeq produces zero or more nodes to splice into the matched node's
// position in its parent's child list.
func SpliceSeq(nodes ...*ast.Node) Replacement { return Replacement{kind: rkSeq, seq: nodes} }

// Delete removes the matched node entirely.
func Delete() Replacement { return Replacement{kind: rkEmpty} }

// Keep leaves the matched node as-is and prevents the engine from trying
// any further rule at that same site during the current sweep; a later
// sweep of a pass that is not Once tries the rules there again.
func Keep() Replacement { return Replacement{kind: rkNoChange} }

// Fail replaces the matched node with an ast.Error node wrapping err,
// keeping fragment (usually the matched node itself) for source-span
// reporting.
func Fail(err errors.Error, fragment *ast.Node) Replacement {
	return Replacement{kind: rkError, node: ast.NewError(err, fragment)}
}

// LiftTo attaches n to the nearest enclosing ancestor of kind target
// instead of leaving it at the match site, and removes the matched node
// from its current position.
func LiftTo(target ast.Kind, n *ast.Node) Replacement {
	return Replacement{kind: rkLift, node: n, lift: target}
}
