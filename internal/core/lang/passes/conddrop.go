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

// CondDrop builds the "conddrop" pass: after drop, the two
// arms of a Conditional may have made different ownership decisions about
// the same outer local — one arm's last use Moved it, the other's never
// touched it at all. conddrop balances that: whichever arm did not consume
// a name the other arm did gets an explicit Drop of that name appended, so
// both arms leave the same residual ownership regardless of which one ran.
//
// Bottom-up traversal visits an inner Conditional before an outer one
// enclosing it, so by the time an outer Conditional is balanced, any Drop
// injected into one of its arms by a nested conddrop is already part of
// that arm's subtree — scanning the whole arm subtree (not just its
// top-level statements) for Move/Drop is what carries a nested balance
// decision upward to the enclosing Conditional without separate
// bookkeeping.
func CondDrop() rewrite.Pass {
	return rewrite.Pass{
		Name: "conddrop",
		Dir:  rewrite.BottomUp,
		Once: true,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Conditional), Action: balanceConditional},
		},
		Schema: wfCondDrop(),
	}
}

func balanceConditional(m *rewrite.Match) rewrite.Replacement {
	children := childrenCopy(m.Node)
	if len(children) < 2 {
		return rewrite.Keep()
	}
	thenBlock := children[1]
	hasElse := len(children) >= 3
	var elseBlock *ast.Node
	if hasElse {
		elseBlock = children[2]
	} else {
		elseBlock = ast.New(lang.Block)
	}

	thenOwned := consumedOuterNames(thenBlock)
	elseOwned := consumedOuterNames(elseBlock)

	changed := false
	for name, id := range thenOwned {
		if _, ok := elseOwned[name]; !ok {
			elseBlock.Append(ast.New(lang.Drop, ast.NewLeaf(lang.Ident, id.Pos(), id.End())))
			changed = true
		}
	}
	for name, id := range elseOwned {
		if _, ok := thenOwned[name]; !ok {
			thenBlock.Append(ast.New(lang.Drop, ast.NewLeaf(lang.Ident, id.Pos(), id.End())))
			changed = true
		}
	}

	if !changed {
		return rewrite.Keep()
	}
	return rewrite.ReplaceWith(ast.New(lang.Conditional, children[0], thenBlock, elseBlock))
}

// consumedOuterNames scans branch's whole subtree for Move/Drop nodes
// naming an identifier bound outside branch (a local the Conditional
// itself does not introduce), returning the last such identifier node seen
// per name. A Move/Drop of a name branch defines itself (e.g. a Bind local
// to one arm) needs no cross-arm balancing, since the other arm never had
// that binding to begin with.
func consumedOuterNames(branch *ast.Node) map[string]*ast.Node {
	out := map[string]*ast.Node{}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if (n.Kind() == lang.Move || n.Kind() == lang.Drop) && len(n.Children()) == 1 {
			id := n.Children()[0]
			name := id.Location()
			if !boundWithin(branch, id, name) {
				out[name] = id
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(branch)
	return out
}

func wfCondDrop() *ast.Schema {
	return ast.NewSchema("conddrop", wfDrop())
}
