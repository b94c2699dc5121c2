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

// Drop builds the "drop" pass: bottom-up, once per function,
// every RefLet of a local (Bind or Param) is reclassified into Move, Copy,
// or Drop, or erased outright if it is refparams padding nobody ever
// observes.
//
// By the time drop runs, anf has already named every operand and refparams
// has guaranteed at least one RefLet per parameter, so the only inputs this
// pass sees are RefLet occurrences of Binds and Params — never a bare Let.
func Drop() rewrite.Pass {
	return rewrite.Pass{
		Name: "drop",
		Dir:  rewrite.BottomUp,
		Once: true,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Function), Action: classifyFunctionRefs},
		},
		Schema: wfDrop(),
	}
}

// classifyFunctionRefs walks fn's body once, groups every RefLet by the
// name it refers to, and replaces each occurrence according to its
// position in that name's occurrence list:
//
//   - a lone occurrence that is a discarded statement expression (the kind
//     refparams injects for a parameter the body never really touches) is
//     erased: it is not a use, just padding for the liveness walk;
//   - the last occurrence of a name is a Move if the RefLet's nearest
//     enclosing Block is the same Block that owns the binding (the
//     binding's own Block, immediate scope), otherwise a Drop (the value's
//     last observation happens past the scope that owns it, so ownership
//     cannot transfer there — it is released instead);
//   - every earlier occurrence is a Copy.
func classifyFunctionRefs(m *rewrite.Match) rewrite.Replacement {
	fn := m.Node
	groups := map[string][]*ast.Node{}
	owners := map[string]*ast.Node{}

	var collectBinding func(n *ast.Node)
	collectBinding = func(n *ast.Node) {
		switch n.Kind() {
		case lang.Bind, lang.Param:
			if len(n.Children()) > 0 {
				name := n.Children()[0].Location()
				owners[name] = owningBlock(n)
			}
		}
		for _, c := range n.Children() {
			collectBinding(c)
		}
	}
	collectBinding(fn)

	var collectRefs func(n *ast.Node)
	collectRefs = func(n *ast.Node) {
		if n.Kind() == lang.RefLet && len(n.Children()) == 1 {
			name := n.Children()[0].Location()
			if _, ok := owners[name]; ok {
				groups[name] = append(groups[name], n)
			}
		}
		for _, c := range n.Children() {
			collectRefs(c)
		}
	}
	collectRefs(fn)

	changed := false
	for name, refs := range groups {
		owner := owners[name]
		last := len(refs) - 1
		if last == 0 && isDiscardedStatement(refs[0]) {
			eraseDiscardedStatement(refs[0])
			changed = true
			continue
		}
		for i, ref := range refs {
			var repl *ast.Node
			if i == last {
				if owningBlock(ref) == owner {
					repl = ast.New(lang.Move, ast.NewLeaf(lang.Ident, ref.Children()[0].Pos(), ref.Children()[0].End()))
				} else {
					repl = ast.New(lang.Drop, ast.NewLeaf(lang.Ident, ref.Children()[0].Pos(), ref.Children()[0].End()))
				}
			} else {
				repl = ast.New(lang.Copy, ast.NewLeaf(lang.Ident, ref.Children()[0].Pos(), ref.Children()[0].End()))
			}
			ref.Parent().Replace(ref, repl)
			changed = true
		}
	}
	if !changed {
		return rewrite.Keep()
	}
	return rewrite.ReplaceWith(fn)
}

// owningBlock returns the nearest enclosing Block ancestor of n, or n's
// enclosing Function's top-level Block if n is itself a Param (a parameter
// belongs to the function's own top-level block, not to Params).
func owningBlock(n *ast.Node) *ast.Node {
	if n.Kind() == lang.Param {
		if fn := n.AncestorOfKind(lang.Function); fn != nil {
			return firstChildOfKind(fn, lang.Block)
		}
		return nil
	}
	return n.AncestorOfKind(lang.Block)
}

// isDiscardedStatement reports whether ref is a bare statement-level
// RefLet whose value nothing else in the block consumes: its parent is an
// Expr, that Expr's parent is a Block, and the Expr is not that Block's
// last child (the tail expression's value is the block's result, so it is
// never truly discarded).
func isDiscardedStatement(ref *ast.Node) bool {
	expr := ref.Parent()
	if expr == nil || expr.Kind() != lang.Expr {
		return false
	}
	block := expr.Parent()
	if block == nil || block.Kind() != lang.Block {
		return false
	}
	children := block.Children()
	return len(children) == 0 || children[len(children)-1] != expr
}

// eraseDiscardedStatement removes ref's enclosing Expr statement from its
// Block entirely.
func eraseDiscardedStatement(ref *ast.Node) {
	if expr := ref.Parent(); expr != nil {
		expr.Remove()
	}
}

func wfDrop() *ast.Schema {
	s := ast.NewSchema("drop", wfRefParams())
	s.Define(lang.Move, ast.Field{Name: "ident", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1})
	s.Define(lang.Copy, ast.Field{Name: "ident", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1})
	s.Define(lang.Drop, ast.Field{Name: "ident", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1})
	return s
}
