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

// RefParams builds the "refparams" pass: every function
// parameter gets at least one explicit reference inserted at the front of
// its body if the user's own code never refers to it, so the drop pass
// below has a real RefLet site to classify instead of having to special
// case "never mentioned" separately from "mentioned and dropped".
func RefParams() rewrite.Pass {
	return rewrite.Pass{
		Name: "refparams",
		Dir:  rewrite.TopDown,
		Once: true,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Function), Action: ensureParamRefs},
		},
		Schema: wfRefParams(),
	}
}

func ensureParamRefs(m *rewrite.Match) rewrite.Replacement {
	children := childrenCopy(m.Node)
	if len(children) != 5 {
		return rewrite.Keep()
	}
	params, body := children[2], children[4]

	var missing []*ast.Node
	for _, p := range childrenCopy(params) {
		if len(p.Children()) == 0 {
			continue
		}
		name := p.Children()[0].Location()
		if !referencedIn(body, name) {
			missing = append(missing, p.Children()[0])
		}
	}
	if len(missing) == 0 {
		return rewrite.Keep()
	}

	prelude := make([]*ast.Node, 0, len(missing))
	for _, id := range missing {
		prelude = append(prelude, ast.New(lang.Expr,
			ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, id.Pos(), id.End()))))
	}
	newBody := ast.New(lang.Block, append(prelude, childrenCopy(body)...)...)
	children[4] = newBody
	return rewrite.ReplaceWith(ast.New(lang.Function, children...))
}

func referencedIn(n *ast.Node, name string) bool {
	if n.Kind() == lang.RefLet && len(n.Children()) == 1 && n.Children()[0].Location() == name {
		return true
	}
	// The reference pass retags the identifier itself, leaving a childless
	// RefLet whose own span is the name.
	if n.Kind() == lang.RefLet && len(n.Children()) == 0 && n.Pos().Text(n.End()) == name {
		return true
	}
	for _, c := range n.Children() {
		if referencedIn(c, name) {
			return true
		}
	}
	return false
}

func wfRefParams() *ast.Schema {
	return ast.NewSchema("refparams", wfANF())
}
