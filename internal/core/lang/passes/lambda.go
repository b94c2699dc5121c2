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

// Lambda builds the "lambda" pass: bottom-up closure
// conversion. Bottom-up traversal already guarantees that by the time a
// given Lambda is visited, every nested Lambda inside its body has already
// been converted into a create-call site — so finding this lambda's free
// variables only requires scanning its own (already-simplified) subtree,
// with no separate free-variable stack needed.
//
// On conversion the pass emits a closure class, appended directly to the
// body Block of the nearest enclosing Class (or to that Class itself when it
// has no Block), holding: a field per free variable, a `create` function capturing
// them, and an `apply` method holding the lambda body prefixed with local
// rebindings of each capture. The lambda site itself becomes a call to
// `create`.
func Lambda() rewrite.Pass {
	return rewrite.Pass{
		Name: "lambda",
		Dir:  rewrite.BottomUp,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Lambda), Action: convertLambda},
		},
		Schema: wfLambda(),
	}
}

const (
	applySelector  = "apply"
	createSelector = "create"
	selfParam      = "self"
)

func convertLambda(m *rewrite.Match) rewrite.Replacement {
	lam := m.Node
	children := childrenCopy(lam)
	if len(children) != 4 {
		return rewrite.Keep()
	}
	typeParams, params, retType, body := children[0], children[1], children[2], children[3]

	freeVars := freeVariables(lam)

	className := freshName("Closure")
	cls := ast.New(lang.Class, className, ast.New(lang.TypeParams))
	clsBody := ast.New(lang.Block)

	createParams := ast.New(lang.Params)
	for _, fv := range freeVars {
		clsBody.Append(ast.New(lang.FieldLet,
			ast.NewLeaf(lang.Ident, fv.Pos(), fv.End()),
			ast.New(lang.Type, ast.New(lang.TypeVar))))
		createParams.Append(ast.New(lang.Param,
			ast.NewLeaf(lang.Ident, fv.Pos(), fv.End()),
			ast.New(lang.Type, ast.New(lang.TypeVar))))
	}

	createBody := ast.New(lang.Block)
	allocArgs := ast.New(lang.Args)
	for _, fv := range freeVars {
		allocArgs.Append(ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, fv.Pos(), fv.End())))
	}
	createBody.Append(ast.New(lang.Expr, ast.New(lang.Call,
		ast.New(lang.Selector, syntheticIdent("alloc")), allocArgs)))
	createFn := ast.New(lang.Function,
		syntheticIdent(createSelector), ast.New(lang.TypeParams),
		createParams, ast.New(lang.Type, ast.New(lang.TypeVar)), createBody)
	clsBody.Append(createFn)

	applyParams := ast.New(lang.Params,
		ast.New(lang.Param, syntheticIdent(selfParam), ast.New(lang.Type, ast.New(lang.TypeVar))))
	for _, c := range childrenCopy(params) {
		applyParams.Append(c)
	}
	applyBody := ast.New(lang.Block)
	for _, fv := range freeVars {
		// Emitted directly as Bind+Assign (the shape the assignment pass
		// would have produced from `let fv = self.fv`) since lambda runs
		// after assignment in the pipeline and a bare Let here would never
		// get split.
		applyBody.Append(ast.New(lang.Bind,
			ast.NewLeaf(lang.Ident, fv.Pos(), fv.End()),
			ast.New(lang.Type, ast.New(lang.TypeVar))))
		applyBody.Append(ast.New(lang.Assign,
			ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, fv.Pos(), fv.End())),
			ast.New(lang.Call,
				ast.New(lang.Selector, ast.NewLeaf(lang.Ident, fv.Pos(), fv.End())),
				ast.New(lang.Args, ast.New(lang.RefLet, syntheticIdent(selfParam))))))
	}
	for _, stmt := range childrenCopy(body) {
		applyBody.Append(stmt)
	}
	applyFn := ast.New(lang.Function,
		syntheticIdent(applySelector), typeParams, applyParams, retType, applyBody)
	clsBody.Append(applyFn)

	cls.Append(clsBody)

	if anc := lam.AncestorOfKind(lang.Class); anc != nil {
		if body := firstChildOfKind(anc, lang.Block); body != nil {
			body.Append(cls)
		} else {
			anc.Append(cls)
		}
	}

	createArgs := ast.New(lang.Args)
	for _, fv := range freeVars {
		createArgs.Append(ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, fv.Pos(), fv.End())))
	}
	call := ast.New(lang.Call, ast.New(lang.Selector, ast.NewLeaf(lang.Ident, className.Pos(), className.End())), createArgs)
	return rewrite.ReplaceWith(call)
}

// freeVariables returns every distinct name referenced by a RefLet inside
// lam whose binding lies outside lam's own subtree.
func freeVariables(lam *ast.Node) []*ast.Node {
	seen := map[string]bool{}
	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Kind() == lang.RefLet && len(n.Children()) == 1 {
			id := n.Children()[0]
			name := id.Location()
			if !seen[name] && !boundWithin(lam, id, name) {
				seen[name] = true
				out = append(out, id)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(lam)
	return out
}

// boundWithin reports whether id's nearest binding for name is a
// descendant of (or lam itself).
func boundWithin(lam, id *ast.Node, name string) bool {
	defs := ast.LookupUpward(id, name)
	if len(defs) == 0 {
		return false
	}
	for anc := defs[0]; anc != nil; anc = anc.Parent() {
		if anc == lam {
			return true
		}
	}
	return false
}

func wfLambda() *ast.Schema {
	s := ast.NewSchema("lambda", wfAssignment())
	s.Undefine(lang.Lambda)
	return s
}
