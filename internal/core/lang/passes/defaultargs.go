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

// DefaultArgs builds the "defaultargs" pass: a function whose trailing k
// parameters carry a default value is split into k+1 overloads sharing one
// name — one per arity from (n-k) to n params — each shorter overload
// forwarding to the next by calling it with its own parameters plus the
// first omitted default's expression supplied explicitly. Only the final, full-arity overload
// keeps the real body. Defaults must be a suffix of the parameter list; a
// default followed by a non-default parameter is an error.
func DefaultArgs() rewrite.Pass {
	return rewrite.Pass{
		Name: "defaultargs",
		Dir:  rewrite.BottomUp,
		Once: true,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Function), Action: expandDefaults},
		},
		Schema: wfDefaultArgs(),
	}
}

func expandDefaults(m *rewrite.Match) rewrite.Replacement {
	fn := m.Node
	children := childrenCopy(fn)
	if len(children) != 5 {
		return rewrite.Keep()
	}
	name, typeParams, params, retType, body := children[0], children[1], children[2], children[3], children[4]
	paramList := childrenCopy(params)

	firstDefault := -1
	for i, p := range paramList {
		if len(p.Children()) == 3 {
			if firstDefault < 0 {
				firstDefault = i
			}
		} else if firstDefault >= 0 {
			return rewrite.Fail(errors.Newf(p.Pos(), errors.Structural,
				"default parameters must be a suffix of the parameter list"), fn)
		}
	}
	if firstDefault < 0 {
		return rewrite.Keep()
	}

	n := len(paramList)

	// Snapshot every parameter's ident, type, and (if present) default
	// expression before building anything. A node can only ever have one
	// parent: idents[i]/types[i] are referenced by every overload with more
	// than i parameters, so the shorter overloads work from clones and only
	// the full-arity overload takes the live nodes; each default expression
	// is cloned into the one forwarding call that supplies it. Reusing a
	// node directly would silently steal it out of whichever overload
	// claimed it first.
	idents := make([]*ast.Node, n)
	types := make([]*ast.Node, n)
	defaults := make([]*ast.Node, n)
	for i, p := range paramList {
		c := p.Children()
		idents[i], types[i] = c[0], c[1]
		if len(c) == 3 {
			defaults[i] = c[2]
		}
	}

	var overloads []*ast.Node
	for arity := firstDefault; arity < n; arity++ {
		bareParams := make([]*ast.Node, arity)
		for i := 0; i < arity; i++ {
			bareParams[i] = ast.New(lang.Param, idents[i].Clone(), types[i].Clone())
		}
		overloadParams := ast.New(lang.Params, bareParams...)

		args := ast.New(lang.Args)
		for i := 0; i < arity; i++ {
			id := bareParams[i].Children()[0]
			args.Append(ast.New(lang.RefLet, ast.NewLeaf(lang.Ident, id.Pos(), id.End())))
		}
		args.Append(defaults[arity].Clone())

		forward := ast.New(lang.Block, ast.New(lang.Expr, ast.New(lang.Call,
			ast.New(lang.Selector, ast.NewLeaf(lang.Ident, name.Pos(), name.End())), args)))
		overloads = append(overloads, ast.New(lang.Function,
			ast.NewLeaf(lang.Ident, name.Pos(), name.End()),
			ast.New(lang.TypeParams), overloadParams,
			ast.New(lang.TypeVar), forward))
	}

	fullParams := make([]*ast.Node, n)
	for i := range fullParams {
		fullParams[i] = ast.New(lang.Param, idents[i], types[i])
	}
	full := ast.New(lang.Function, name, typeParams, ast.New(lang.Params, fullParams...), retType, body)
	overloads = append(overloads, full)
	return rewrite.SpliceSeq(overloads...)
}

func wfDefaultArgs() *ast.Schema {
	s := ast.NewSchema("defaultargs", wfLambda())
	s.Undefine(lang.Param)
	s.Define(lang.Param,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "type", Kinds: typeResultKinds, Arity: ast.Exactly1},
	)
	return s
}
