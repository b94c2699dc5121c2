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

// Modules builds the "modules" pass: every
// ModuleDir becomes a Class gathering the top-level content of its File
// children, so that a package with no explicit top-level `class` block
// still has a single definition the rest of the pipeline can attach
// members, lookdown, and subtyping to.
func Modules() rewrite.Pass {
	return rewrite.Pass{
		Name: "modules",
		Dir:  rewrite.BottomUp,
		Once: true,
		Rules: []rewrite.Rule{
			{
				Pattern: rewrite.T(lang.ModuleDir),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					dir := m.Node
					cls := ast.New(lang.Class)
					name := ast.NewLeaf(lang.Ident, dir.Pos(), dir.End())
					cls.Append(name)
					cls.Append(ast.New(lang.TypeParams))
					body := ast.New(lang.Block)
					for _, file := range childrenCopy(dir) {
						if file.Kind() != lang.File {
							body.Append(file)
							continue
						}
						for _, member := range childrenCopy(file) {
							body.Append(member)
						}
					}
					cls.Append(body)
					return rewrite.ReplaceWith(cls)
				},
			},
			{
				// A bare File with no enclosing ModuleDir (a single-file
				// compilation) gets the same implicit-Class treatment.
				Pattern: rewrite.T(lang.File),
				Action: func(m *rewrite.Match) rewrite.Replacement {
					file := m.Node
					if file.Parent() != nil {
						return rewrite.Keep()
					}
					cls := ast.New(lang.Class)
					cls.Append(ast.NewLeaf(lang.Ident, file.Pos(), file.End()))
					cls.Append(ast.New(lang.TypeParams))
					body := ast.New(lang.Block)
					for _, member := range childrenCopy(file) {
						body.Append(member)
					}
					cls.Append(body)
					return rewrite.ReplaceWith(cls)
				},
			},
		},
		Schema: wfModules(),
	}
}

func wfModules() *ast.Schema {
	s := ast.NewSchema("modules", nil)
	s.Define(lang.Class,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.ZeroOrOne},
		ast.Field{Name: "body", Kinds: []ast.Kind{lang.Block, lang.Group}, Arity: ast.Repeated(0)},
	)
	return s
}
