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

// Structure builds the "structure" pass: classifies each
// loosely-parsed Group into the definition kind its leading keyword
// spelling names (class/trait/type/fun/let/var), or — inside a Params or
// TypeParams list, where there is no leading keyword — into a Param or
// TypeParam. A trailing `Equals` child on any of these carries the
// default-value body captured from its `= …` tail, consumed here into the
// definition's own children rather than left as a sibling.
func Structure() rewrite.Pass {
	return rewrite.Pass{
		Name: "structure",
		Dir:  rewrite.TopDown,
		Rules: []rewrite.Rule{
			{Pattern: rewrite.T(lang.Group), Action: classifyGroup},
			{Pattern: rewrite.T(lang.Paren), Action: classifyParen},
		},
		Schema: wfStructure(),
	}
}

func classifyGroup(m *rewrite.Match) rewrite.Replacement {
	g := m.Node
	children := childrenCopy(g)
	if len(children) == 0 {
		return rewrite.Delete()
	}

	if g.Parent() != nil && g.Parent().Kind() == lang.Params {
		return rewrite.ReplaceWith(buildParam(g, children))
	}
	if g.Parent() != nil && g.Parent().Kind() == lang.TypeParams {
		return rewrite.ReplaceWith(buildTypeParam(g, children))
	}

	head := children[0]
	if head.Kind() == lang.Ident {
		switch head.Location() {
		case "class":
			return rewrite.ReplaceWith(buildClassLike(lang.Class, g, children[1:]))
		case "trait":
			return rewrite.ReplaceWith(buildClassLike(lang.TypeTrait, g, children[1:]))
		case "type":
			return rewrite.ReplaceWith(buildTypeAlias(g, children[1:]))
		case "fun":
			return rewrite.ReplaceWith(buildFunction(g, children[1:]))
		case "let":
			kind := lang.Let
			if inClassBody(g) {
				kind = lang.FieldLet
			}
			return rewrite.ReplaceWith(buildBinding(kind, g, children[1:]))
		case "var":
			kind := lang.Var
			if inClassBody(g) {
				kind = lang.FieldVar
			}
			return rewrite.ReplaceWith(buildBinding(kind, g, children[1:]))
		case "if":
			return rewrite.ReplaceWith(buildConditional(children[1:]))
		}
	}
	// Not a keyword-introduced definition: this Group is an ordinary
	// expression statement (or the `= expr` Equals-tail, or a parenthesised
	// sub-expression), so it becomes an Expr wrapper with the same
	// children — the shape every later expression pass (reference onward)
	// matches against.
	return rewrite.ReplaceWith(ast.New(lang.Expr, children...))
}

// buildConditional assembles an `if cond { ... } [else { ... }]` Group's
// tail into a Conditional(cond, thenBlock[, elseBlock]): everything up to
// the first Brace is the condition, that Brace is the then-branch, and an
// `else` keyword followed by a second Brace supplies the else-branch.
func buildConditional(rest []*ast.Node) *ast.Node {
	i := 0
	for i < len(rest) && rest[i].Kind() != lang.Brace {
		i++
	}
	cond := ast.New(lang.Expr, rest[:i]...)
	thenBody := ast.New(lang.Block)
	if i < len(rest) {
		thenBody = ast.New(lang.Block, childrenCopy(rest[i])...)
		i++
	}
	if i < len(rest) && rest[i].Kind() == lang.Ident && rest[i].Location() == "else" {
		i++
		if i < len(rest) && rest[i].Kind() == lang.Brace {
			return ast.New(lang.Conditional, cond, thenBody, ast.New(lang.Block, childrenCopy(rest[i])...))
		}
	}
	return ast.New(lang.Conditional, cond, thenBody)
}

// classifyParen fires on a Paren left over once its owning Group has been
// classified — the parameter-list Paren of a `fun`/class member never
// reaches here, since buildFunction consumes it directly inside the same
// Group rewrite. What remains is always an expression-position
// parenthesized term: empty parens are Unit, a single element is just that
// element's Expr, and two or more comma-separated elements become a Tuple.
func classifyParen(m *rewrite.Match) rewrite.Replacement {
	elems := childrenCopy(m.Node)
	switch len(elems) {
	case 0:
		return rewrite.ReplaceWith(ast.New(lang.Unit))
	case 1:
		return rewrite.ReplaceWith(ast.New(lang.Expr, childrenCopy(elems[0])...))
	default:
		parts := make([]*ast.Node, len(elems))
		for i, g := range elems {
			parts[i] = ast.New(lang.Expr, childrenCopy(g)...)
		}
		return rewrite.ReplaceWith(ast.New(lang.Tuple, parts...))
	}
}

func inClassBody(g *ast.Node) bool {
	p := g.Parent()
	if p == nil || p.Kind() != lang.Block {
		return false
	}
	gp := p.Parent()
	return gp != nil && gp.Kind().In(lang.Class, lang.TypeTrait)
}

// splitDefault peels a trailing `Equals` child (the `= expr` tail) off
// rest, returning the remaining children and the default body, if any.
func splitDefault(rest []*ast.Node) ([]*ast.Node, *ast.Node) {
	if len(rest) == 0 {
		return rest, nil
	}
	last := rest[len(rest)-1]
	if last.Kind() != lang.Equals {
		return rest, nil
	}
	var body *ast.Node
	if c := last.Children(); len(c) > 0 {
		body = c[0]
	}
	return rest[:len(rest)-1], body
}

func buildClassLike(k ast.Kind, g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(k)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	tp, rest := takeTypeParams(rest)
	out.Append(tp)
	body := takeBody(rest)
	out.Append(body)
	return out
}

func buildTypeAlias(g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(lang.TypeAlias)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	tp, rest := takeTypeParams(rest)
	out.Append(tp)
	_, def := splitDefault(rest)
	out.Append(wrapType(def))
	return out
}

func buildFunction(g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(lang.Function)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	tp, rest := takeTypeParams(rest)
	out.Append(tp)
	params := firstChildOfKindList(rest, lang.Paren, lang.Square)
	if params != nil {
		params = ast.New(lang.Params, childrenCopy(params)...)
	} else {
		params = ast.New(lang.Params)
	}
	out.Append(params)
	rest = removeFirstOfKinds(rest, lang.Paren, lang.Square)
	var retType *ast.Node
	rest, retType = takeColonType(rest)
	out.Append(wrapType(retType))
	body := takeBody(rest)
	out.Append(body)
	return out
}

func buildBinding(k ast.Kind, g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(k)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	var ty *ast.Node
	rest, ty = takeColonType(rest)
	out.Append(wrapType(ty))
	_, def := splitDefault(rest)
	if def != nil {
		out.Append(def)
	}
	return out
}

func buildParam(g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(lang.Param)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	var ty *ast.Node
	rest, ty = takeColonType(rest)
	out.Append(wrapType(ty))
	_, def := splitDefault(rest)
	if def != nil {
		out.Append(def)
	}
	return out
}

func buildTypeParam(g *ast.Node, rest []*ast.Node) *ast.Node {
	out := ast.New(lang.TypeParam)
	name, rest := takeIdent(g, rest)
	out.Append(name)
	var bound *ast.Node
	rest, bound = takeColonType(rest)
	out.Append(wrapType(bound))
	_, def := splitDefault(rest)
	if def != nil {
		out.Append(def)
	}
	return out
}

func takeIdent(g *ast.Node, rest []*ast.Node) (*ast.Node, []*ast.Node) {
	if len(rest) > 0 && rest[0].Kind() == lang.Ident {
		return rest[0], rest[1:]
	}
	return ast.NewLeaf(lang.Ident, g.Pos(), g.Pos()), rest
}

func takeTypeParams(rest []*ast.Node) (*ast.Node, []*ast.Node) {
	if len(rest) > 0 && rest[0].Kind() == lang.Square {
		return ast.New(lang.TypeParams, childrenCopy(rest[0])...), rest[1:]
	}
	return ast.New(lang.TypeParams), rest
}

// takeColonType looks for a leading `Symbol(":")` child and, if found,
// consumes every following child up to (but excluding) a trailing `=`
// default tail or `{ ... }` function body, wrapping that whole span in one
// Group so a multi-token type phrase like `A.B` or `C & D` survives intact
// for the type-precedence passes to fold later. The trailing Equals/Brace,
// if any, is handed back in the returned rest so the caller's own
// splitDefault/takeBody still sees it.
func takeColonType(rest []*ast.Node) ([]*ast.Node, *ast.Node) {
	if len(rest) == 0 || rest[0].Kind() != lang.Symbol || rest[0].Location() != ":" {
		return rest, nil
	}
	afterColon := rest[1:]
	if n := len(afterColon); n > 0 && afterColon[n-1].Kind().In(lang.Equals, lang.Brace) {
		return afterColon[n-1:], ast.New(lang.Group, afterColon[:n-1]...)
	}
	return nil, ast.New(lang.Group, afterColon...)
}

// wrapType wraps t in a Type node. If t is itself a Group (the span
// takeColonType or a default-value tail produced), its children are
// flattened directly into the Type node so the type-precedence passes see
// them as Type's own children rather than hidden one level down.
func wrapType(t *ast.Node) *ast.Node {
	if t == nil || (t.Kind() == lang.Group && len(t.Children()) == 0) {
		return ast.New(lang.Type, ast.New(lang.TypeUnit))
	}
	if t.Kind() == lang.Group {
		return ast.New(lang.Type, childrenCopy(t)...)
	}
	return ast.New(lang.Type, t)
}

func takeBody(rest []*ast.Node) *ast.Node {
	if len(rest) > 0 && rest[0].Kind() == lang.Brace {
		return ast.New(lang.Block, childrenCopy(rest[0])...)
	}
	return ast.New(lang.Block)
}

func firstChildOfKindList(nodes []*ast.Node, ks ...ast.Kind) *ast.Node {
	for _, n := range nodes {
		if n.Kind().In(ks...) {
			return n
		}
	}
	return nil
}

func removeFirstOfKinds(nodes []*ast.Node, ks ...ast.Kind) []*ast.Node {
	out := make([]*ast.Node, 0, len(nodes))
	removed := false
	for _, n := range nodes {
		if !removed && n.Kind().In(ks...) {
			removed = true
			continue
		}
		out = append(out, n)
	}
	return out
}

func wfStructure() *ast.Schema {
	s := ast.NewSchema("structure", wfModules())
	s.Undefine(lang.Class)
	s.Define(lang.Class,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "body", Kinds: []ast.Kind{lang.Block}, Arity: ast.Exactly1},
	)
	s.Define(lang.TypeTrait,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "body", Kinds: []ast.Kind{lang.Block}, Arity: ast.Exactly1},
	)
	s.Define(lang.TypeAlias,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "type", Kinds: []ast.Kind{lang.Type}, Arity: ast.Exactly1},
	)
	s.Define(lang.Function,
		ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
		ast.Field{Name: "typeparams", Kinds: []ast.Kind{lang.TypeParams}, Arity: ast.Exactly1},
		ast.Field{Name: "params", Kinds: []ast.Kind{lang.Params}, Arity: ast.Exactly1},
		ast.Field{Name: "ret", Kinds: []ast.Kind{lang.Type}, Arity: ast.Exactly1},
		ast.Field{Name: "body", Kinds: []ast.Kind{lang.Block}, Arity: ast.Exactly1},
	)
	for _, k := range []ast.Kind{lang.Let, lang.Var, lang.FieldLet, lang.FieldVar, lang.Param, lang.TypeParam} {
		s.Define(k,
			ast.Field{Name: "name", Kinds: []ast.Kind{lang.Ident}, Arity: ast.Exactly1},
			ast.Field{Name: "type", Kinds: []ast.Kind{lang.Type}, Arity: ast.Exactly1},
			ast.Field{Name: "default", Kinds: []ast.Kind{lang.Group, lang.Expr}, Arity: ast.ZeroOrOne},
		)
	}
	s.Define(lang.Params,
		ast.Field{Name: "params", Kinds: []ast.Kind{lang.Param}, Arity: ast.Repeated(0)},
	)
	s.Define(lang.TypeParams,
		ast.Field{Name: "params", Kinds: []ast.Kind{lang.TypeParam}, Arity: ast.Repeated(0)},
	)
	return s
}
