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

package lookup

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
)

// typeParamsOf returns the formal TypeParam list declared on a Class,
// TypeAlias, or Function definition, in declaration order.
func typeParamsOf(def *ast.Node) []*ast.Node {
	for _, c := range def.Children() {
		if c.Kind() == lang.TypeParams {
			return c.Children()
		}
	}
	return nil
}

// typeArgsOf returns the type nodes supplied in a TypeArgs node, or nil for
// a nil/absent one.
func typeArgsOf(ta *ast.Node) []*ast.Node {
	if ta == nil {
		return nil
	}
	return ta.Children()
}

// freshTypeVar allocates a new, distinct type variable standing in for a
// type parameter left unbound at a use site: remaining typeparams bind to
// fresh type variables. Go pointer identity already makes every node
// returned here unique, so no synthetic name or counter is needed.
func freshTypeVar() *ast.Node {
	return ast.New(lang.TypeVar)
}

// bind constructs a Result for def, binding its formal type parameters (if
// any) against the supplied type arguments ta, layered over outer — the
// bindings already in scope from however def was reached. Too many type
// arguments is recorded as TooManyTypeArgs rather than an error here;
// callers that care about precise diagnostics check that field.
func bind(def *ast.Node, ta *ast.Node, outer Bindings) Result {
	if !def.Kind().In(lang.Class, lang.TypeAlias, lang.Function) {
		return Result{Def: def, Bindings: outer, TypeArgs: ta, TooManyTypeArgs: ta != nil}
	}
	if ta == nil {
		return Result{Def: def, Bindings: outer}
	}

	formals := typeParamsOf(def)
	args := typeArgsOf(ta)
	if len(formals) < len(args) {
		return Result{Def: def, Bindings: outer, TypeArgs: ta, TooManyTypeArgs: true}
	}

	bindings := make(Bindings, len(outer)+len(formals))
	for k, v := range outer {
		bindings[k] = v
	}
	for i, param := range formals {
		if i < len(args) {
			bindings[param] = args[i]
		} else {
			bindings[param] = freshTypeVar()
		}
	}
	return Result{Def: def, Bindings: bindings, TypeArgs: ta}
}
