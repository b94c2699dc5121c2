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

// Lookdown resolves name within candidate's own member scope, unwinding
// through type aliases, type parameters, views and qualified names along
// the way until a Class, TypeTrait, or Function is reached. It is exported
// for the reference/application passes, which look
// down into the static type of a receiver expression to resolve a field or
// method name.
func Lookdown(candidate Result, name string, ta *ast.Node) Results {
	return lookdown(candidate, name, ta, ast.NodeSet{})
}

func lookdownAll(candidates Results, name string, ta *ast.Node, visited ast.NodeSet) Results {
	var out Results
	for _, c := range candidates {
		out = append(out, lookdown(c, name, ta, visited)...)
	}
	return out
}

// lookdown is the state machine that keeps unwinding
// candidate.Def one step at a time until it lands on a member-scoped
// definition (success), a dead end (empty result), or a node already on
// this branch's visited set (cycle: empty result). Each branch forked by a
// TypeName/FunctionName resolving to several candidates gets its own copy
// of visited, so one branch's history never leaks into a sibling's.
func lookdown(candidate Result, name string, ta *ast.Node, visited ast.NodeSet) Results {
	def := candidate.Def
	bindings := candidate.Bindings

	for {
		if visited.Has(def) {
			return nil
		}
		visited = visited.Add(def)

		switch def.Kind() {
		case lang.Class, lang.TypeTrait, lang.Function:
			var out Results
			for _, member := range ast.LookdownNames(def, name) {
				out = append(out, bind(member, ta, bindings))
			}
			return out

		case lang.TypeAlias:
			def = aliasTarget(def)

		case lang.TypeParam:
			bound, ok := bindings[def]
			if !ok {
				return nil
			}
			def = bound

		case lang.Type:
			def = def.Children()[0]

		case lang.TypeName, lang.FunctionName:
			results := LookupScopedName(def)
			var out Results
			for _, r := range results {
				out = append(out, lookdown(Result{Def: r.Def, Bindings: mergeBindings(bindings, r.Bindings)}, name, ta, visited)...)
			}
			return out

		case lang.TypeView:
			def = def.Children()[len(def.Children())-1]

		case lang.TypeIsect:
			// TODO(lookdown): union the member sets found through every
			// conjunct instead of giving up.
			return nil

		case lang.TypeUnion:
			// TODO(lookdown): intersect the member sets so only members
			// common to every disjunct are returned.
			return nil

		case lang.TypeUnit, lang.TypeList, lang.TypeTuple, lang.TypeVar:
			return nil

		default:
			return nil
		}
	}
}

func aliasTarget(alias *ast.Node) *ast.Node {
	for _, c := range alias.Children() {
		if c.Kind() == lang.Type {
			return c
		}
	}
	return alias.Children()[len(alias.Children())-1]
}
