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

// worklistItem pairs a type node still to be unwound with the alias-set
// visited to reach it and the type-parameter bindings accumulated so far on
// that particular path.
type worklistItem struct {
	visited  map[*ast.Node]bool
	node     *ast.Node
	bindings Bindings
}

// Recursive reports whether alias (a TypeAlias definition) transitively
// expands into itself, directly or through other aliases it mentions: a
// type alias must not be recursive. Non-alias nodes always return false.
//
// This mirrors lookup_recursive's breadth-first worklist rather than a
// simple recursive walk: tuple/union/isect/view nodes fan out into several
// independent paths, and type-parameter bindings picked up resolving one
// alias name must flow into that alias's own expansion without being seen
// by sibling paths.
func Recursive(alias *ast.Node) bool {
	if alias.Kind() != lang.TypeAlias {
		return false
	}

	start := map[*ast.Node]bool{alias: true}
	worklist := []worklistItem{{visited: start, node: aliasTarget(alias), bindings: nil}}

	for len(worklist) > 0 {
		work := worklist[0]
		worklist = worklist[1:]
		node, visited, bindings := work.node, work.visited, work.bindings

		switch node.Kind() {
		case lang.Type:
			worklist = append(worklist, worklistItem{visited, node.Children()[0], bindings})

		case lang.TypeTuple, lang.TypeUnion, lang.TypeIsect, lang.TypeView:
			for _, c := range node.Children() {
				worklist = append(worklist, worklistItem{visited, c, bindings})
			}

		case lang.TypeName:
			results := LookupScopedName(node)
			if len(results) == 0 {
				continue
			}
			def := results[0]
			if def.Def.Kind() != lang.TypeAlias {
				continue
			}
			if visited[def.Def] {
				return true
			}
			nextVisited := make(map[*ast.Node]bool, len(visited)+1)
			for k := range visited {
				nextVisited[k] = true
			}
			nextVisited[def.Def] = true
			worklist = append(worklist, worklistItem{
				nextVisited,
				aliasTarget(def.Def),
				mergeBindings(bindings, def.Bindings),
			})

		case lang.TypeParam:
			if bound, ok := bindings[node]; ok {
				worklist = append(worklist, worklistItem{visited, bound, bindings})
			}
		}
	}

	return false
}
