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

package rewrite

import "github.com/project-verona/verona-go/ast"

// StepResult records the outcome of running a single named pass.
type StepResult struct {
	Pass   string
	Root   *ast.Node
	Errors []string // user diagnostics collected from ast.Error nodes
	WFBugs []string // WF validation failures; non-empty is a compiler bug
}

// Pipeline runs an ordered list of passes over root, stopping after the
// first pass that leaves any ast.Error node in the tree — if any Error
// nodes are present the pipeline surfaces them and stops — or whose output
// fails its own WF schema (a compiler-bug category, never user-facing, but
// still fatal to the run).
// len(results) < len(passes) iff the pipeline stopped early.
func Pipeline(root *ast.Node, passes []Pass) []StepResult {
	var results []StepResult
	cur := root
	for _, p := range passes {
		cur = Run(cur, p)

		var userErrs []string
		for _, e := range ast.CollectErrors(cur) {
			userErrs = append(userErrs, e.Error())
		}

		var wfBugs []string
		for _, e := range p.Schema.Validate(cur).Errors() {
			wfBugs = append(wfBugs, e.Error())
		}

		results = append(results, StepResult{
			Pass:   p.Name,
			Root:   cur,
			Errors: userErrs,
			WFBugs: wfBugs,
		})

		if len(wfBugs) > 0 || len(userErrs) > 0 {
			break
		}
	}
	return results
}
