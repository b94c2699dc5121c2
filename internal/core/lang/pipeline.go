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

package lang

import (
	"github.com/project-verona/verona-go/internal/core/lang/passes"
	"github.com/project-verona/verona-go/internal/core/rewrite"
)

// Pipeline returns the twenty named passes in their
// fixed run order: lexer tokens through `modules`/`structure`, the six
// type-shaping passes, the expression passes, statement lowering, closure
// conversion, default-argument expansion, ANF, and finally the
// liveness-derived move/drop passes. rewrite.Pipeline runs exactly this
// slice, stopping early on the first pass that leaves an Error node or
// fails its own WF schema.
func Pipeline() []rewrite.Pass {
	return []rewrite.Pass{
		passes.Modules(),
		passes.Structure(),
		passes.TypeView(),
		passes.TypeFunc(),
		passes.TypeThrow(),
		passes.TypeAlg(),
		passes.TypeFlat(),
		passes.TypeDNF(),
		passes.Reference(),
		passes.ReverseApp(),
		passes.Application(),
		passes.AssignLHS(),
		passes.LocalVar(),
		passes.Assignment(),
		passes.Lambda(),
		passes.DefaultArgs(),
		passes.ANF(),
		passes.RefParams(),
		passes.Drop(),
		passes.CondDrop(),
	}
}

// PassNames returns the name of each pass in Pipeline, in order, for CLI
// flag validation (`--pass=<name>`) and listing.
func PassNames() []string {
	ps := Pipeline()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
