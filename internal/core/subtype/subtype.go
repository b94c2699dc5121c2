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

package subtype

import "github.com/project-verona/verona-go/ast"

// Subtype reports whether sub is a structural subtype of sup: sub can be
// used wherever sup is expected. Both are type nodes as
// they appear in the tree — a Type wrapper, a qualified name, a lattice
// combinator, or a bare definition reference — with no type-parameter
// bindings assumed in scope.
func Subtype(sub, sup *ast.Node) bool {
	return reduce(New(sub, nil), New(sup, nil))
}
