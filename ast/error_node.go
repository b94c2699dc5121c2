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

package ast

import "github.com/project-verona/verona-go/errors"

// ErrorKind is the one engine-level kind that isn't dialect-specific: a
// rule that notices a malformed construct replaces it with an ErrorKind
// node wrapping the diagnostic. It carries no capabilities of its own; it
// is deliberately inert so that no WF production ever has to special-case
// admitting it — an Error node present after a pass is exactly the
// condition that halts the pipeline.
var ErrorKind = NewKind("Error", 0)

// NewError builds an Error node wrapping err, with fragment kept as the
// single child for source-span reporting.
func NewError(err errors.Error, fragment *Node) *Node {
	n := New(ErrorKind)
	if fragment != nil {
		n.Append(fragment)
		n.start, n.end = fragment.start, fragment.end
	}
	n.err = err
	return n
}

// AsError returns the wrapped diagnostic and whether n is an Error node.
func AsError(n *Node) (errors.Error, bool) {
	if n.kind != ErrorKind || n.err == nil {
		return nil, false
	}
	return n.err, true
}

// CollectErrors walks root and returns every wrapped diagnostic found,
// in tree order. An empty result means root is free of Error nodes and the
// pipeline may proceed to the next pass.
func CollectErrors(root *Node) []errors.Error {
	var out []errors.Error
	var walk func(n *Node)
	walk = func(n *Node) {
		if err, ok := AsError(n); ok {
			out = append(out, err)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return out
}
