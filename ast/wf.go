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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/project-verona/verona-go/errors"
)

// Arity bounds how many consecutive children a Field may consume. Max of -1
// means unbounded, giving the `x++[min]` repetition form.
type Arity struct {
	Min int
	Max int
}

// Exactly1 is the arity of a single mandatory child.
var Exactly1 = Arity{Min: 1, Max: 1}

// ZeroOrOne is the arity of an optional single child.
var ZeroOrOne = Arity{Min: 0, Max: 1}

// Repeated returns the `x++[min]` arity: at least min, unbounded above.
func Repeated(min int) Arity { return Arity{Min: min, Max: -1} }

// Field names one positional slot in a Production: the kinds a child in
// that slot may have, its arity, and the name other passes address it by.
type Field struct {
	Name  string
	Kinds []Kind
	Arity Arity
}

func (f Field) matches(k Kind) bool {
	for _, want := range f.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

func (f Field) describe() string {
	names := make([]string, len(f.Kinds))
	for i, k := range f.Kinds {
		names[i] = k.String()
	}
	shape := strings.Join(names, "/")
	switch {
	case f.Arity == Exactly1:
		return shape
	case f.Arity == ZeroOrOne:
		return shape + "?"
	case f.Arity.Max < 0:
		return fmt.Sprintf("%s++[%d]", shape, f.Arity.Min)
	default:
		return fmt.Sprintf("%s{%d,%d}", shape, f.Arity.Min, f.Arity.Max)
	}
}

// Production is the allowed child sequence for one Kind: an ordered list of
// Fields, matched left to right, greedily, against the node's children.
type Production struct {
	Fields []Field
}

// Schema is a mapping from Kind to Production: the well-formedness contract
// a pass's output must satisfy. Schemas compose: NewSchema
// can start from a parent schema and Define overrides or adds productions
// on top of it, exactly as later passes extend earlier WF shapes.
type Schema struct {
	Name        string
	productions map[Kind]Production
}

// NewSchema creates a schema named name. If base is non-nil its productions
// are copied in first, so Define calls on the new schema only need to state
// what changed.
func NewSchema(name string, base *Schema) *Schema {
	s := &Schema{Name: name, productions: map[Kind]Production{}}
	if base != nil {
		for k, p := range base.productions {
			s.productions[k] = p
		}
	}
	return s
}

// Define sets (or overrides) the production for k.
func (s *Schema) Define(k Kind, fields ...Field) *Schema {
	s.productions[k] = Production{Fields: fields}
	return s
}

// Undefine removes k's production, e.g. when a later pass's schema no
// longer admits a kind from an earlier one: that kind is destroyed by the
// pass after which it is no longer valid.
func (s *Schema) Undefine(k Kind) *Schema {
	delete(s.productions, k)
	return s
}

// Production returns the rule registered for k and whether one exists.
func (s *Schema) Production(k Kind) (Production, bool) {
	p, ok := s.productions[k]
	return p, ok
}

// Validate walks the whole tree rooted at root and reports every node whose
// children don't satisfy its kind's production. A kind with no registered
// production is treated as opaque (childless-or-not, unchecked) — this is
// how dialect-external leaf kinds (e.g. raw identifiers) stay valid without
// every schema needing to mention them.
//
// A failure here is a compiler bug, not a user error: it means a pass
// produced a tree its own declared output schema rejects.
func (s *Schema) Validate(root *Node) *errors.List {
	var list errors.List
	var walk func(n *Node)
	walk = func(n *Node) {
		prod, ok := s.productions[n.kind]
		if ok {
			if err := matchProduction(n, prod); err != nil {
				list.Append(err)
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return &list
}

func matchProduction(n *Node, prod Production) errors.Error {
	children := n.children
	pos := 0
	for _, f := range prod.Fields {
		count := 0
		for pos < len(children) && f.matches(children[pos].kind) && (f.Arity.Max < 0 || count < f.Arity.Max) {
			pos++
			count++
		}
		if count < f.Arity.Min {
			return errors.Newf(n.Pos(), errors.Schema,
				"%s: field %q expects %s, got %d matching children at position %d",
				n.kind, f.Name, f.describe(), count, pos)
		}
	}
	if pos != len(children) {
		return errors.Newf(n.Pos(), errors.Schema,
			"%s: %d unexpected trailing child/children starting at position %d (kind %s)",
			n.kind, len(children)-pos, pos, children[pos].kind)
	}
	return nil
}

// Describe renders the schema as a human-readable grammar, one production
// per line, sorted by kind name for determinism. This backs the
// `cmd/veronac --pass=wf:<name>` debug dump.
func (s *Schema) Describe() string {
	names := make([]string, 0, len(s.productions))
	kinds := map[string]Kind{}
	for k := range s.productions {
		names = append(names, k.String())
		kinds[k.String()] = k
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		prod := s.productions[kinds[name]]
		fmt.Fprintf(&b, "%s ::=", name)
		for _, f := range prod.Fields {
			fmt.Fprintf(&b, " %s", f.describe())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
