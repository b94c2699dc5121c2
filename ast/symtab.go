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

// SymTab maps a location's spelling to the ordered list of nodes bound at
// that name within its owning scope. Every symtab-capable node owns exactly
// one.
type SymTab struct {
	owner *Node
	table map[string][]*Node
}

func newSymTab(owner *Node) *SymTab {
	return &SymTab{owner: owner, table: map[string][]*Node{}}
}

// Owner returns the node this table belongs to.
func (t *SymTab) Owner() *Node { return t.owner }

// definitionKinds lists the kinds that contribute a binding when appended
// under a symtab-owning node: class/trait/alias/function/param/type-param
// definitions and the statement-level let/var/bind forms.
// The dialect package populates this via RegisterBinder so ast stays
// dialect-agnostic.
var definitionKinds = map[Kind]bool{}

// RegisterBinder marks k as a kind that introduces a binding when it (or an
// identifier child carrying its name) appears under a symtab owner. Called
// once per kind from the dialect package's init.
func RegisterBinder(k Kind) { definitionKinds[k] = true }

// lookdownContainers lists kinds whose externally-visible members are
// bound one layer down, in a single Symtab-capable child holding the
// member list (e.g. a class whose body is a Block), rather than directly
// in the kind's own table. Populated via RegisterLookdownContainer.
var lookdownContainers = map[Kind]bool{}

// RegisterLookdownContainer marks k as a kind whose Lookdown target is its
// single Symtab-capable child, not its own table. Called once per kind
// from the dialect package's init, alongside RegisterBinder.
func RegisterLookdownContainer(k Kind) { lookdownContainers[k] = true }

// memberTable returns the table LookdownNames/LookdownAll search for
// owner: its own table, unless owner is a registered lookdown container,
// in which case it is the table of owner's own Symtab-capable child (its
// member-holding body), since that child — not owner itself — is where
// Append actually registered the members (Node.bind walks to the nearest
// Symtab-capable node starting at the append receiver, which stops at that
// child before ever reaching owner).
func memberTable(owner *Node) *SymTab {
	if lookdownContainers[owner.kind] {
		for _, c := range owner.children {
			if c.kind.Has(Symtab) {
				return c.SymTab()
			}
		}
		return nil
	}
	return owner.SymTab()
}

// bindingName extracts the spelling a definition node binds, by finding its
// first Print-capability child (the defining identifier), per the
// convention that every definition's first positional child is its name.
func bindingName(n *Node) (string, bool) {
	if !definitionKinds[n.kind] {
		return "", false
	}
	if n.kind.Has(Print) {
		return n.Location(), true
	}
	for _, c := range n.children {
		if c.kind.Has(Print) {
			return c.Location(), true
		}
	}
	return "", false
}

func (t *SymTab) add(n *Node) {
	name, ok := bindingName(n)
	if !ok {
		return
	}
	t.table[name] = append(t.table[name], n)
}

func (t *SymTab) remove(n *Node) {
	name, ok := bindingName(n)
	if !ok {
		return
	}
	list := t.table[name]
	for i, x := range list {
		if x == n {
			t.table[name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Bound returns the nodes bound at name directly in this scope layer, in
// the order they were added.
func (t *SymTab) Bound(name string) []*Node {
	return t.table[name]
}

// CheckCollision reports an error if adding a binding named `name` at `at`
// would collide with an existing one in this scope that doesn't carry the
// Shadowing capability: collisions within one scope, without shadowing,
// are errors.
func (t *SymTab) CheckCollision(name string, candidateKind Kind, at *Node) errors.Error {
	if candidateKind.Has(Shadowing) {
		return nil
	}
	existing := t.table[name]
	if len(existing) == 0 {
		return nil
	}
	for _, e := range existing {
		if e.kind.Has(Shadowing) {
			continue
		}
		return errors.Newf(at.Pos(), errors.Structural,
			"%q is already defined in this scope", name)
	}
	return nil
}

// LookupUpward resolves an identifier by walking symbol tables outward
// starting at id's containing scope: each layer is checked in turn,
// nearest first, and the first layer with any binding
// for the name wins (no further outward search, matching ordinary lexical
// shadowing).
func LookupUpward(id *Node, name string) []*Node {
	for t := id.nearestSymTab(); t != nil; t = outerOf(t) {
		if list := t.table[name]; len(list) > 0 {
			return list
		}
	}
	return nil
}

func outerOf(t *SymTab) *SymTab {
	if t.owner == nil || t.owner.parent == nil {
		return nil
	}
	return t.owner.parent.nearestSymTab()
}

// LookdownNames returns the nodes bound at name directly within owner's
// member table (see memberTable): lookdown searches only within that
// definition's scope.
// owner must carry the Symtab capability.
func LookdownNames(owner *Node, name string) []*Node {
	t := memberTable(owner)
	if t == nil {
		return nil
	}
	return t.table[name]
}

// LookdownAll returns every node bound directly within owner's member
// table (see memberTable), across all names. Used where a caller needs to enumerate a
// definition's full member set rather than resolve one name — e.g.
// checking that every member a trait requires is present on a candidate
// implementor.
func LookdownAll(owner *Node) []*Node {
	t := memberTable(owner)
	if t == nil {
		return nil
	}
	var all []*Node
	for _, list := range t.table {
		all = append(all, list...)
	}
	return all
}
