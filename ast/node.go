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
	"github.com/cockroachdb/apd/v3"
	"github.com/project-verona/verona-go/errors"
	"github.com/project-verona/verona-go/token"
)

// Node is the universal AST datum: a token (Kind), an ordered sequence of
// children, an optional location, an optional symbol table, and a
// non-owning parent back-reference.
//
// Node is always used through a *Node. Trees are built bottom-up with New
// and mutated in place by the rewrite engine; nothing here is safe for
// concurrent use by more than one goroutine, matching the single-threaded
// pipeline this package supports.
type Node struct {
	kind     Kind
	children []*Node
	parent   *Node

	start, end token.Pos

	symtab *SymTab

	// literal is non-nil only for Print-capability numeric literal nodes;
	// it holds the arbitrary-precision value so that later passes (and
	// default-argument / Error deduplication) never round-trip through a
	// float and lose precision, mirroring how internal/core/adt represents
	// every CUE number as an apd.Decimal.
	literal *apd.Decimal

	// err is non-nil only for ErrorKind nodes (see error_node.go).
	err errors.Error
}

// New creates a node of the given kind with the given children. Each child
// already in a tree is detached from its previous parent first.
func New(k Kind, children ...*Node) *Node {
	n := &Node{kind: k}
	n.children = append(n.children, children...)
	for _, c := range children {
		reparent(c, n)
	}
	return n
}

// NewLeaf creates a childless node spanning [start, end) in the source,
// typically an identifier, literal, or operator symbol (Print capability).
func NewLeaf(k Kind, start, end token.Pos) *Node {
	return &Node{kind: k, start: start, end: end}
}

// NewLiteral creates a Print-capability leaf carrying a precise numeric
// value alongside its source span.
func NewLiteral(k Kind, start, end token.Pos, value *apd.Decimal) *Node {
	n := NewLeaf(k, start, end)
	n.literal = value
	return n
}

func reparent(c, p *Node) {
	if c.parent != nil && c.parent != p {
		c.parent.removeChild(c)
	}
	c.parent = p
}

// Kind returns the node's token.
func (n *Node) Kind() Kind { return n.kind }

// Children returns the node's children. The returned slice must not be
// mutated by the caller; use Append/Replace/Remove instead.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the node's non-owning parent back-reference, or nil for a
// root or a freshly detached node.
func (n *Node) Parent() *Node { return n.parent }

// Pos returns the node's start position.
func (n *Node) Pos() token.Pos { return n.start }

// End returns the node's end position.
func (n *Node) End() token.Pos { return n.end }

// Literal returns the node's precise numeric value and whether it has one.
func (n *Node) Literal() (*apd.Decimal, bool) { return n.literal, n.literal != nil }

// Location returns the node's source slice. Two Locations compare equal by
// content, which is what gives identifiers structural equality across
// distinct nodes sharing the same spelling: SymTab keys on this string, not
// on node identity.
func (n *Node) Location() string {
	if !n.kind.Has(Print) {
		return ""
	}
	return n.start.Text(n.end)
}

// SymTab returns the symbol table owned by n, creating one lazily if n's
// kind carries the Symtab capability and none exists yet. It returns nil
// for a kind without that capability.
func (n *Node) SymTab() *SymTab {
	if !n.kind.Has(Symtab) {
		return nil
	}
	if n.symtab == nil {
		n.symtab = newSymTab(n)
	}
	return n.symtab
}

// Append adds children to the end of n's child list, reparenting them and
// registering any bindings they introduce in n's symbol table.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		reparent(c, n)
		n.children = append(n.children, c)
		n.bind(c)
	}
}

// Replace swaps old for new in n's children, preserving position. old must
// be a direct child of n.
func (n *Node) Replace(old, repl *Node) {
	for i, c := range n.children {
		if c == old {
			n.unbind(old)
			old.parent = nil
			reparent(repl, n)
			n.children[i] = repl
			n.bind(repl)
			return
		}
	}
}

// ReplaceSeq swaps old for the given sequence of replacement nodes,
// splicing them into old's position. Used by the engine for Seq
// replacements.
func (n *Node) ReplaceSeq(old *Node, repl []*Node) {
	for i, c := range n.children {
		if c != old {
			continue
		}
		n.unbind(old)
		old.parent = nil
		for _, r := range repl {
			reparent(r, n)
		}
		tail := append([]*Node(nil), n.children[i+1:]...)
		n.children = append(n.children[:i], repl...)
		n.children = append(n.children, tail...)
		for _, r := range repl {
			n.bind(r)
		}
		return
	}
}

// removeChild deletes a direct child (and, transitively, its contribution
// to every ancestor symbol table).
func (n *Node) removeChild(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.unbind(c)
			c.parent = nil
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			return
		}
	}
}

// Remove detaches n from its parent, releasing n's subtree.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

// bind registers c's contribution (if any) in the nearest enclosing symbol
// table, which is n's own table if n has one, else it walks up.
func (n *Node) bind(c *Node) {
	t := n.nearestSymTab()
	if t != nil {
		t.add(c)
	}
}

func (n *Node) unbind(c *Node) {
	t := n.nearestSymTab()
	if t == nil {
		return
	}
	var walk func(x *Node)
	walk = func(x *Node) {
		t.remove(x)
		if x.kind.Has(Symtab) {
			return
		}
		for _, y := range x.children {
			walk(y)
		}
	}
	walk(c)
}

func (n *Node) nearestSymTab() *SymTab {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.kind.Has(Symtab) {
			return cur.SymTab()
		}
	}
	return nil
}

// AncestorOfKind returns the nearest strict ancestor of n with the given
// kind, or nil. Used by Lift (rewrite.Lift) to find the attachment point
// for a hoisted node.
func (n *Node) AncestorOfKind(k Kind) *Node {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur.kind == k {
			return cur
		}
	}
	return nil
}

// Scope returns the nearest symbol table in scope for n: n's own if it has
// one, else the nearest ancestor's.
func (n *Node) Scope() *SymTab {
	return n.nearestSymTab()
}

// Clone deep-copies n and its subtree, detached from any tree (parent nil).
// Literal and location information is preserved; the clone does not share
// symbol table storage with the original (each Symtab-capable node gets its
// own table, rebuilt from the cloned children as they are re-appended).
func (n *Node) Clone() *Node {
	cp := &Node{kind: n.kind, start: n.start, end: n.end}
	if n.literal != nil {
		v := new(apd.Decimal)
		v.Set(n.literal)
		cp.literal = v
	}
	for _, c := range n.children {
		cp.Append(c.Clone())
	}
	return cp
}
