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

// Package rewrite implements a generic term-rewriting engine: passes made
// of ordered pattern/action rules, applied to a *ast.Node tree until a
// fixpoint, each followed by WF schema validation.
package rewrite

import "github.com/project-verona/verona-go/ast"

type patOp int

const (
	opKind patOp = iota
	opOr
	opSeq
	opRep
	opNot
	opIn
	opDescend
	opEnd
	opAny
	opCap
	opPred
)

// Pattern is a matcher expression, combining the primitives: token literal,
// disjunction (/), sequence (*), repetition (++), negation (!), context
// guards (In), structural descent (<<), end-of-children (End), wildcards
// (Any), and named captures ([Name]).
//
// Like ast.Node itself, Pattern is one struct keyed by an op tag rather
// than a Go type per combinator — the same closed-sum, single-representation
// choice, applied to the matcher language instead of the tree it matches
// against.
type Pattern struct {
	op    patOp
	kinds []ast.Kind
	subs  []*Pattern // opOr alternatives, opSeq items
	body  *Pattern   // opRep/opNot/opCap/opDescend(children pattern)
	min   int        // opRep minimum repetitions
	name  string      // opCap capture name
	pred  func(*ast.Node) bool
}

// T matches a single node whose Kind is any of ks.
func T(ks ...ast.Kind) *Pattern { return &Pattern{op: opKind, kinds: ks} }

// Or matches if any alternative matches (the `/` combinator).
func Or(ps ...*Pattern) *Pattern { return &Pattern{op: opOr, subs: ps} }

// Seq matches a sequence of sibling patterns in order (the `*` combinator)
// against a child list. It is only meaningful inside Descend.
func Seq(ps ...*Pattern) *Pattern { return &Pattern{op: opSeq, subs: ps} }

// Rep matches one-or-more (the `++` combinator) consecutive repetitions of
// p against a child list. Only meaningful inside Seq/Descend.
func Rep(p *Pattern) *Pattern { return &Pattern{op: opRep, body: p, min: 1} }

// RepMin is Rep with an explicit minimum repeat count (`x++[min]`), e.g.
// RepMin(p, 0) for "zero or more".
func RepMin(p *Pattern, min int) *Pattern { return &Pattern{op: opRep, body: p, min: min} }

// Not matches a single node whose Kind is none of the body pattern's kinds
// (the `!` combinator). Only meaningful with a T(...) body.
func Not(p *Pattern) *Pattern { return &Pattern{op: opNot, body: p} }

// In is a context guard: it matches (consuming nothing) iff the node
// currently being tested has an ancestor of one of ks.
func In(ks ...ast.Kind) *Pattern { return &Pattern{op: opIn, kinds: ks} }

// Descend applies a child-sequence pattern to the current node's children
// (the `<<` combinator).
func Descend(p *Pattern) *Pattern { return &Pattern{op: opDescend, body: p} }

// End matches only when no children remain (zero-width, sequence context).
func End() *Pattern { return &Pattern{op: opEnd} }

// Any matches exactly one child unconditionally (the wildcard).
func Any() *Pattern { return &Pattern{op: opAny} }

// Cap names the nodes consumed by body so the rule's Action can retrieve
// them from the Match (the `[Name]` combinator).
func Cap(name string, p *Pattern) *Pattern { return &Pattern{op: opCap, name: name, body: p} }

// Pred attaches a user predicate — an arbitrary boolean function of the
// single node body captures — that must hold for the match to succeed.
// body must itself be a T(...) (or Cap-wrapped T(...)) pattern.
func Pred(body *Pattern, fn func(*ast.Node) bool) *Pattern {
	return &Pattern{op: opPred, body: body, pred: fn}
}

// Match accumulates the named captures produced while testing a Pattern
// against a node, plus the node itself for convenience.
type Match struct {
	Node     *ast.Node
	captures map[string][]*ast.Node
}

func newMatch(n *ast.Node) *Match {
	return &Match{Node: n, captures: map[string][]*ast.Node{}}
}

func (m *Match) record(name string, nodes []*ast.Node) {
	m.captures[name] = append(m.captures[name], nodes...)
}

// All returns every node captured under name, in match order.
func (m *Match) All(name string) []*ast.Node { return m.captures[name] }

// One returns the single node captured under name, or nil if none (or more
// than one) was captured.
func (m *Match) One(name string) *ast.Node {
	list := m.captures[name]
	if len(list) != 1 {
		return nil
	}
	return list[0]
}

// Match tests p against n (as a single-node pattern). On success it returns
// a populated Match; on failure, ok is false and the Match is nil.
func (p *Pattern) Match(n *ast.Node) (*Match, bool) {
	m := newMatch(n)
	if !p.matchNode(n, m) {
		return nil, false
	}
	return m, true
}

func (p *Pattern) matchNode(n *ast.Node, m *Match) bool {
	switch p.op {
	case opKind:
		return n.Kind().In(p.kinds...)
	case opOr:
		for _, s := range p.subs {
			if s.matchNode(n, m) {
				return true
			}
		}
		return false
	case opNot:
		return !p.body.matchNode(n, m)
	case opIn:
		for cur := n.Parent(); cur != nil; cur = cur.Parent() {
			if cur.Kind().In(p.kinds...) {
				return true
			}
		}
		return false
	case opDescend:
		_, ok := matchSeq([]*Pattern{p.body}, n.Children(), m)
		return ok
	case opCap:
		if !p.body.matchNode(n, m) {
			return false
		}
		m.record(p.name, []*ast.Node{n})
		return true
	case opPred:
		if !p.body.matchNode(n, m) {
			return false
		}
		return p.pred(n)
	case opSeq:
		// A bare Seq used as a node pattern only makes sense wrapping a
		// single alternative; treat it as Or for convenience.
		for _, s := range p.subs {
			if s.matchNode(n, m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchSeq matches a single sequence-context pattern (normally an opSeq)
// against the full nodes list, requiring every item to match starting from
// position 0 in order. Trailing, uncaptured children are permitted unless
// the pattern ends in an explicit End().
func matchSeq(items []*Pattern, nodes []*ast.Node, m *Match) (int, bool) {
	pos := 0
	for _, it := range items {
		switch it.op {
		case opSeq:
			n, ok := matchSeq(it.subs, nodes[pos:], m)
			if !ok {
				return pos, false
			}
			pos += n
		default:
			n, ok := matchSeqItem(it, nodes, pos, m)
			if !ok {
				return pos, false
			}
			pos += n
		}
	}
	return pos, true
}

// matchSeqItem matches a single pattern against nodes starting at pos,
// returning how many nodes it consumed.
func matchSeqItem(p *Pattern, nodes []*ast.Node, pos int, m *Match) (int, bool) {
	switch p.op {
	case opKind:
		if pos >= len(nodes) || !nodes[pos].Kind().In(p.kinds...) {
			return 0, false
		}
		return 1, true
	case opAny:
		if pos >= len(nodes) {
			return 0, false
		}
		return 1, true
	case opEnd:
		if pos != len(nodes) {
			return 0, false
		}
		return 0, true
	case opNot:
		if pos >= len(nodes) {
			return 0, false
		}
		if _, ok := matchSeqItem(p.body, nodes, pos, m); ok {
			return 0, false
		}
		return 1, true
	case opOr:
		for _, s := range p.subs {
			if n, ok := matchSeqItem(s, nodes, pos, m); ok {
				return n, true
			}
		}
		return 0, false
	case opRep:
		count := 0
		cursor := pos
		for cursor < len(nodes) {
			n, ok := matchSeqItem(p.body, nodes, cursor, m)
			if !ok || n == 0 {
				break
			}
			cursor += n
			count++
		}
		if count < p.min {
			return 0, false
		}
		return cursor - pos, true
	case opCap:
		n, ok := matchSeqItem(p.body, nodes, pos, m)
		if !ok {
			return 0, false
		}
		m.record(p.name, append([]*ast.Node(nil), nodes[pos:pos+n]...))
		return n, true
	case opPred:
		n, ok := matchSeqItem(p.body, nodes, pos, m)
		if !ok {
			return 0, false
		}
		for _, c := range nodes[pos : pos+n] {
			if !p.pred(c) {
				return 0, false
			}
		}
		return n, true
	case opDescend:
		if pos >= len(nodes) {
			return 0, false
		}
		if !p.matchNode(nodes[pos], m) {
			return 0, false
		}
		return 1, true
	case opIn:
		for cur := m.Node.Parent(); cur != nil; cur = cur.Parent() {
			if cur.Kind().In(p.kinds...) {
				return 0, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}
