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

// TraceEvent describes one rule firing, for the optional Trace hook.
type TraceEvent struct {
	Pass string
	Rule int
	At   *ast.Node
}

// Trace, if non-nil, is called once per successful rule application across
// every pass run through Run. It is nil by default: the pipeline is
// otherwise silent, with no background logging.
var Trace func(TraceEvent)

// Run applies pass to root until it reaches a fixpoint (no rule fires
// anywhere in the tree), or for a single sweep when pass.Once is set. It
// does not validate the result against pass.Schema (Pipeline does that);
// rule-level errors are surfaced as ast.Error nodes in the tree itself and
// are not returned here — callers inspect the tree with ast.CollectErrors.
//
// root itself may be rewritten (it has no parent, so a Rule matching it
// cannot be spliced in place the way a descendant can); Run tracks and
// returns whatever node ends up occupying root's former position, rather
// than always handing back the original pointer it was given.
func Run(root *ast.Node, pass Pass) *ast.Node {
	cur := root
	for {
		var next *ast.Node
		var changed bool
		if pass.Dir == BottomUp {
			next, changed = applyBottomUp(cur, pass)
		} else {
			next, changed = applyTopDown(cur, pass)
		}
		if next != nil {
			cur = next
		}
		if !changed || pass.Once {
			break
		}
	}
	return cur
}

// applyAt tries pass.Rules against n in declaration order, applying the
// first match. Unless pass.Once, it keeps re-trying at the (possibly new)
// node produced by the rewrite until no rule fires or a rule returns Keep.
// It returns the node now occupying the site (nil if the site was deleted
// or spliced into more than one node) and whether anything changed.
func applyAt(n *ast.Node, pass Pass) (*ast.Node, bool) {
	changedAny := false
	cur := n
	for {
		fired := false
		for i, r := range pass.Rules {
			m, ok := r.Pattern.Match(cur)
			if !ok {
				continue
			}
			repl := r.Action(m)
			if repl.kind == rkNoChange {
				fired = false
				break
			}
			if Trace != nil {
				Trace(TraceEvent{Pass: pass.Name, Rule: i, At: cur})
			}
			next, stillHere := applyReplacement(cur, repl)
			changedAny = true
			fired = true
			if !stillHere {
				return next, changedAny
			}
			cur = next
			break
		}
		if !fired || pass.Once {
			break
		}
	}
	return cur, changedAny
}

func applyReplacement(n *ast.Node, r Replacement) (*ast.Node, bool) {
	p := n.Parent()
	switch r.kind {
	case rkNode, rkError:
		if p == nil {
			return r.node, true
		}
		p.Replace(n, r.node)
		return r.node, true
	case rkSeq:
		if p == nil {
			return n, true
		}
		p.ReplaceSeq(n, r.seq)
		return nil, false
	case rkEmpty:
		n.Remove()
		return nil, false
	case rkLift:
		if anc := n.AncestorOfKind(r.lift); anc != nil {
			anc.Append(r.node)
		}
		n.Remove()
		return nil, false
	default:
		return n, true
	}
}

// applyTopDown rewrites n (possibly replacing it outright) and then
// recurses into whichever node now occupies its position, returning that
// node (nil if n was deleted or spliced away) and whether anything changed
// anywhere in the subtree.
func applyTopDown(n *ast.Node, pass Pass) (*ast.Node, bool) {
	changed := false
	cur, fired := applyAt(n, pass)
	if fired {
		changed = true
	}
	if cur == nil {
		return nil, changed
	}
	for _, c := range append([]*ast.Node(nil), cur.Children()...) {
		if c.Parent() != cur {
			// c was spliced elsewhere (e.g. Lift) while siblings were
			// being processed; skip it here.
			continue
		}
		if _, childChanged := applyTopDown(c, pass); childChanged {
			changed = true
		}
	}
	return cur, changed
}

func applyBottomUp(n *ast.Node, pass Pass) (*ast.Node, bool) {
	changed := false
	for _, c := range append([]*ast.Node(nil), n.Children()...) {
		if c.Parent() != n {
			continue
		}
		if _, childChanged := applyBottomUp(c, pass); childChanged {
			changed = true
		}
	}
	cur, fired := applyAt(n, pass)
	if fired {
		changed = true
	}
	return cur, changed
}
