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

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/project-verona/verona-go/ast"
)

var (
	eKindA  = ast.NewKind("eKindA")
	eKindB  = ast.NewKind("eKindB")
	eWrap   = ast.NewKind("eWrap")
	eHolder = ast.NewKind("eHolder")
)

func aToBRule() Rule {
	return Rule{
		Pattern: T(eKindA),
		Action:  func(*Match) Replacement { return ReplaceWith(ast.New(eKindB)) },
	}
}

// unwrapWhenChildIsB collapses a eWrap node into its single child, but only
// once that child has itself become eKindB — so fully unwrapping a chain of
// nested eWrap nodes takes one Run() sweep per level of nesting.
func unwrapWhenChildIsB() Rule {
	return Rule{
		Pattern: T(eWrap),
		Action: func(m *Match) Replacement {
			n := m.Node
			c := n.Children()
			if len(c) == 1 && c[0].Kind() == eKindB {
				return ReplaceWith(c[0].Clone())
			}
			return Keep()
		},
	}
}

func TestRunConvertsEveryMatchToFixpoint(t *testing.T) {
	root := ast.New(eWrap, ast.New(eKindA), ast.New(eKindA))
	pass := Pass{Name: "a-to-b", Dir: TopDown, Rules: []Rule{aToBRule()}}

	got := Run(root, pass)

	for _, c := range got.Children() {
		if c.Kind() != eKindB {
			t.Fatalf("child kind = %v, want eKindB", c.Kind())
		}
	}
}

func TestRunPropagatesAcrossMultipleSweeps(t *testing.T) {
	// eHolder(eWrap(eWrap(eKindA))): unwrapping both eWrap levels takes
	// three sweeps — one to turn the innermost eKindA into eKindB, one per
	// enclosing eWrap peeled off — which only a non-Once Run() loop
	// performs. eHolder sits above both so the rules never have to rewrite
	// the tree's own root, which a Pass's rules never do in practice.
	root := ast.New(eHolder, ast.New(eWrap, ast.New(eWrap, ast.New(eKindA))))
	pass := Pass{
		Name:  "unwrap",
		Dir:   TopDown,
		Rules: []Rule{aToBRule(), unwrapWhenChildIsB()},
	}

	got := Run(root, pass)

	if kind := got.Children()[0].Kind(); kind != eKindB {
		t.Fatalf("Run() without Once left kind %v, want the fully unwrapped eKindB", kind)
	}
}

func TestRunOnceStopsAfterFirstSweep(t *testing.T) {
	root := ast.New(eHolder, ast.New(eWrap, ast.New(eWrap, ast.New(eKindA))))
	pass := Pass{
		Name:  "unwrap-once",
		Dir:   TopDown,
		Once:  true,
		Rules: []Rule{aToBRule(), unwrapWhenChildIsB()},
	}

	got := Run(root, pass)

	// A single top-down sweep only gets as far as turning the innermost
	// eKindA into eKindB; neither enclosing eWrap has been peeled off yet.
	if kind := got.Children()[0].Kind(); kind != eWrap {
		t.Fatalf("Run() with Once = %v, want the outer eWrap still present", kind)
	}
}

func TestTopDownVisitsParentBeforeChild(t *testing.T) {
	root := ast.New(eWrap, ast.New(eKindA))
	var order []ast.Kind
	prevTrace := Trace
	defer func() { Trace = prevTrace }()
	Trace = func(ev TraceEvent) { order = append(order, ev.At.Kind()) }

	// Keep is not traced, so the eWrap rule records its own visit; Once
	// keeps the fixpoint re-check sweep out of the record.
	pass := Pass{
		Name: "record",
		Dir:  TopDown,
		Once: true,
		Rules: []Rule{
			{Pattern: T(eWrap), Action: func(m *Match) Replacement {
				order = append(order, m.Node.Kind())
				return Keep()
			}},
			aToBRule(),
		},
	}
	Run(root, pass)

	if diff := cmp.Diff([]ast.Kind{eWrap, eKindA}, order); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestBottomUpVisitsChildBeforeParentFinishes(t *testing.T) {
	// A bottom-up pass that turns eKindA into eKindB, then immediately
	// (within the same sweep) collapses its now-eKindB-holding eWrap
	// parent, must see the child already converted when it visits the
	// parent — proof that children really are processed first. eHolder
	// keeps the eWrap collapse from having to rewrite the tree's root.
	root := ast.New(eHolder, ast.New(eWrap, ast.New(eKindA)))
	pass := Pass{
		Name:  "bottomup-collapse",
		Dir:   BottomUp,
		Once:  true,
		Rules: []Rule{aToBRule(), unwrapWhenChildIsB()},
	}

	got := Run(root, pass)

	if kind := got.Children()[0].Kind(); kind != eKindB {
		t.Fatalf("bottom-up Run() kind = %v, want eKindB collapsed in a single sweep", kind)
	}
}

// TestRunReturnsReplacedLiteralRoot covers the one case every other test in
// this file deliberately avoids via eHolder: a rule matching the exact node
// passed to Run as root. root has no parent, so the replacement can't be
// spliced into a parent's child list the way a descendant's can — Run must
// still track and return the node that ends up occupying root's position,
// not the stale original pointer.
func TestRunReturnsReplacedLiteralRoot(t *testing.T) {
	root := ast.New(eKindA)
	pass := Pass{Name: "a-to-b-root", Dir: TopDown, Once: true, Rules: []Rule{aToBRule()}}

	got := Run(root, pass)

	if got.Kind() != eKindB {
		t.Fatalf("Run() on a literal-root match = %v, want eKindB", got.Kind())
	}
}

func TestDeleteRemovesNode(t *testing.T) {
	a := ast.New(eKindA)
	root := ast.New(eWrap, a, ast.New(eKindA))
	pass := Pass{
		Name: "delete-first",
		Dir:  TopDown,
		Rules: []Rule{
			{
				Pattern: T(eKindA),
				Action: func(m *Match) Replacement {
					if m.Node == a {
						return Delete()
					}
					return Keep()
				},
			},
		},
	}

	got := Run(root, pass)
	if len(got.Children()) != 1 {
		t.Fatalf("Run() with Delete() left %d children, want 1", len(got.Children()))
	}
}

func TestSpliceSeqExpandsIntoParent(t *testing.T) {
	root := ast.New(eWrap, ast.New(eKindA))
	pass := Pass{
		Name: "splice",
		Dir:  TopDown,
		Rules: []Rule{
			{
				Pattern: T(eKindA),
				Action: func(*Match) Replacement {
					return SpliceSeq(ast.New(eKindB), ast.New(eKindB))
				},
			},
		},
	}

	got := Run(root, pass)
	if len(got.Children()) != 2 {
		t.Fatalf("SpliceSeq produced %d children, want 2", len(got.Children()))
	}
	for _, c := range got.Children() {
		if c.Kind() != eKindB {
			t.Fatalf("spliced child kind = %v, want eKindB", c.Kind())
		}
	}
}

func TestLiftToAttachesAtNamedAncestor(t *testing.T) {
	target := ast.New(eKindA)
	inner := ast.New(eWrap, target)
	outerKind := ast.NewKind("eOuterForLift")
	root := ast.New(outerKind, inner)

	lifted := ast.New(eKindB)
	pass := Pass{
		Name: "lift",
		Dir:  TopDown,
		Once: true,
		Rules: []Rule{
			{
				Pattern: T(eKindA),
				Action:  func(*Match) Replacement { return LiftTo(outerKind, lifted) },
			},
		},
	}

	Run(root, pass)

	found := false
	for _, c := range root.Children() {
		if c == lifted {
			found = true
		}
	}
	if !found {
		t.Fatalf("LiftTo did not attach the produced node to the named ancestor")
	}
	if len(inner.Children()) != 0 {
		t.Fatalf("the matched node was not removed from its original site")
	}
}
