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

	"github.com/go-quicktest/qt"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/token"
)

var (
	pKindA = ast.NewKind("pKindA", ast.Print)
	pKindB = ast.NewKind("pKindB", ast.Print)
	pWrap  = ast.NewKind("pWrap")
)

func TestPatternKindMatchesAnyListed(t *testing.T) {
	p := T(pKindA, pKindB)
	a := ast.New(pKindA)
	b := ast.New(pKindB)
	wrap := ast.New(pWrap)

	if _, ok := p.Match(a); !ok {
		t.Fatalf("T(A,B) should match A")
	}
	if _, ok := p.Match(b); !ok {
		t.Fatalf("T(A,B) should match B")
	}
	if _, ok := p.Match(wrap); ok {
		t.Fatalf("T(A,B) should not match an unlisted kind")
	}
}

func TestPatternOrFallsThroughAlternatives(t *testing.T) {
	p := Or(T(pKindA), T(pKindB))
	_, ok := p.Match(ast.New(pKindB))
	qt.Assert(t, qt.IsTrue(ok))
}

func TestPatternNotNegatesKind(t *testing.T) {
	p := Not(T(pKindA))
	_, rejectsA := p.Match(ast.New(pKindA))
	qt.Assert(t, qt.IsFalse(rejectsA))
	_, acceptsB := p.Match(ast.New(pKindB))
	qt.Assert(t, qt.IsTrue(acceptsB))
}

func TestPatternInMatchesAncestorContext(t *testing.T) {
	child := ast.New(pKindA)
	ast.New(pWrap, child)

	p := In(pWrap)
	if _, ok := p.Match(child); !ok {
		t.Fatalf("In(pWrap) should match a node with a pWrap ancestor")
	}

	orphan := ast.New(pKindA)
	if _, ok := p.Match(orphan); ok {
		t.Fatalf("In(pWrap) should not match a node without that ancestor")
	}
}

func TestPatternCapRecordsMatchedNode(t *testing.T) {
	a := ast.New(pKindA)
	p := Cap("x", T(pKindA))

	m, ok := p.Match(a)
	if !ok {
		t.Fatalf("Cap(T(A)) should match an A node")
	}
	if got := m.One("x"); got != a {
		t.Fatalf("m.One(\"x\") = %v, want a", got)
	}
}

func TestPatternPredGatesOnUserFunction(t *testing.T) {
	p := Pred(T(pKindA), func(n *ast.Node) bool { return n.Location() == "yes" })

	f := token.NewFile("<test>", []byte("yes"))
	yes := ast.NewLeaf(pKindA, f.Pos(0), f.Pos(3))
	no := ast.NewLeaf(pKindA, f.Pos(0), f.Pos(0))

	if _, ok := p.Match(yes); !ok {
		t.Fatalf("Pred should accept a node whose predicate holds")
	}
	if _, ok := p.Match(no); ok {
		t.Fatalf("Pred should reject a node whose predicate fails")
	}
}

func TestDescendMatchesChildSequence(t *testing.T) {
	parent := ast.New(pWrap, ast.New(pKindA), ast.New(pKindB))
	p := Descend(Seq(T(pKindA), T(pKindB)))

	if _, ok := p.Match(parent); !ok {
		t.Fatalf("Descend(Seq(A,B)) should match a parent with exactly those children in order")
	}

	wrongOrder := ast.New(pWrap, ast.New(pKindB), ast.New(pKindA))
	if _, ok := p.Match(wrongOrder); ok {
		t.Fatalf("Descend(Seq(A,B)) should not match children in the wrong order")
	}
}

func TestDescendWithEndRejectsExtraChildren(t *testing.T) {
	parent := ast.New(pWrap, ast.New(pKindA), ast.New(pKindB))
	p := Descend(Seq(T(pKindA), End()))

	if _, ok := p.Match(parent); ok {
		t.Fatalf("Descend(Seq(A, End())) should reject trailing children after A")
	}
}

func TestRepMatchesOneOrMore(t *testing.T) {
	parent := ast.New(pWrap, ast.New(pKindA), ast.New(pKindA), ast.New(pKindA))
	p := Descend(Seq(Rep(T(pKindA)), End()))
	if _, ok := p.Match(parent); !ok {
		t.Fatalf("Rep(T(A)) should match a run of three As")
	}

	empty := ast.New(pWrap)
	if _, ok := p.Match(empty); ok {
		t.Fatalf("Rep (min 1) should reject zero repetitions")
	}
}

func TestRepMinZeroAcceptsEmpty(t *testing.T) {
	empty := ast.New(pWrap)
	p := Descend(Seq(RepMin(T(pKindA), 0), End()))
	if _, ok := p.Match(empty); !ok {
		t.Fatalf("RepMin(T(A), 0) should accept zero repetitions")
	}
}

func TestAnyMatchesAnyChild(t *testing.T) {
	parent := ast.New(pWrap, ast.New(pKindB))
	p := Descend(Seq(Any(), End()))
	if _, ok := p.Match(parent); !ok {
		t.Fatalf("Any() should match a single child regardless of its kind")
	}
}
