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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/project-verona/verona-go/token"
)

var (
	testLeaf   = NewKind("testLeaf", Print)
	testBranch = NewKind("testBranch")
)

func ident(text string) *Node {
	f := token.NewFile("<test>", []byte(text))
	return NewLeaf(testLeaf, f.Pos(0), f.Pos(len(text)))
}

func TestNewReparentsChildren(t *testing.T) {
	a, b := ident("a"), ident("b")
	n := New(testBranch, a, b)

	if a.Parent() != n || b.Parent() != n {
		t.Fatalf("children not reparented to n")
	}
	if len(n.Children()) != 2 || n.Children()[0] != a || n.Children()[1] != b {
		t.Fatalf("unexpected children: %v", n.Children())
	}
}

func TestNewDetachesFromPriorParent(t *testing.T) {
	a := ident("a")
	first := New(testBranch, a)
	second := New(testBranch, a)

	if a.Parent() != second {
		t.Fatalf("a.Parent() = %v, want second", a.Parent())
	}
	if len(first.Children()) != 0 {
		t.Fatalf("first still holds %d children, want 0", len(first.Children()))
	}
}

func TestAppendAndReplace(t *testing.T) {
	a, b, c := ident("a"), ident("b"), ident("c")
	n := New(testBranch, a)
	n.Append(b)
	if len(n.Children()) != 2 || n.Children()[1] != b {
		t.Fatalf("Append did not add b in order: %v", n.Children())
	}

	n.Replace(a, c)
	if len(n.Children()) != 2 || n.Children()[0] != c || n.Children()[1] != b {
		t.Fatalf("Replace did not swap a for c in place: %v", n.Children())
	}
	if a.Parent() != nil {
		t.Fatalf("old child a still has a parent after Replace")
	}
	if c.Parent() != n {
		t.Fatalf("replacement c.Parent() = %v, want n", c.Parent())
	}
}

func TestReplaceSeqSplices(t *testing.T) {
	a, b, c := ident("a"), ident("b"), ident("c")
	mid := ident("mid")
	n := New(testBranch, a, mid, c)

	n.ReplaceSeq(mid, []*Node{b, c})

	got := n.Children()
	want := []*Node{a, b, c, c}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(x, y *Node) bool { return x == y })); diff != "" {
		t.Fatalf("ReplaceSeq produced unexpected children (-want +got):\n%s", diff)
	}
	if mid.Parent() != nil {
		t.Fatalf("spliced-out node still has a parent")
	}
}

func TestRemoveDetachesSubtree(t *testing.T) {
	a, b := ident("a"), ident("b")
	n := New(testBranch, a, b)

	a.Remove()

	if a.Parent() != nil {
		t.Fatalf("a.Parent() = %v after Remove, want nil", a.Parent())
	}
	if len(n.Children()) != 1 || n.Children()[0] != b {
		t.Fatalf("n.Children() after Remove = %v, want [b]", n.Children())
	}
}

func TestAncestorOfKind(t *testing.T) {
	a := ident("a")
	inner := New(testBranch, a)
	outerKind := NewKind("testOuter")
	outer := New(outerKind, inner)

	if outer.AncestorOfKind(outerKind) != nil {
		t.Fatalf("AncestorOfKind should not find itself, only strict ancestors")
	}
	if a.AncestorOfKind(outerKind) != outer {
		t.Fatalf("a.AncestorOfKind(outerKind) = %v, want outer", a.AncestorOfKind(outerKind))
	}
	if a.AncestorOfKind(testBranch) != inner {
		t.Fatalf("a.AncestorOfKind(testBranch) = %v, want inner", a.AncestorOfKind(testBranch))
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	a, b := ident("a"), ident("b")
	n := New(testBranch, a, b)

	cp := n.Clone()

	if cp == n || cp.Parent() != nil {
		t.Fatalf("Clone must return a fresh, parentless node")
	}
	if len(cp.Children()) != 2 {
		t.Fatalf("Clone() children count = %d, want 2", len(cp.Children()))
	}
	if cp.Children()[0] == a || cp.Children()[0].Location() != a.Location() {
		t.Fatalf("cloned child must be a distinct node with the same spelling")
	}
	// Mutating the clone must not disturb the original.
	cp.Children()[0].Remove()
	if len(n.Children()) != 2 {
		t.Fatalf("mutating the clone affected the original tree")
	}
}

func TestLocationComparesByContentNotIdentity(t *testing.T) {
	// Location strings compare by content, giving identifiers structural
	// equality across distinct nodes sharing the same spelling.
	a := ident("widget")
	b := ident("widget")
	if a == b {
		t.Fatalf("test setup: expected distinct node identities")
	}
	if a.Location() != b.Location() {
		t.Fatalf("a.Location() = %q, b.Location() = %q, want equal", a.Location(), b.Location())
	}
}

func TestLocationEmptyWithoutPrintCapability(t *testing.T) {
	n := New(testBranch)
	if got := n.Location(); got != "" {
		t.Fatalf("Location() on a non-Print kind = %q, want empty", got)
	}
}
