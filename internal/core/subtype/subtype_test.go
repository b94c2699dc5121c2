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

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/token"
)

// class builds a standalone nominal type (no enclosing scope, no type
// parameters) distinct from every other class built this way, so identity
// comparison in atomicMatch's nominalMatch case is exactly what tells two
// of these apart; the name is cosmetic, kept only to make tests readable.
func class(name string) *ast.Node {
	id := ast.NewLeaf(lang.Ident, token.NoPos, token.NoPos)
	return ast.New(lang.Class, id)
}

// namedIdent builds a standalone Ident leaf whose Location() is text,
// backed by its own tiny synthetic file (the same trick passes.helpers'
// syntheticIdent uses).
func namedIdent(text string) *ast.Node {
	f := token.NewFile("<test>", []byte(text))
	return ast.NewLeaf(lang.Ident, f.Pos(0), f.Pos(len(text)))
}

// classWithFields builds a Class whose body is the Block structure.go
// always wraps member lists in, with one FieldLet per name given — the
// shape traitMatch's ast.LookdownNames/LookdownAll calls actually expect.
func classWithFields(fieldNames ...string) *ast.Node {
	c := ast.New(lang.Class, ast.NewLeaf(lang.Ident, token.NoPos, token.NoPos))
	body := ast.New(lang.Block)
	c.Append(body)
	for _, name := range fieldNames {
		body.Append(ast.New(lang.FieldLet, namedIdent(name)))
	}
	return c
}

// trait builds a TypeTrait requiring one member per name given, in the
// same Block-bodied shape a real trait definition has after structure.go.
func trait(fieldNames ...string) *ast.Node {
	tr := ast.New(lang.TypeTrait, ast.NewLeaf(lang.Ident, token.NoPos, token.NoPos))
	body := ast.New(lang.Block)
	tr.Append(body)
	for _, name := range fieldNames {
		body.Append(ast.New(lang.FieldLet, namedIdent(name)))
	}
	return tr
}

func TestSubtypeUnionIsOrderIndependent(t *testing.T) {
	intT, strT := class("Int"), class("Str")

	lhs := ast.New(lang.TypeUnion, intT, strT)
	rhs := ast.New(lang.TypeUnion, strT, intT)

	qt.Assert(t, qt.IsTrue(Subtype(lhs, rhs)))
}

func TestSubtypeTupleIsOrderDependent(t *testing.T) {
	intT, strT := class("Int"), class("Str")

	lhs := ast.New(lang.TypeTuple, intT, strT)
	rhs := ast.New(lang.TypeTuple, strT, intT)

	qt.Assert(t, qt.IsFalse(Subtype(lhs, rhs)))
}

func TestSubtypeCapabilitiesAreDistinct(t *testing.T) {
	lin := ast.New(lang.TypeLin)
	in := ast.New(lang.TypeIn)

	qt.Assert(t, qt.IsFalse(Subtype(lin, in)))
}

func TestSubtypeViewReducesOutToOut(t *testing.T) {
	// L = Out dominates regardless of R's capability: L = Out, R ∈ {Lin,
	// In, Out} → Out.
	view := ast.New(lang.TypeView, ast.New(lang.TypeOut), ast.New(lang.TypeLin))
	out := ast.New(lang.TypeOut)

	qt.Assert(t, qt.IsTrue(Subtype(view, out)))
}

func TestSubtypeViewLinOutReducesToIn(t *testing.T) {
	// L ∈ {Lin, In}, R ∈ {In, Out} → In.
	view := ast.New(lang.TypeView, ast.New(lang.TypeLin), ast.New(lang.TypeOut))
	in := ast.New(lang.TypeIn)

	qt.Assert(t, qt.IsTrue(Subtype(view, in)))
}

func TestSubtypeSelfIsReflexive(t *testing.T) {
	c := class("Widget")
	qt.Assert(t, qt.IsTrue(Subtype(c, c)))
}

func TestSubtypeIsectOnLHSFlattens(t *testing.T) {
	a, b := class("A"), class("B")
	isect := ast.New(lang.TypeIsect, a, b)

	qt.Assert(t, qt.IsTrue(Subtype(isect, a)))
	qt.Assert(t, qt.IsTrue(Subtype(isect, b)))
}

func TestSubtypeClassProvidingEveryTraitMemberMatches(t *testing.T) {
	c := classWithFields("name", "age")
	tr := trait("name")

	qt.Assert(t, qt.IsTrue(Subtype(c, tr)))
}

func TestSubtypeClassMissingTraitMemberDoesNotMatch(t *testing.T) {
	c := classWithFields("name")
	tr := trait("name", "age")

	qt.Assert(t, qt.IsFalse(Subtype(c, tr)))
}

func TestSubtypeEmptyTraitMatchesAnyClass(t *testing.T) {
	c := classWithFields()
	tr := trait()

	qt.Assert(t, qt.IsTrue(Subtype(c, tr)))
}

func TestSubtypeFuncIsContravariantInArgCovariantInResult(t *testing.T) {
	a, b := class("A"), class("B")

	// (A|B) -> (A&B) <: (A) -> (A): the wider union is an acceptable
	// argument type to narrow to, and the narrower intersection result is
	// an acceptable result type to widen to.
	sub := ast.New(lang.TypeFunc, ast.New(lang.TypeUnion, a, b), ast.New(lang.TypeIsect, a, b))
	sup := ast.New(lang.TypeFunc, a, a)

	qt.Assert(t, qt.IsTrue(Subtype(sub, sup)))
	// The reverse does not hold: sup's argument (A) does not accept
	// everything sub's argument (A|B) accepts.
	qt.Assert(t, qt.IsFalse(Subtype(sup, sub)))
}

func TestSubtypeFuncArgArityMismatchFailsFast(t *testing.T) {
	intT, strT := class("Int"), class("Str")

	sub := ast.New(lang.TypeFunc, ast.New(lang.TypeTuple, intT, strT), intT)
	sup := ast.New(lang.TypeFunc, ast.New(lang.TypeTuple, intT, strT, intT), intT)

	qt.Assert(t, qt.IsFalse(Subtype(sub, sup)))
}

func TestSubtypeFuncMultiArgTupleMatchesPointwise(t *testing.T) {
	intT, strT := class("Int"), class("Str")

	sub := ast.New(lang.TypeFunc, ast.New(lang.TypeTuple, intT, strT), intT)
	sup := ast.New(lang.TypeFunc, ast.New(lang.TypeTuple, intT, strT), intT)

	qt.Assert(t, qt.IsTrue(Subtype(sub, sup)))
}
