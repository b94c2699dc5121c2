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

// Package lang registers the dialect's concrete token set and implements
// the pass pipeline on top of the dialect-agnostic ast and rewrite packages.
package lang

import "github.com/project-verona/verona-go/ast"

// Concrete-syntax / structural tokens. These stand in for what an external
// lexer/parser would hand the pipeline: the lexer is an out-of-scope
// collaborator here, consumed only via the Node shapes it produces. Group
// is the loosely-parsed, not-yet-classified form the
// `modules`/`structure` passes consume.
var (
	File      = ast.NewKind("File", ast.Symtab)
	ModuleDir = ast.NewKind("ModuleDir", ast.Symtab)
	Group     = ast.NewKind("Group")
	Ident     = ast.NewKind("Ident", ast.Print)
	Symbol    = ast.NewKind("Symbol", ast.Print)
	Paren     = ast.NewKind("Paren")
	Square    = ast.NewKind("Square")
	Brace     = ast.NewKind("Brace")
	Equals    = ast.NewKind("Equals")
	DontCare  = ast.NewKind("DontCare")
	NumberLit = ast.NewKind("NumberLit", ast.Print)
	StringLit = ast.NewKind("StringLit", ast.Print)
	Seq       = ast.NewKind("Seq")
)

// Definition nodes. Class/TypeTrait/Function own a nested
// member scope (Symtab) that lookdown's member search walks into;
// TypeAlias has no scope of its own — lookdown through it just unfolds to
// its RHS type. TypeParam/Param/FieldLet/FieldVar/
// Let/Var/Bind are definitions without their own nested scope.
var (
	Class     = ast.NewKind("Class", ast.Symtab)
	TypeAlias = ast.NewKind("TypeAlias")
	TypeTrait = ast.NewKind("TypeTrait", ast.Symtab)
	Function  = ast.NewKind("Function", ast.Symtab|ast.Shadowing)
	TypeParam = ast.NewKind("TypeParam")
	Param     = ast.NewKind("Param")
	FieldLet  = ast.NewKind("FieldLet")
	FieldVar  = ast.NewKind("FieldVar")
	Let       = ast.NewKind("Let", ast.DefBeforeUse)
	Var       = ast.NewKind("Var", ast.DefBeforeUse)
	Bind      = ast.NewKind("Bind", ast.DefBeforeUse)
	Use       = ast.NewKind("Use")
	Package   = ast.NewKind("Package")
)

// Type lattice.
var (
	TypeUnit   = ast.NewKind("TypeUnit")
	TypeLin    = ast.NewKind("Lin")
	TypeIn     = ast.NewKind("In")
	TypeOut    = ast.NewKind("Out")
	TypeConst  = ast.NewKind("Const")
	TypeTuple  = ast.NewKind("TypeTuple")
	TypeList   = ast.NewKind("TypeList")
	TypeView   = ast.NewKind("TypeView")
	TypeFunc   = ast.NewKind("TypeFunc")
	TypeThrow  = ast.NewKind("TypeThrow")
	TypeUnion  = ast.NewKind("TypeUnion")
	TypeIsect  = ast.NewKind("TypeIsect")
	TypeVar    = ast.NewKind("TypeVar")
	TypeName   = ast.NewKind("TypeName", ast.Lookup|ast.Lookdown)
	Type       = ast.NewKind("Type")
	TypeArgs   = ast.NewKind("TypeArgs")
	TypeParams = ast.NewKind("TypeParams")
)

// Expressions.
var (
	Expr         = ast.NewKind("Expr")
	ExprSeq      = ast.NewKind("ExprSeq")
	Tuple        = ast.NewKind("Tuple")
	Unit         = ast.NewKind("Unit")
	Assign       = ast.NewKind("Assign")
	Call         = ast.NewKind("Call")
	CallLHS      = ast.NewKind("CallLHS")
	Args         = ast.NewKind("Args")
	Selector     = ast.NewKind("Selector", ast.Lookup|ast.Lookdown)
	FunctionName = ast.NewKind("FunctionName")
	Conditional  = ast.NewKind("Conditional")
	Lambda       = ast.NewKind("Lambda", ast.Symtab)
	RefLet       = ast.NewKind("RefLet", ast.Lookup)
	RefVar       = ast.NewKind("RefVar", ast.Lookup)
	RefVarLHS    = ast.NewKind("RefVarLHS", ast.Lookup)
	TypeAssert   = ast.NewKind("TypeAssert")
	TypeAssertOp = ast.NewKind("TypeAssertOp")
	Throw        = ast.NewKind("Throw")
	Return       = ast.NewKind("Return")
	NLRCheck     = ast.NewKind("NLRCheck")
	TypeTest     = ast.NewKind("TypeTest")
	Cast         = ast.NewKind("Cast")
	FieldRef     = ast.NewKind("FieldRef")
	Move         = ast.NewKind("Move")
	Copy         = ast.NewKind("Copy")
	Drop         = ast.NewKind("Drop")
	Params       = ast.NewKind("Params")
	Block        = ast.NewKind("Block", ast.Symtab)
)

func init() {
	for _, k := range []ast.Kind{
		Class, TypeAlias, TypeTrait, Function, TypeParam, Param,
		FieldLet, FieldVar, Let, Var, Bind,
	} {
		ast.RegisterBinder(k)
	}

	// Class and TypeTrait members are bound one layer down, in the Block
	// structure.go gives each definition's body — Append registers a
	// member in the nearest Symtab-capable ancestor starting at the Block
	// itself, never reaching the Class/TypeTrait node's own table. Lookdown
	// needs to follow that same layer to see them.
	for _, k := range []ast.Kind{Class, TypeTrait} {
		ast.RegisterLookdownContainer(k)
	}
}
