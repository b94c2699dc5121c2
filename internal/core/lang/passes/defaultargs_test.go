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

package passes

import (
	"testing"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/rewrite"
	"github.com/project-verona/verona-go/token"
)

func numberLit(text string) *ast.Node {
	f := token.NewFile("<default>", []byte(text))
	return ast.NewLeaf(lang.NumberLit, f.Pos(0), f.Pos(len(text)))
}

func simpleFunction(name string, params []*ast.Node, body *ast.Node) *ast.Node {
	return ast.New(lang.Function,
		syntheticIdent(name),
		ast.New(lang.TypeParams),
		ast.New(lang.Params, params...),
		ast.New(lang.TypeVar),
		body)
}

func forwardingArgs(fn *ast.Node) *ast.Node {
	body := firstChildOfKind(fn, lang.Block)
	if body == nil || len(body.Children()) == 0 {
		return nil
	}
	expr := body.Children()[0]
	if expr.Kind() != lang.Expr || len(expr.Children()) == 0 {
		return nil
	}
	call := expr.Children()[0]
	if call.Kind() != lang.Call {
		return nil
	}
	return firstChildOfKind(call, lang.Args)
}

// TestDefaultArgsSynthesizesForwardingOverloads exercises a function with
// one trailing default parameter and checks that it is split into exactly
// two overloads: a shorter one forwarding to the full arity with the
// default value supplied explicitly, and the full-arity one keeping the
// original body untouched. This is the case that used to panic: building
// the short overload's own Param used to steal the ident/type straight out
// of the original parameter list, leaving the default expression at the
// wrong child index for the next parameter in line.
func TestDefaultArgsSynthesizesForwardingOverloads(t *testing.T) {
	paramA := ast.New(lang.Param, syntheticIdent("a"), ast.New(lang.TypeVar))
	paramB := ast.New(lang.Param, syntheticIdent("b"), ast.New(lang.TypeVar), numberLit("42"))

	realBody := ast.New(lang.Block, ast.New(lang.Expr, ast.New(lang.RefLet, syntheticIdent("a"))))
	fn := simpleFunction("f", []*ast.Node{paramA, paramB}, realBody)

	cls := ast.New(lang.Class, syntheticIdent("C"))
	clsBody := ast.New(lang.Block)
	cls.Append(clsBody)
	clsBody.Append(fn)

	rewrite.Run(fn, DefaultArgs())

	var overloads []*ast.Node
	for _, c := range clsBody.Children() {
		if c.Kind() == lang.Function {
			overloads = append(overloads, c)
		}
	}
	if len(overloads) != 2 {
		t.Fatalf("got %d overloads, want 2: %s", len(overloads), ast.Dump(clsBody))
	}

	short, full := overloads[0], overloads[1]

	shortParams := firstChildOfKind(short, lang.Params)
	if shortParams == nil || len(shortParams.Children()) != 1 {
		t.Fatalf("short overload params = %v, want exactly 1 (just %q)", shortParams, "a")
	}
	shortParam := shortParams.Children()[0]
	if len(shortParam.Children()) != 2 {
		t.Fatalf("short overload's param has %d children, want 2 (ident, type), got: %s",
			len(shortParam.Children()), ast.Dump(shortParam))
	}

	args := forwardingArgs(short)
	if args == nil || len(args.Children()) != 2 {
		t.Fatalf("short overload's forwarding call args = %v, want 2 (the explicit param plus the supplied default)", args)
	}
	if got := args.Children()[1].Kind(); got != lang.NumberLit {
		t.Fatalf("short overload's second forwarded arg = %v, want the cloned default literal", got)
	}

	fullParams := firstChildOfKind(full, lang.Params)
	if fullParams == nil || len(fullParams.Children()) != 2 {
		t.Fatalf("full overload params = %v, want exactly 2", fullParams)
	}
	if fullBody := firstChildOfKind(full, lang.Block); fullBody != realBody {
		t.Fatalf("full overload body = %v, want the original function body preserved exactly", fullBody)
	}
}

// TestDefaultArgsRejectsNonSuffixDefault confirms a default parameter
// followed by a non-default one is rejected rather than silently accepted.
func TestDefaultArgsRejectsNonSuffixDefault(t *testing.T) {
	paramA := ast.New(lang.Param, syntheticIdent("a"), ast.New(lang.TypeVar), numberLit("1"))
	paramB := ast.New(lang.Param, syntheticIdent("b"), ast.New(lang.TypeVar))

	body := ast.New(lang.Block)
	fn := simpleFunction("f", []*ast.Node{paramA, paramB}, body)

	result := rewrite.Run(fn, DefaultArgs())

	if _, ok := ast.AsError(result); !ok {
		t.Fatalf("expected an Error node for a non-suffix default parameter, got: %s", ast.Dump(result))
	}
}

// TestDefaultArgsLeavesFunctionsWithoutDefaultsUntouched confirms a
// function with no default parameters is not rewritten at all.
func TestDefaultArgsLeavesFunctionsWithoutDefaultsUntouched(t *testing.T) {
	paramA := ast.New(lang.Param, syntheticIdent("a"), ast.New(lang.TypeVar))
	body := ast.New(lang.Block)
	fn := simpleFunction("f", []*ast.Node{paramA}, body)

	cls := ast.New(lang.Class, syntheticIdent("C"))
	clsBody := ast.New(lang.Block)
	cls.Append(clsBody)
	clsBody.Append(fn)

	rewrite.Run(fn, DefaultArgs())

	if len(clsBody.Children()) != 1 || clsBody.Children()[0] != fn {
		t.Fatalf("function with no default parameters should be left in place, got: %s", ast.Dump(clsBody))
	}
}
