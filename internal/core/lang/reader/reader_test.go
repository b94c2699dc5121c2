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

package reader

import (
	"testing"

	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/token"
)

func TestReadFileGroupsStatementsByNewline(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("a b\nc d"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}

	groups := file.Children()
	if len(groups) != 2 {
		t.Fatalf("File has %d groups, want 2", len(groups))
	}
	if len(groups[0].Children()) != 2 || len(groups[1].Children()) != 2 {
		t.Fatalf("groups = %v, want two tokens each", groups)
	}
	if got := groups[0].Children()[0].Location(); got != "a" {
		t.Fatalf("first token = %q, want %q", got, "a")
	}
}

func TestReadFileSkipsLineCommentsBothStyles(t *testing.T) {
	file, _ := ReadFile(token.NewFileSet(), "<test>", []byte("a // comment\nb # also a comment\nc"))
	groups := file.Children()
	if len(groups) != 3 {
		t.Fatalf("File has %d groups, want 3", len(groups))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := groups[i].Children()[0].Location(); got != want {
			t.Fatalf("group %d = %q, want %q", i, got, want)
		}
	}
}

func TestReadFileParenIsCommaSeparated(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("f(a, b)"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}

	tokens := file.Children()[0].Children()
	if len(tokens) != 2 {
		t.Fatalf("top group has %d tokens, want 2 (f, paren)", len(tokens))
	}
	paren := tokens[1]
	if paren.Kind() != lang.Paren {
		t.Fatalf("second token kind = %v, want Paren", paren.Kind())
	}
	if len(paren.Children()) != 2 {
		t.Fatalf("Paren has %d element groups, want 2", len(paren.Children()))
	}
	if got := paren.Children()[0].Children()[0].Location(); got != "a" {
		t.Fatalf("first paren element = %q, want %q", got, "a")
	}
	if got := paren.Children()[1].Children()[0].Location(); got != "b" {
		t.Fatalf("second paren element = %q, want %q", got, "b")
	}
}

func TestReadFileBraceIsNewlineSeparated(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("f { a\nb }"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}

	brace := file.Children()[0].Children()[1]
	if brace.Kind() != lang.Brace {
		t.Fatalf("second token kind = %v, want Brace", brace.Kind())
	}
	if len(brace.Children()) != 2 {
		t.Fatalf("Brace has %d statement groups, want 2", len(brace.Children()))
	}
}

func TestBuildGroupFoldsTrailingEqualsIntoWrapper(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("x = 1 + 2"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}

	tokens := file.Children()[0].Children()
	if len(tokens) != 2 {
		t.Fatalf("group has %d tokens, want 2 (x, Equals-wrapper)", len(tokens))
	}
	if got := tokens[0].Location(); got != "x" {
		t.Fatalf("first token = %q, want %q", got, "x")
	}
	eq := tokens[1]
	if eq.Kind() != lang.Equals {
		t.Fatalf("second token kind = %v, want Equals", eq.Kind())
	}
	rhs := eq.Children()[0]
	if rhs.Kind() != lang.Group || len(rhs.Children()) != 3 {
		t.Fatalf("Equals body = %v, want a 3-token Group (1, +, 2)", rhs)
	}
}

func TestBuildGroupWithoutEqualsIsPlainGroup(t *testing.T) {
	file, _ := ReadFile(token.NewFileSet(), "<test>", []byte("a b"))
	group := file.Children()[0]
	for _, c := range group.Children() {
		if c.Kind() == lang.Equals {
			t.Fatalf("group without '=' should not contain an Equals wrapper: %v", group)
		}
	}
}

func TestReadNumberLiteralInteger(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("42"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}
	n := file.Children()[0].Children()[0]
	if n.Kind() != lang.NumberLit {
		t.Fatalf("kind = %v, want NumberLit", n.Kind())
	}
	dec, ok := n.Literal()
	if !ok {
		t.Fatalf("NumberLit has no Literal value")
	}
	if got := dec.String(); got != "42" {
		t.Fatalf("Literal = %q, want %q", got, "42")
	}
}

func TestReadNumberLiteralDecimal(t *testing.T) {
	file, errs := ReadFile(token.NewFileSet(), "<test>", []byte("3.14"))
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}
	n := file.Children()[0].Children()[0]
	if got := n.Location(); got != "3.14" {
		t.Fatalf("Location() = %q, want %q", got, "3.14")
	}
}

func TestReadIdentUnderscoreIsDontCare(t *testing.T) {
	file, _ := ReadFile(token.NewFileSet(), "<test>", []byte("_"))
	n := file.Children()[0].Children()[0]
	if n.Kind() != lang.DontCare {
		t.Fatalf("kind = %v, want DontCare", n.Kind())
	}
}

func TestReadStringLiteralIncludesQuotes(t *testing.T) {
	src := []byte(`"hello"`)
	file, errs := ReadFile(token.NewFileSet(), "<test>", src)
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}
	n := file.Children()[0].Children()[0]
	if n.Kind() != lang.StringLit {
		t.Fatalf("kind = %v, want StringLit", n.Kind())
	}
	if got := n.Location(); got != string(src) {
		t.Fatalf("Location() = %q, want %q", got, string(src))
	}
}

func TestReadStringLiteralSkipsEscapedQuote(t *testing.T) {
	src := []byte(`"a\"b"`)
	file, errs := ReadFile(token.NewFileSet(), "<test>", src)
	if errs.Len() != 0 {
		t.Fatalf("ReadFile reported errors: %v", errs.Errors())
	}
	n := file.Children()[0].Children()[0]
	if got := n.Location(); got != string(src) {
		t.Fatalf("Location() = %q, want the whole escaped literal %q", got, string(src))
	}
}

func TestReadStringLiteralUnterminatedRecordsError(t *testing.T) {
	_, errs := ReadFile(token.NewFileSet(), "<test>", []byte("\"abc\n"))
	if errs.Len() == 0 {
		t.Fatalf("unterminated string literal should record an error")
	}
}

func TestReadStandaloneCharsAreNotGroupedAsSymbolRun(t *testing.T) {
	file, _ := ReadFile(token.NewFileSet(), "<test>", []byte("a,b;c"))
	tokens := file.Children()[0].Children()
	// At File scope ',' and ';' do not separate statements (only '\n' does);
	// they show up as their own standalone Symbol tokens alongside the idents.
	if len(tokens) != 5 {
		t.Fatalf("tokens = %v, want 5 (a , b ; c)", tokens)
	}
	if tokens[1].Kind() != lang.Symbol || tokens[1].Location() != "," {
		t.Fatalf("tokens[1] = %v, want a lone ',' Symbol", tokens[1])
	}
	if tokens[3].Kind() != lang.Symbol || tokens[3].Location() != ";" {
		t.Fatalf("tokens[3] = %v, want a lone ';' Symbol", tokens[3])
	}
}

func TestReadSymbolRunGreedilyCombines(t *testing.T) {
	file, _ := ReadFile(token.NewFileSet(), "<test>", []byte("a <= b"))
	tokens := file.Children()[0].Children()
	if len(tokens) != 3 {
		t.Fatalf("tokens = %v, want 3", tokens)
	}
	if got := tokens[1].Location(); got != "<=" {
		t.Fatalf("middle token = %q, want the combined %q symbol", got, "<=")
	}
}

func TestReadDirCombinesFilesIntoModuleDir(t *testing.T) {
	names := []string{"a.verona", "b.verona"}
	sources := map[string][]byte{
		"a.verona": []byte("x"),
		"b.verona": []byte("\"unterminated\n"),
	}

	dir, errs := ReadDir(token.NewFileSet(), names, sources)
	if dir.Kind() != lang.ModuleDir {
		t.Fatalf("kind = %v, want ModuleDir", dir.Kind())
	}
	if len(dir.Children()) != 2 {
		t.Fatalf("ModuleDir has %d files, want 2", len(dir.Children()))
	}
	if errs.Len() == 0 {
		t.Fatalf("ReadDir should surface the second file's lexical error")
	}
}
