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

package errors

import (
	"strings"
	"testing"

	"github.com/project-verona/verona-go/token"
)

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(token.NoPos, Structural, "bad %s at %d", "thing", 3)
	if got, want := err.Error(), "bad thing at 3"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if err.Category() != Structural {
		t.Fatalf("Category() = %v, want Structural", err.Category())
	}
}

func TestErrorPositionedMessageIncludesLocation(t *testing.T) {
	f := token.NewFile("a.verona", []byte("class C {}"))
	err := Newf(f.Pos(6), Lexical, "oops")
	if got := err.Error(); !strings.HasPrefix(got, "a.verona:") {
		t.Fatalf("Error() = %q, want it prefixed with the file position", got)
	}
}

func TestWithInputsAttachesSecondaryPositions(t *testing.T) {
	f := token.NewFile("a.verona", []byte("0123456789"))
	base := Newf(f.Pos(0), TypeGrammar, "mismatch")
	withInputs := WithInputs(base, f.Pos(3), f.Pos(7))

	if got := len(withInputs.InputPositions()); got != 2 {
		t.Fatalf("InputPositions() has %d entries, want 2", got)
	}
	if got := len(base.InputPositions()); got != 0 {
		t.Fatalf("WithInputs mutated the original error's InputPositions")
	}
}

func TestListAppendIgnoresNil(t *testing.T) {
	var list List
	list.Append(nil)
	if list.Len() != 0 {
		t.Fatalf("List.Len() = %d after appending nil, want 0", list.Len())
	}
}

func TestListSanitizeSortsAndDedupes(t *testing.T) {
	f := token.NewFile("a.verona", []byte(strings.Repeat("x", 20)))
	var list List
	list.Append(Newf(f.Pos(10), Structural, "dup"))
	list.Append(Newf(f.Pos(2), Lexical, "first"))
	list.Append(Newf(f.Pos(10), Structural, "dup"))

	list.Sanitize()

	errs := list.Errors()
	if len(errs) != 2 {
		t.Fatalf("Sanitize left %d errors, want 2 (one duplicate removed)", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "first") {
		t.Fatalf("Sanitize did not sort by position: got %q first", errs[0].Error())
	}
}

func TestListErrorJoinsMessagesByLine(t *testing.T) {
	var list List
	list.Append(Newf(token.NoPos, Structural, "one"))
	list.Append(Newf(token.NoPos, Structural, "two"))

	got := list.Error()
	if !strings.Contains(got, "one") || !strings.Contains(got, "two") {
		t.Fatalf("List.Error() = %q, want both messages", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("List.Error() should join with exactly one newline between two errors")
	}
}

func TestCategoryStringCoversTaxonomy(t *testing.T) {
	cats := []Category{Lexical, Structural, TypeGrammar, Resolution, Schema}
	seen := make(map[string]bool)
	for _, c := range cats {
		s := c.String()
		if s == "" || s == "error" {
			t.Fatalf("Category(%d).String() = %q, want a named category", c, s)
		}
		seen[s] = true
	}
	if len(seen) != len(cats) {
		t.Fatalf("categories are not distinctly named: %v", seen)
	}
}
