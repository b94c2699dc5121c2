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

// Package reader is a minimal lexer/grouper: it turns raw source bytes into
// the loosely-structured File/ModuleDir/Group/Ident/Symbol/Paren/Square/Brace
// tree that the modules and structure passes consume. It does not assign
// operator precedence, classify keywords, or resolve names — every one of
// those jobs belongs to a later pass. A statement's tokens are grouped by
// adjacency only; `=` is folded into an
// Equals wrapper here because every definition-builder in the structure
// pass (buildBinding, buildTypeAlias, buildParam, buildTypeParam) expects
// its default/initializer tail already split out this way.
package reader

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/errors"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/token"
)

// symbolChars combine greedily into one Symbol token, which is what lets a
// lone `=` (assignment) stay distinct from `==`/`<=` while still handing
// typeprec.go the exact multi-char spellings ("::", "...", "->") it matches
// against.
const symbolChars = ":.&|!<>=+-*/%~^?"

// standalone characters never join a symbol run: `,` and `;` are structural
// separators, recognized before a greedy symbol scan would otherwise
// swallow them.
const standalone = ",;"

type reader struct {
	file *token.File
	src  []byte
	off  int
	errs *errors.List
}

// ReadFile tokenizes and groups one compilation unit's source into a File
// node whose children are the raw, unclassified Groups of its top-level
// statements.
func ReadFile(fset *token.FileSet, name string, src []byte) (*ast.Node, *errors.List) {
	f := fset.AddFile(name, src)
	r := &reader{file: f, src: src, errs: &errors.List{}}
	groups := r.readSegments(0, '\n')
	return ast.New(lang.File, groups...), r.errs
}

// ReadDir builds a ModuleDir out of several named sources, read in the
// given order: a directory of sibling source files is one compilation
// unit.
func ReadDir(fset *token.FileSet, names []string, sources map[string][]byte) (*ast.Node, *errors.List) {
	all := &errors.List{}
	files := make([]*ast.Node, 0, len(names))
	for _, name := range names {
		file, errs := ReadFile(fset, name, sources[name])
		for _, e := range errs.Errors() {
			all.Append(e)
		}
		files = append(files, file)
	}
	return ast.New(lang.ModuleDir, files...), all
}

// readSegments reads items until closeChar (0 meaning "read to EOF") and
// splits them on sep into Groups. sep is '\n' for a File/Brace body
// (newline-delimited statements) or ',' for a Paren/Square list
// (comma-delimited elements, newlines treated as ordinary whitespace).
func (r *reader) readSegments(closeChar byte, sep byte) []*ast.Node {
	var groups []*ast.Node
	var current []*ast.Node
	flush := func() {
		if len(current) > 0 {
			groups = append(groups, buildGroup(current))
			current = nil
		}
	}
	for {
		r.skipWS(sep != '\n')
		if r.off >= len(r.src) {
			break
		}
		c := r.src[r.off]
		if closeChar != 0 && c == closeChar {
			r.off++
			break
		}
		if c == sep {
			r.off++
			flush()
			continue
		}
		tok := r.readItem()
		if tok == nil {
			break
		}
		current = append(current, tok)
	}
	flush()
	return groups
}

// buildGroup wraps a flat token run in a Group, folding a lone top-level
// `=` and everything after it into a trailing Equals node (its own child
// wrapped in one Group so a multi-token default/initializer body survives
// intact for wrapType or splitDefault to unpack).
func buildGroup(tokens []*ast.Node) *ast.Node {
	for i, t := range tokens {
		if t.Kind() == lang.Symbol && t.Location() == "=" {
			before := append([]*ast.Node(nil), tokens[:i]...)
			after := tokens[i+1:]
			eq := ast.New(lang.Equals, ast.New(lang.Group, after...))
			return ast.New(lang.Group, append(before, eq)...)
		}
	}
	return ast.New(lang.Group, tokens...)
}

func (r *reader) skipWS(skipNewlines bool) {
	for r.off < len(r.src) {
		c := r.src[r.off]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			r.off++
		case c == '\n' && skipNewlines:
			r.off++
		case c == '/' && r.off+1 < len(r.src) && r.src[r.off+1] == '/':
			for r.off < len(r.src) && r.src[r.off] != '\n' {
				r.off++
			}
		case c == '#':
			for r.off < len(r.src) && r.src[r.off] != '\n' {
				r.off++
			}
		default:
			return
		}
	}
}

func (r *reader) readItem() *ast.Node {
	if r.off >= len(r.src) {
		return nil
	}
	start := r.off
	c := r.src[r.off]
	switch {
	case c == '(':
		r.off++
		return ast.New(lang.Paren, r.readSegments(')', ',')...)
	case c == '[':
		r.off++
		return ast.New(lang.Square, r.readSegments(']', ',')...)
	case c == '{':
		r.off++
		return ast.New(lang.Brace, r.readSegments('}', '\n')...)
	case c == '"':
		return r.readString()
	case isDigit(c):
		return r.readNumber()
	case isIdentStart(c):
		return r.readIdent()
	case strings.IndexByte(standalone, c) >= 0:
		r.off++
		return ast.NewLeaf(lang.Symbol, r.file.Pos(start), r.file.Pos(r.off))
	case strings.IndexByte(symbolChars, c) >= 0:
		for r.off < len(r.src) && strings.IndexByte(symbolChars, r.src[r.off]) >= 0 {
			r.off++
		}
		return ast.NewLeaf(lang.Symbol, r.file.Pos(start), r.file.Pos(r.off))
	default:
		r.off++
		r.errs.Append(errors.Newf(r.file.Pos(start), errors.Lexical, "unexpected character %q", c))
		return ast.NewLeaf(lang.Symbol, r.file.Pos(start), r.file.Pos(r.off))
	}
}

func (r *reader) readIdent() *ast.Node {
	start := r.off
	for r.off < len(r.src) && isIdentPart(r.src[r.off]) {
		r.off++
	}
	startPos, endPos := r.file.Pos(start), r.file.Pos(r.off)
	if string(r.src[start:r.off]) == "_" {
		return ast.NewLeaf(lang.DontCare, startPos, endPos)
	}
	return ast.NewLeaf(lang.Ident, startPos, endPos)
}

func (r *reader) readNumber() *ast.Node {
	start := r.off
	for r.off < len(r.src) && isDigit(r.src[r.off]) {
		r.off++
	}
	if r.off+1 < len(r.src) && r.src[r.off] == '.' && isDigit(r.src[r.off+1]) {
		r.off++
		for r.off < len(r.src) && isDigit(r.src[r.off]) {
			r.off++
		}
	}
	startPos, endPos := r.file.Pos(start), r.file.Pos(r.off)
	text := string(r.src[start:r.off])
	dec, _, err := apd.NewFromString(text)
	if err != nil {
		r.errs.Append(errors.Newf(startPos, errors.Lexical, "invalid number literal %q", text))
		return ast.NewLeaf(lang.NumberLit, startPos, endPos)
	}
	return ast.NewLiteral(lang.NumberLit, startPos, endPos, dec)
}

func (r *reader) readString() *ast.Node {
	start := r.off
	r.off++
	for r.off < len(r.src) {
		c := r.src[r.off]
		if c == '\\' && r.off+1 < len(r.src) {
			r.off += 2
			continue
		}
		if c == '"' {
			r.off++
			break
		}
		if c == '\n' {
			r.errs.Append(errors.Newf(r.file.Pos(start), errors.Lexical, "string literal not terminated"))
			break
		}
		r.off++
	}
	return ast.NewLeaf(lang.StringLit, r.file.Pos(start), r.file.Pos(r.off))
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
