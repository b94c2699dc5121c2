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

// Package errors defines the error values produced by every stage of the
// pipeline. Errors are values that live in the tree (see ast.NewError), not
// exceptions: a rule that notices a malformed construct returns one of
// these wrapped in an Error node, and the pass continues rewriting the
// rest of the tree so multiple diagnostics can surface from a single run.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/project-verona/verona-go/token"
)

// Error is the common diagnostic type produced anywhere in the pipeline.
type Error interface {
	error

	// Position returns the primary source location of the error.
	Position() token.Pos

	// InputPositions returns secondary locations that contributed to the
	// error (for example, both sides of a failed subtype check).
	InputPositions() []token.Pos

	// Category classifies the error by stage of the pipeline it surfaced
	// from: lexical, structural, type-grammar, resolution, or schema.
	Category() Category
}

// Category distinguishes where in the pipeline an error originated, so
// diagnostics can be grouped or filtered by stage.
type Category int

const (
	Lexical Category = iota
	Structural
	TypeGrammar
	Resolution
	Schema
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	case TypeGrammar:
		return "type grammar"
	case Resolution:
		return "resolution"
	case Schema:
		return "schema"
	default:
		return "error"
	}
}

type posError struct {
	pos    token.Pos
	inputs []token.Pos
	cat    Category
	msg    string
}

func (e *posError) Position() token.Pos         { return e.pos }
func (e *posError) InputPositions() []token.Pos { return e.inputs }
func (e *posError) Category() Category          { return e.cat }

func (e *posError) Error() string {
	p := e.pos.Position()
	if p.IsValid() {
		return fmt.Sprintf("%s: %s", p, e.msg)
	}
	return e.msg
}

// Newf creates an Error positioned at pos with the given category and a
// printf-style message.
func Newf(pos token.Pos, cat Category, format string, args ...any) Error {
	return &posError{pos: pos, cat: cat, msg: fmt.Sprintf(format, args...)}
}

// WithInputs attaches secondary positions (e.g. both sides of a failed
// subtype judgement) to an existing Error.
func WithInputs(err Error, inputs ...token.Pos) Error {
	if pe, ok := err.(*posError); ok {
		cp := *pe
		cp.inputs = append(append([]token.Pos(nil), pe.inputs...), inputs...)
		return &cp
	}
	return err
}

// A List is an ordered collection of Errors that itself implements error.
// The pipeline accumulates one per pass run and surfaces it in place of
// continuing to the next pass.
type List struct {
	errs []Error
}

// Append adds err to the list. A nil err is a no-op, so callers can always
// write `list.Append(maybeErr)` without a nil check.
func (l *List) Append(err Error) {
	if err == nil {
		return
	}
	l.errs = append(l.errs, err)
}

// Len reports how many errors have been collected.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.errs)
}

// Errors returns the accumulated errors in the order they were appended.
func (l *List) Errors() []Error {
	if l == nil {
		return nil
	}
	return l.errs
}

// Sanitize sorts the list by position and removes exact-duplicate messages,
// mirroring cue/errors' List.Sanitize behavior so repeated rule firings on
// the same malformed fragment produce one diagnostic, not several.
func (l *List) Sanitize() {
	if l == nil || len(l.errs) < 2 {
		return
	}
	sort.SliceStable(l.errs, func(i, j int) bool {
		pi, pj := l.errs[i].Position().Position(), l.errs[j].Position().Position()
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Offset != pj.Offset {
			return pi.Offset < pj.Offset
		}
		return l.errs[i].Error() < l.errs[j].Error()
	})
	out := l.errs[:0]
	var lastKey string
	for _, e := range l.errs {
		key := e.Position().Position().String() + "|" + e.Error()
		if key == lastKey {
			continue
		}
		lastKey = key
		out = append(out, e)
	}
	l.errs = out
}

// Error implements the error interface by joining every message on its own
// line, each prefixed with its position.
func (l *List) Error() string {
	if l == nil || len(l.errs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range l.errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
