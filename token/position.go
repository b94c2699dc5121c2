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

// Package token holds source position bookkeeping shared by every stage of
// the pipeline, from file discovery through the last rewrite pass.
package token

import (
	"fmt"
	"sort"
	"sync"
)

// Pos is a compact handle into a File: an offset plus the identity of the
// File it belongs to. It is comparable and cheap to copy, and is what every
// ast.Node stores instead of a line/column pair.
type Pos struct {
	file   *File
	offset int
}

// NoPos is the zero value of Pos; it denotes an unknown or synthesized
// location (for example, a node materialized by a rewrite rule rather than
// parsed from source).
var NoPos = Pos{}

// IsValid reports whether the position is within a known file.
func (p Pos) IsValid() bool { return p.file != nil }

// File returns the file p belongs to, or nil for NoPos.
func (p Pos) File() *File { return p.file }

// Offset returns the byte offset of p within its file.
func (p Pos) Offset() int { return p.offset }

// Add returns the position n bytes after p, within the same file.
func (p Pos) Add(n int) Pos {
	if p.file == nil {
		return p
	}
	return Pos{file: p.file, offset: p.offset + n}
}

// Position expands p into a human-printable line/column form.
func (p Pos) Position() Position {
	if p.file == nil {
		return Position{}
	}
	return p.file.position(p.offset)
}

// Text returns the source slice of p.file spanning [p, end), or "" if either
// position has no file. Two Text results compare equal by content exactly
// when the identifiers they name have the same spelling.
func (p Pos) Text(end Pos) string {
	if p.file == nil || end.file != p.file || end.offset < p.offset {
		return ""
	}
	return p.file.slice(p.offset, end.offset)
}

// A Position is a printable source location: filename, byte offset, and the
// derived line/column.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position names an actual line.
func (pos Position) IsValid() bool { return pos.Line > 0 }

func (pos Position) String() string {
	s := pos.Filename
	if pos.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// A File tracks one source file's content and line boundaries, so that Pos
// values for that file can be expanded into Position without re-scanning.
type File struct {
	mu    sync.Mutex
	name  string
	base  int
	size  int
	lines []int // byte offsets of each line start, lines[0] == 0
	src   []byte
}

// NewFile registers a new source file in a FileSet-free, standalone form
// (used by tests and by tools that only ever handle one file at a time; the
// FileSet below is used by the multi-file driver).
func NewFile(name string, src []byte) *File {
	f := &File{name: name, size: len(src), lines: []int{0}, src: src}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// Name returns the file's registered name.
func (f *File) Name() string { return f.name }

// Size returns the length of the file's content in bytes.
func (f *File) Size() int { return f.size }

// Pos returns the Pos for the given byte offset within f.
func (f *File) Pos(offset int) Pos {
	if offset < 0 || offset > f.size {
		offset = 0
	}
	return Pos{file: f, offset: offset}
}

func (f *File) slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(f.src) {
		end = len(f.src)
	}
	if start > end {
		return ""
	}
	return string(f.src[start:end])
}

func (f *File) position(offset int) Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return Position{
		Filename: f.name,
		Offset:   offset,
		Line:     i + 1,
		Column:   offset - f.lines[i] + 1,
	}
}

// A FileSet groups the files that make up one compilation so that Pos values
// minted from different files remain distinguishable even though each is
// just an (file, offset) pair.
type FileSet struct {
	mu    sync.Mutex
	files []*File
}

// NewFileSet creates an empty set.
func NewFileSet() *FileSet { return &FileSet{} }

// AddFile registers a new file with the given name and content, returning
// the *File to mint Pos values from.
func (s *FileSet) AddFile(name string, src []byte) *File {
	f := NewFile(name, src)
	s.mu.Lock()
	s.files = append(s.files, f)
	s.mu.Unlock()
	return f
}

// Files returns the files registered so far, in registration order.
func (s *FileSet) Files() []*File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*File, len(s.files))
	copy(out, s.files)
	return out
}
