// Copyright 2015 Google Inc.
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

// Package source owns the list of files that make up a single parse and the
// byte-accurate spans that every token and tree element carries back into
// them.
package source

import "fmt"

// FilePosition is a byte offset into one file's contents.
type FilePosition int

// File holds one parsed file's contents and its human-facing name. Files are
// appended to a Map on entry and never mutated afterwards.
type File struct {
	Name     string
	Contents string
}

// Span is an immutable (file, start, end) triple. Start and end refer to the
// same file and start <= end.
type Span struct {
	File  int
	Start FilePosition
	End   FilePosition
}

// Text returns the slice of m's file that Span s covers.
func (s Span) Text(m *Map) string {
	f := m.File(s.File)
	if f == nil {
		return ""
	}
	return f.Contents[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("file#%d:%d-%d", s.File, s.Start, s.End)
}

// Map is the list of files parsed in a single document, in the order they
// were opened. It outlives every Span and Token that refers into it.
type Map struct {
	files []*File
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// AddFile appends a new file to m and returns its index, used to build
// Spans that refer into it.
func (m *Map) AddFile(name, contents string) int {
	m.files = append(m.files, &File{Name: name, Contents: contents})
	return len(m.files) - 1
}

// File returns the file at index i, or nil if i is out of range.
func (m *Map) File(i int) *File {
	if i < 0 || i >= len(m.files) {
		return nil
	}
	return m.files[i]
}

// Len returns the number of files currently in m.
func (m *Map) Len() int { return len(m.files) }

// Loc renders a (file, line, col) triple for position p in file i, suitable
// for error messages. Lines and columns are both 1's based.
func (m *Map) Loc(i int, p FilePosition) string {
	f := m.File(i)
	if f == nil {
		return fmt.Sprintf("<unknown file %d>:%d", i, p)
	}
	line, col := 1, 1
	for _, r := range f.Contents[:p] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return fmt.Sprintf("%s:%d:%d", f.Name, line, col)
}

// BuilderContext tracks the span of tokens consumed so far by an
// in-progress processor. It grows strictly as more tokens from the same
// file are folded in; extending across files is a programming error and
// panics, since a processor's span can never straddle a file boundary.
type BuilderContext struct {
	First Span
	Last  Span
	set   bool
}

// NewBuilderContext returns a BuilderContext seeded with a single span.
func NewBuilderContext(first Span) *BuilderContext {
	return &BuilderContext{First: first, Last: first, set: true}
}

// Extend grows the context to also cover sp, which must be in the same file
// as the context's existing spans.
func (b *BuilderContext) Extend(sp Span) {
	if !b.set {
		b.First = sp
		b.Last = sp
		b.set = true
		return
	}
	if sp.File != b.First.File {
		panic(fmt.Sprintf("scribe: BuilderContext cannot span files %d and %d", b.First.File, sp.File))
	}
	b.Last = sp
}

// Span returns the full span covered so far: from the start of First to the
// end of Last.
func (b *BuilderContext) Span() Span {
	return Span{File: b.First.File, Start: b.First.Start, End: b.Last.End}
}
