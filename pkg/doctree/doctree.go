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

// Package doctree defines the typed document tree the interpreter builds:
// headers, block and inline scopes, paragraphs, and the host-extensible
// Block/Inline/Header interfaces that let evaluated host expressions drop
// their own node kinds into the tree.
package doctree

import "github.com/scribelang/scribe/pkg/source"

// Spanned is embedded by every concrete tree node to carry its source span.
type Spanned struct {
	Span source.Span
}

// SourceSpan satisfies the Block/Inline/Header span accessor.
func (s Spanned) SourceSpan() source.Span { return s.Span }

// Block is any node that may appear in a BlockScope: the built-in
// BlockScope and Paragraph, or a host-supplied block value returned from an
// evaluated escape bracket.
type Block interface {
	SourceSpan() source.Span
	isBlock()
}

// Inline is any node that may appear in a Sentence: the built-in
// InlineScope, Text, and Raw, or a host-supplied inline value.
type Inline interface {
	SourceSpan() source.Span
	isInline()
}

// HostBlock is embedded by a host-supplied block type so that it satisfies
// Block; the embedding type gets its span accessor from HostBlock too.
type HostBlock struct{ Spanned }

func (*HostBlock) isBlock() {}

// HostInline is embedded by a host-supplied inline type so that it
// satisfies Inline.
type HostInline struct{ Spanned }

func (*HostInline) isInline() {}

// Header is a document section heading with an integer Weight (smaller is
// shallower) and arbitrary host-supplied payload reachable via the
// interface; hosts implement this on their own evaluated objects.
type Header interface {
	SourceSpan() source.Span
	Weight() int
}

// BlockScope is an ordered list of blocks produced by `{ ... }` scope
// syntax at block level, or built directly by a BlockScopeBuilder.
type BlockScope struct {
	Spanned
	Children []Block
}

func (*BlockScope) isBlock() {}

// Paragraph is a non-empty ordered list of non-empty Sentences.
type Paragraph struct {
	Spanned
	Sentences []*Sentence
}

func (*Paragraph) isBlock() {}

// Sentence is a non-empty ordered list of inlines.
type Sentence struct {
	Spanned
	Inlines []Inline
}

// InlineScope is an ordered list of inlines produced by `{ ... }` scope
// syntax in inline mode, or built directly by an InlineScopeBuilder.
type InlineScope struct {
	Spanned
	Children []Inline
}

func (*InlineScope) isInline() {}

// Text is a run of plain prose text, with pending whitespace already
// folded in per the flush rules.
type Text struct {
	Spanned
	Contents string
}

func (*Text) isInline() {}

// Raw is the verbatim contents of a `#{ ... }#`-style raw scope, or the
// result of an evaluated RawScopeBuilder. It satisfies both Block and
// Inline contexts by being wrapped at the point of use (see interp); the
// type itself only needs to be an Inline, since every place the core emits
// a bare Raw is an inline position (§4.4, §4.6 wrap raw as inline then
// push a Paragraph around it when found mid-block-scope).
type Raw struct {
	Spanned
	Data string
}

func (*Raw) isInline() {}

// DocSegment is a header plus its subordinate content, nested by header
// weight: every Subsegment's header weight is strictly greater than this
// segment's.
type DocSegment struct {
	Header      Header
	Contents    *BlockScope
	Subsegments []*DocSegment
}

// Document is the root of a parsed source: a top-level BlockScope holding
// content that precedes the first header, plus the ordered list of
// top-level segments.
type Document struct {
	Contents *BlockScope
	Segments []*DocSegment
}
