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

package interp

import (
	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// segFrame is one entry in TopLevelProcessor's in-progress segment stack:
// a header plus the blocks and completed subsegments seen since it opened.
type segFrame struct {
	header  doctree.Header
	blocks  []doctree.Block
	subsegs []*doctree.DocSegment
}

// TopLevelProcessor is the root of the processor stack for the whole
// document: it is never pushed or popped, and it is the `top` every
// FileStack falls back to once its own stack empties. Besides acting as
// block mode for the root file, it owns the header-weight stacking that
// turns a flat run of headers and blocks into nested DocSegments (§4.11).
type TopLevelProcessor struct {
	Base
	blockState
	rootBlocks  []doctree.Block
	segStack    []*segFrame
	topSegments []*doctree.DocSegment
}

func NewTopLevelProcessor(rootFileIdx int) *TopLevelProcessor {
	seed := source.Span{File: rootFileIdx, Start: 0, End: 0}
	return &TopLevelProcessor{Base: Base{"document"}, blockState: newBlockState(seed)}
}

func (t *TopLevelProcessor) currentBlocks() *[]doctree.Block {
	if len(t.segStack) == 0 {
		return &t.rootBlocks
	}
	return &t.segStack[len(t.segStack)-1].blocks
}

func (t *TopLevelProcessor) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.ScopeClose:
		return Status{}, ierr.NewBlockScopeCloseOutsideScope(tok.Span)
	case token.EOF:
		t.ctx.Extend(tok.Span)
		return Continue(), nil
	}
	st, err, handled := blockModeToken(env, &t.blockState, tok)
	if handled {
		return st, err
	}
	return Status{}, assertf("top level: unexpected token %v", tok.Kind)
}

func (t *TopLevelProcessor) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	switch elem.Kind {
	case ElemHeader:
		t.pushHeader(elem.Header)
		t.noteBlockEmitted(elem.Header.SourceSpan())
		return Continue(), nil
	case ElemBlock:
		*t.currentBlocks() = append(*t.currentBlocks(), elem.Block)
		t.noteBlockEmitted(elem.Block.SourceSpan())
		return Continue(), nil
	case ElemInline:
		return seedElement(env, NewParagraph(elem.Inline.SourceSpan()), elem)
	}
	return Status{}, assertf("top level: unknown element kind %v", elem.Kind)
}

func (t *TopLevelProcessor) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	t.onSourceInside()
	return nil
}

func (t *TopLevelProcessor) OnEmittedSourceClosed(env *Env, sourceSpan source.Span) {
	t.onSourceClosed(sourceSpan)
}

// pushHeader closes out every open segment whose header is not strictly
// shallower than h's, then opens a new frame for h.
func (t *TopLevelProcessor) pushHeader(h doctree.Header) {
	for len(t.segStack) > 0 && t.segStack[len(t.segStack)-1].header.Weight() >= h.Weight() {
		t.popSeg()
	}
	t.segStack = append(t.segStack, &segFrame{header: h})
}

func (t *TopLevelProcessor) popSeg() {
	f := t.segStack[len(t.segStack)-1]
	t.segStack = t.segStack[:len(t.segStack)-1]
	seg := &doctree.DocSegment{
		Header:      f.header,
		Contents:    &doctree.BlockScope{Spanned: doctree.Spanned{Span: f.header.SourceSpan()}, Children: f.blocks},
		Subsegments: f.subsegs,
	}
	if len(t.segStack) > 0 {
		parent := t.segStack[len(t.segStack)-1]
		parent.subsegs = append(parent.subsegs, seg)
	} else {
		t.topSegments = append(t.topSegments, seg)
	}
}

// Finalize pops every still-open segment (equivalent to popping the whole
// stack with an incoming header of weight -infinity) and returns the
// completed Document. It is called once by ProcessorStacks after the
// outermost file's EOF token has been delivered to this processor.
func (t *TopLevelProcessor) Finalize() *doctree.Document {
	for len(t.segStack) > 0 {
		t.popSeg()
	}
	return &doctree.Document{
		Contents: &doctree.BlockScope{Spanned: doctree.Spanned{Span: t.ctx.Span()}, Children: t.rootBlocks},
		Segments: t.topSegments,
	}
}
