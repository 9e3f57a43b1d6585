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

// InlineScope accumulates inlines until its closing '}'. It never splits
// into sentences -- a single embedded newline is just whitespace -- but two
// in a row (a blank line) is illegal, since an inline scope cannot contain
// a paragraph break.
type InlineScope struct {
	Base
	ctx      *source.BuilderContext
	accum    inlineAccum
	blankRun int
}

func NewInlineScope(seed source.Span) *InlineScope {
	return &InlineScope{Base: Base{"inline scope"}, ctx: source.NewBuilderContext(seed)}
}

func (s *InlineScope) finish() *doctree.InlineScope {
	return &doctree.InlineScope{Spanned: doctree.Spanned{Span: s.ctx.Span()}, Children: s.accum.take()}
}

func (s *InlineScope) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.Whitespace:
		s.ctx.Extend(tok.Span)
		s.accum.addWhitespace(tok.Span)
		return Continue(), nil
	case token.Newline:
		s.ctx.Extend(tok.Span)
		s.blankRun++
		if s.blankRun >= 2 {
			return Status{}, ierr.NewSentenceBreakInInlineScope(tok.Span)
		}
		s.accum.addWhitespace(tok.Span)
		return Continue(), nil
	case token.OtherText, token.HyphenMinuses, token.EnDash, token.EmDash, token.EscapedChar:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		s.accum.addText(tok.Escape(env.Sources), tok.Span)
		return Continue(), nil
	case token.Backslash:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		s.accum.addText(tok.Raw(env.Sources), tok.Span)
		return Continue(), nil
	case token.Hashes:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		return Push(NewComment()), nil
	case token.CodeOpen:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		return Push(NewCode(tok.Count, tok.Span)), nil
	case token.RawScopeOpen:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		return Push(NewRaw(tok.Count, tok.Span)), nil
	case token.ScopeOpen, token.InlineScopeOpen:
		s.blankRun = 0
		s.ctx.Extend(tok.Span)
		return Push(NewInlineScope(tok.Span)), nil
	case token.BlockScopeOpen:
		return Status{}, ierr.NewBlockScopeOpenedInInlineMode(tok.Span)
	case token.ScopeClose:
		s.ctx.Extend(tok.Span)
		return Pop(ptrElem(InlineElement(s.finish()))), nil
	case token.CodeClose, token.CodeCloseOwningInline, token.CodeCloseOwningBlock, token.CodeCloseOwningRaw:
		return Status{}, ierr.NewCodeCloseOutsideCode(tok.Span)
	case token.RawScopeClose:
		return Status{}, ierr.NewRawScopeCloseOutsideRawScope(tok.Span)
	case token.EOF:
		return Status{}, ierr.NewEndedInsideScope(s.ctx.Span())
	default:
		return Status{}, assertf("inline scope: unexpected token %v", tok.Kind)
	}
}

func (s *InlineScope) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	switch elem.Kind {
	case ElemHeader:
		return Status{}, ierr.NewCodeEmittedHeaderInInlineMode(elem.Header.SourceSpan())
	case ElemBlock:
		return Status{}, ierr.NewCodeEmittedBlockInInlineMode(elem.Block.SourceSpan())
	case ElemInline:
		s.blankRun = 0
		s.accum.addInline(elem.Inline)
		return Continue(), nil
	}
	return Status{}, assertf("inline scope: unknown element kind %v", elem.Kind)
}

func (s *InlineScope) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	return ierr.NewCodeEmittedSourceInInlineMode(codeSpan)
}
