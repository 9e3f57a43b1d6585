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

// Paragraph accumulates prose until a blank line, EOF, or a structural
// token that cannot continue it. It splits on unescaped newlines into
// Sentences: a newline joined by a preceding backslash folds into the
// current sentence as a soft space instead of starting a new one.
type Paragraph struct {
	Base
	ctx       *source.BuilderContext
	sentences []*doctree.Sentence
	cur       inlineAccum
	blankRun  int
}

func NewParagraph(seed source.Span) *Paragraph {
	return &Paragraph{Base: Base{"paragraph"}, ctx: source.NewBuilderContext(seed)}
}

func (p *Paragraph) breakSentence() {
	if p.cur.isEmpty() {
		return
	}
	sp := p.cur.span()
	p.sentences = append(p.sentences, &doctree.Sentence{Spanned: doctree.Spanned{Span: sp}, Inlines: p.cur.take()})
	p.cur = inlineAccum{}
}

func (p *Paragraph) finish() *doctree.Paragraph {
	p.breakSentence()
	return &doctree.Paragraph{Spanned: doctree.Spanned{Span: p.ctx.Span()}, Sentences: p.sentences}
}

func (p *Paragraph) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.Whitespace:
		p.ctx.Extend(tok.Span)
		p.cur.addWhitespace(tok.Span)
		return Continue(), nil
	case token.Newline:
		p.ctx.Extend(tok.Span)
		p.blankRun++
		if p.blankRun >= 2 {
			return PopReprocess(ptrElem(BlockElement(p.finish()))), nil
		}
		p.breakSentence()
		return Continue(), nil
	case token.OtherText, token.HyphenMinuses, token.EnDash, token.EmDash:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		p.cur.addText(tok.Escape(env.Sources), tok.Span)
		return Continue(), nil
	case token.EscapedChar:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		p.cur.addText(tok.Escape(env.Sources), tok.Span)
		return Continue(), nil
	case token.Backslash:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		p.cur.addText(tok.Raw(env.Sources), tok.Span)
		return Continue(), nil
	case token.Hashes:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		return Push(NewComment()), nil
	case token.CodeOpen:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		return Push(NewCode(tok.Count, tok.Span)), nil
	case token.RawScopeOpen:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		return Push(NewRaw(tok.Count, tok.Span)), nil
	case token.ScopeOpen, token.InlineScopeOpen:
		p.blankRun = 0
		p.ctx.Extend(tok.Span)
		return Push(NewInlineScope(tok.Span)), nil
	case token.BlockScopeOpen:
		return Status{}, ierr.NewBlockScopeOpenedInInlineMode(tok.Span)
	case token.ScopeClose:
		return PopReprocess(ptrElem(BlockElement(p.finish()))), nil
	case token.CodeClose, token.CodeCloseOwningInline, token.CodeCloseOwningBlock, token.CodeCloseOwningRaw:
		return Status{}, ierr.NewCodeCloseOutsideCode(tok.Span)
	case token.RawScopeClose:
		return Status{}, ierr.NewRawScopeCloseOutsideRawScope(tok.Span)
	case token.EOF:
		return PopReprocess(ptrElem(BlockElement(p.finish()))), nil
	default:
		return Status{}, assertf("paragraph: unexpected token %v", tok.Kind)
	}
}

func (p *Paragraph) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	switch elem.Kind {
	case ElemHeader:
		return Status{}, ierr.NewHeaderMidPara(elem.Header.SourceSpan())
	case ElemBlock:
		if p.blankRun >= 1 {
			return Status{}, ierr.NewInsufficientParaNewBlockSeparation(elem.Block.SourceSpan())
		}
		return Status{}, ierr.NewBlockCodeMidPara(elem.Block.SourceSpan())
	case ElemInline:
		p.blankRun = 0
		p.cur.addInline(elem.Inline)
		return Continue(), nil
	}
	return Status{}, assertf("paragraph: unknown element kind %v", elem.Kind)
}

func (p *Paragraph) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	if p.blankRun >= 1 {
		return ierr.NewInsufficientParaNewSourceSeparation(codeSpan)
	}
	return ierr.NewInsertedFileMidPara(codeSpan)
}
