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

// BlockScope collects blocks until its closing '}'. It is one of the two
// processors (with TopLevelProcessor) that opt into hosting a file opened
// by a code bracket: tokens from that file are fed to it directly, with no
// intermediate processor on the stack, until the file ends.
type BlockScope struct {
	Base
	blockState
	children []doctree.Block
}

func NewBlockScope(seed source.Span) *BlockScope {
	return &BlockScope{Base: Base{"block scope"}, blockState: newBlockState(seed)}
}

func (b *BlockScope) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.ScopeClose:
		if tok.Span.File != b.ctx.First.File {
			return Status{}, ierr.NewBlockScopeCloseOutsideScope(tok.Span)
		}
		b.ctx.Extend(tok.Span)
		scope := &doctree.BlockScope{Spanned: doctree.Spanned{Span: b.ctx.Span()}, Children: b.children}
		return Pop(ptrElem(BlockElement(scope))), nil
	case token.EOF:
		return Status{}, ierr.NewEndedInsideScope(b.ctx.Span())
	}
	st, err, handled := blockModeToken(env, &b.blockState, tok)
	if handled {
		return st, err
	}
	return Status{}, assertf("block scope: unexpected token %v", tok.Kind)
}

func (b *BlockScope) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	switch elem.Kind {
	case ElemHeader:
		return Status{}, ierr.NewCodeEmittedHeaderInBlockScope(elem.Header.SourceSpan())
	case ElemBlock:
		b.children = append(b.children, elem.Block)
		b.noteBlockEmitted(elem.Block.SourceSpan())
		return Continue(), nil
	case ElemInline:
		return seedElement(env, NewParagraph(elem.Inline.SourceSpan()), elem)
	}
	return Status{}, assertf("block scope: unknown element kind %v", elem.Kind)
}

func (b *BlockScope) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	b.onSourceInside()
	return nil
}

func (b *BlockScope) OnEmittedSourceClosed(env *Env, sourceSpan source.Span) {
	b.onSourceClosed(sourceSpan)
}
