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
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// blockState is embedded by both TopLevelProcessor and BlockScopeProcessor:
// the two processors that operate in "block mode" and so share the same
// token dispatch table and the same blank-line-separation bookkeeping
// (only their reactions to ScopeClose and EOF differ, which stay in each
// processor's own ProcessToken).
type blockState struct {
	ctx *source.BuilderContext

	// expectBlank is set after any block-level element is emitted: only
	// Whitespace, Newline, a comment, or EOF may follow until a Newline
	// clears it.
	expectBlank bool
	// suppressBlank is set for the duration of a child file opened by a
	// code bracket: the file's first line may begin with content, and
	// the expectation set when it closes only applies to what follows it
	// in the parent.
	suppressBlank bool
	lastBlockEnd  source.Span
}

func newBlockState(seed source.Span) blockState {
	return blockState{ctx: source.NewBuilderContext(seed)}
}

func (b *blockState) noteBlockEmitted(end source.Span) {
	if !b.suppressBlank {
		b.expectBlank = true
		b.lastBlockEnd = end
	}
}

// extend grows the processor's own span to cover sp. Tokens of a file
// inserted while this processor hosts it carry spans in that other file;
// they are processed but leave this processor's span unchanged.
func (b *blockState) extend(sp source.Span) {
	if sp.File == b.ctx.First.File {
		b.ctx.Extend(sp)
	}
}

func (b *blockState) onSourceInside() { b.suppressBlank = true }

func (b *blockState) onSourceClosed(end source.Span) {
	b.suppressBlank = false
	b.expectBlank = true
	b.lastBlockEnd = end
}

func (b *blockState) checkSeparation(tok token.Token) error {
	if !b.expectBlank || b.suppressBlank {
		return nil
	}
	switch tok.Kind {
	case token.Whitespace, token.Newline, token.Hashes, token.EOF:
		return nil
	default:
		return ierr.NewInsufficientBlockSeparation(b.lastBlockEnd, tok.Span)
	}
}

// blockModeToken implements the token dispatch table shared by TopLevel and
// BlockScope. It returns handled=false for ScopeClose and EOF, which are
// the two cases each embedder must interpret for itself.
func blockModeToken(env *Env, b *blockState, tok token.Token) (st Status, err error, handled bool) {
	if err := b.checkSeparation(tok); err != nil {
		return Status{}, err, true
	}
	switch tok.Kind {
	case token.Whitespace:
		b.extend(tok.Span)
		return Continue(), nil, true
	case token.Newline:
		b.extend(tok.Span)
		b.expectBlank = false
		return Continue(), nil, true
	case token.Hashes:
		b.extend(tok.Span)
		return Push(NewComment()), nil, true
	case token.CodeOpen:
		b.extend(tok.Span)
		return Push(NewCode(tok.Count, tok.Span)), nil, true
	case token.RawScopeOpen:
		b.extend(tok.Span)
		return Push(NewRaw(tok.Count, tok.Span)), nil, true
	case token.ScopeOpen, token.BlockScopeOpen, token.InlineScopeOpen:
		b.extend(tok.Span)
		return Push(NewAmbiguousScope(tok)), nil, true
	case token.EscapedChar:
		if tok.Escaped == '\n' {
			return Status{}, ierr.NewEscapedNewlineInBlockMode(tok.Span), true
		}
		b.extend(tok.Span)
		st, err := seed(env, NewParagraph(tok.Span), tok)
		return st, err, true
	case token.OtherText, token.Backslash, token.HyphenMinuses, token.EnDash, token.EmDash:
		b.extend(tok.Span)
		st, err := seed(env, NewParagraph(tok.Span), tok)
		return st, err, true
	case token.CodeClose, token.CodeCloseOwningInline, token.CodeCloseOwningBlock, token.CodeCloseOwningRaw:
		return Status{}, ierr.NewCodeCloseOutsideCode(tok.Span), true
	case token.RawScopeClose:
		return Status{}, ierr.NewRawScopeCloseOutsideRawScope(tok.Span), true
	case token.ScopeClose, token.EOF:
		return Status{}, nil, false
	default:
		return Status{}, nil, false
	}
}
