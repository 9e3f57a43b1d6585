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

// AmbiguousScope is pushed for a bare '{' seen in block mode, where the
// lexer has deliberately deferred the block-vs-inline decision (see
// token.ScopeOpen). Once whitespace and any leading comment are consumed,
// a Newline resolves it to a BlockScope and anything else resolves it to
// an InlineScope; in both cases the deciding token is replayed into the
// freshly built child via seed, so the child sees it as its own first
// token rather than AmbiguousScope consuming it silently.
type AmbiguousScope struct {
	Base
	ctx *source.BuilderContext
}

func NewAmbiguousScope(openTok token.Token) *AmbiguousScope {
	return &AmbiguousScope{Base: Base{"scope"}, ctx: source.NewBuilderContext(openTok.Span)}
}

// ProcessEmittedElement only ever fires once the child AmbiguousScope
// seeded (a BlockScope or InlineScope) has itself popped all the way back
// out: AmbiguousScope has no content of its own, so it just forwards the
// element to whatever pushed it in the first place.
func (a *AmbiguousScope) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	return Pop(&elem), nil
}

func (a *AmbiguousScope) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.Whitespace:
		a.ctx.Extend(tok.Span)
		return Continue(), nil
	case token.Hashes:
		a.ctx.Extend(tok.Span)
		return Push(NewComment()), nil
	case token.EOF:
		return Status{}, ierr.NewEndedInsideScope(a.ctx.Span())
	case token.Newline:
		a.ctx.Extend(tok.Span)
		return seed(env, NewBlockScope(a.ctx.Span()), tok)
	default:
		return seed(env, NewInlineScope(a.ctx.Span()), tok)
	}
}
