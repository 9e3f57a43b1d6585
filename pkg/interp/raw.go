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
	"strings"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// Raw accumulates verbatim source text until a RawScopeClose whose hash
// count matches the scope's own. Unlike every other processor it never
// interprets escapes: the whole point of a raw scope is that its contents
// reach the tree byte-for-byte. A RawScopeOpen/Close with a different hash
// count, or any other token, is just more literal content.
type Raw struct {
	Base
	n   int
	ctx *source.BuilderContext
	buf strings.Builder
}

// NewRaw builds a Raw scope expecting a close with n hashes, seeded at sp
// (the opening token's span, whether that was a plain RawScopeOpen or the
// close of an owning escape bracket).
func NewRaw(n int, sp source.Span) *Raw {
	return &Raw{Base: Base{"raw scope"}, n: n, ctx: source.NewBuilderContext(sp)}
}

func (r *Raw) ProcessToken(env *Env, tok token.Token) (Status, error) {
	if tok.Kind == token.EOF {
		return Status{}, ierr.NewEndedInsideRawScope(r.ctx.Span())
	}
	if tok.Kind == token.RawScopeClose && tok.Count == r.n {
		r.ctx.Extend(tok.Span)
		raw := &doctree.Raw{Spanned: doctree.Spanned{Span: r.ctx.Span()}, Data: r.buf.String()}
		return Pop(ptrElem(InlineElement(raw))), nil
	}
	r.ctx.Extend(tok.Span)
	r.buf.WriteString(tok.Raw(env.Sources))
	return Continue(), nil
}
