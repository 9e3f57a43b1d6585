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
	"errors"
	"strings"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// Code accumulates the verbatim text of an escape bracket's contents and,
// on the matching close, hands it to the HostBridge's three-stage compile
// fallback (§4.8): an expression first, then a statement sequence, then an
// indentation-guarded statement sequence. A plain close classifies the
// result directly into a document element, a file insertion, or an error;
// an owning close (CodeCloseOwningInline/Block/Raw) instead requires a
// builder and hands the following scope's contents to it once parsed.
type Code struct {
	Base
	n   int
	ctx *source.BuilderContext
	buf strings.Builder
}

func NewCode(n int, openSpan source.Span) *Code {
	return &Code{Base: Base{"escape bracket"}, n: n, ctx: source.NewBuilderContext(openSpan)}
}

// ProcessEmittedElement only fires for a Code that took the owning-close
// path: it pushed a codeBuildAdapter on top of itself (rather than popping
// immediately the way a plain close does) and has no content of its own,
// so once that adapter finally pops with the built element, Code just
// forwards it on.
func (c *Code) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	return Pop(&elem), nil
}

func (c *Code) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch {
	case tok.Kind == token.EOF:
		return Status{}, ierr.NewEndedInsideCode(c.ctx.Span())
	case tok.Kind == token.CodeClose && tok.Count == c.n:
		c.ctx.Extend(tok.Span)
		return c.dispatchPlainClose(env)
	case tok.Kind == token.CodeCloseOwningInline && tok.Count == c.n:
		c.ctx.Extend(tok.Span)
		return c.dispatchOwningClose(env, hostbridge.KindInlineBuilder, "inline scope", func() Processor {
			return NewInlineScope(tok.Span)
		})
	case tok.Kind == token.CodeCloseOwningBlock && tok.Count == c.n:
		c.ctx.Extend(tok.Span)
		return c.dispatchOwningClose(env, hostbridge.KindBlockBuilder, "block scope", func() Processor {
			return NewBlockScope(tok.Span)
		})
	case tok.Kind == token.CodeCloseOwningRaw && tok.Count == c.n:
		c.ctx.Extend(tok.Span)
		return c.dispatchOwningClose(env, hostbridge.KindRawBuilder, "raw scope", func() Processor {
			return NewRaw(tok.Count2, tok.Span)
		})
	default:
		c.ctx.Extend(tok.Span)
		c.buf.WriteString(tok.Raw(env.Sources))
		return Continue(), nil
	}
}

func (c *Code) dispatchPlainClose(env *Env) (Status, error) {
	obj, err := evalCode(env, c.ctx.Span(), c.buf.String())
	if err != nil {
		return Status{}, err
	}
	kind := env.Bridge.Classify(obj)
	switch kind {
	case hostbridge.KindSource:
		return PopNewSource(c.ctx.Span(), asSourceInsertion(obj)), nil
	case hostbridge.KindBlockBuilder, hostbridge.KindInlineBuilder, hostbridge.KindRawBuilder:
		return Status{}, ierr.NewCoercingEvalBracketToElement(c.ctx.Span())
	default:
		elem, err := classifyToElement(obj, kind, func() error {
			return ierr.NewCoercingEvalBracketToElement(c.ctx.Span())
		})
		if err != nil {
			return Status{}, err
		}
		return Pop(elem), nil
	}
}

func (c *Code) dispatchOwningClose(env *Env, want hostbridge.Kind, wantedName string, newInner func() Processor) (Status, error) {
	obj, err := evalCode(env, c.ctx.Span(), c.buf.String())
	if err != nil {
		return Status{}, err
	}
	kind := env.Bridge.Classify(obj)
	if kind != want {
		return Status{}, ierr.NewCoercingEvalBracketToBuilder(c.ctx.Span(), wantedName, kind.String())
	}
	adapter := newCodeBuildAdapter(newInner(), obj, want, c.ctx.Span())
	return Push(adapter), nil
}

// classifyToElement converts a HostBridge-classified value into a document
// Element, or calls onFail for anything that cannot become one (a builder
// with nowhere to build from, or a plain Go value with no meaning here).
func classifyToElement(obj interface{}, kind hostbridge.Kind, onFail func() error) (*Element, error) {
	switch kind {
	case hostbridge.KindNone:
		return nil, nil
	case hostbridge.KindHeader:
		return ptrElem(HeaderElement(obj.(doctree.Header))), nil
	case hostbridge.KindBlock:
		return ptrElem(BlockElement(obj.(doctree.Block))), nil
	case hostbridge.KindInline:
		return ptrElem(InlineElement(obj.(doctree.Inline))), nil
	default:
		return nil, onFail()
	}
}

func asSourceInsertion(obj interface{}) hostbridge.SourceInsertion {
	switch v := obj.(type) {
	case hostbridge.SourceInsertion:
		return v
	case *hostbridge.SourceInsertion:
		return *v
	default:
		return hostbridge.SourceInsertion{}
	}
}

// evalCode runs the three-stage compile fallback against codeText. A
// failure of the first stage that does not look like a syntax problem is
// treated as a genuine runtime error in an otherwise-valid expression and
// is not retried as a statement sequence.
func evalCode(env *Env, span source.Span, codeText string) (interface{}, error) {
	obj, err := env.Bridge.CompileAndEval(codeText, hostbridge.EvalExpression)
	if err == nil {
		return obj, nil
	}
	if !hostbridge.LooksLikeSyntaxError(err) {
		return nil, ierr.NewRunningEvalBrackets(span, err)
	}
	errs := []error{err}

	obj, err = env.Bridge.CompileAndEval(codeText, hostbridge.ExecStatements)
	if err == nil {
		return obj, nil
	}
	errs = append(errs, err)
	if !errors.Is(err, hostbridge.ErrIndentShaped) {
		return nil, ierr.NewCompilingEvalBrackets(span, hostbridge.ExecStatements, errs)
	}

	obj, err = env.Bridge.CompileAndEval(codeText, hostbridge.ExecIndentedStatements)
	if err == nil {
		return obj, nil
	}
	errs = append(errs, err)
	return nil, ierr.NewCompilingEvalBrackets(span, hostbridge.ExecIndentedStatements, errs)
}

// codeBuildAdapter wraps the BlockScope/InlineScope/Raw processor pushed
// for an owning close: it behaves exactly like that processor until it
// finally Pops, at which point the built scope is handed to the evaluated
// builder instead of being emitted directly, and the builder's own result
// is classified and emitted in its place.
type codeBuildAdapter struct {
	Base
	inner    Processor
	builder  interface{}
	wantKind hostbridge.Kind
	codeSpan source.Span
}

func newCodeBuildAdapter(inner Processor, builder interface{}, wantKind hostbridge.Kind, codeSpan source.Span) *codeBuildAdapter {
	return &codeBuildAdapter{Base: Base{"escape bracket builder"}, inner: inner, builder: builder, wantKind: wantKind, codeSpan: codeSpan}
}

func (a *codeBuildAdapter) ProcessToken(env *Env, tok token.Token) (Status, error) {
	st, err := a.inner.ProcessToken(env, tok)
	if err != nil {
		return Status{}, err
	}
	return a.resolve(env, st)
}

func (a *codeBuildAdapter) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	st, err := a.inner.ProcessEmittedElement(env, elem)
	if err != nil {
		return Status{}, err
	}
	return a.resolve(env, st)
}

func (a *codeBuildAdapter) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	return a.inner.OnEmittedSourceInside(env, codeSpan)
}

func (a *codeBuildAdapter) OnEmittedSourceClosed(env *Env, sourceSpan source.Span) {
	a.inner.OnEmittedSourceClosed(env, sourceSpan)
}

func (a *codeBuildAdapter) resolve(env *Env, st Status) (Status, error) {
	if st.Kind != StPop {
		return st, nil
	}
	var arg interface{}
	switch a.wantKind {
	case hostbridge.KindBlockBuilder:
		arg = st.Element.Block
	case hostbridge.KindInlineBuilder, hostbridge.KindRawBuilder:
		arg = st.Element.Inline
	}
	built, err := env.Bridge.Build(a.builder, a.wantKind, arg)
	if err != nil {
		return Status{}, ierr.NewBuilding(a.codeSpan, err)
	}
	kind := env.Bridge.Classify(built)
	elem, err := classifyToElement(built, kind, func() error {
		return ierr.NewCoercingBuildResultToElement(a.codeSpan)
	})
	if err != nil {
		return Status{}, err
	}
	return Pop(elem), nil
}
