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

// Package interp implements the stack of cooperating token processors that
// resolves source tokens into a doctree.Document: one small state machine
// per syntactic construct (paragraph, block scope, inline scope, raw
// scope, escape bracket, comment, and the ambiguous-`{` resolver),
// composed by a push-down automaton instead of one monolithic state
// machine.
package interp

import (
	"fmt"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// Options configures one interpreter run.
type Options struct {
	// MaxFileStackDepth bounds how many files may be nested via file
	// insertion before FileStackExceededLimit is raised. Zero means the
	// package default (64).
	MaxFileStackDepth int
}

func (o Options) maxDepth() int {
	if o.MaxFileStackDepth <= 0 {
		return 64
	}
	return o.MaxFileStackDepth
}

// Env is threaded through every processor call: the source map tokens and
// spans refer into, the HostBridge for Code processors, and the run's
// Options.
type Env struct {
	Sources *source.Map
	Bridge  hostbridge.Bridge
	Options Options
}

// ElementKind tags the payload carried by an Element.
type ElementKind int

const (
	ElemBlock ElementKind = iota
	ElemInline
	ElemHeader
)

// Element is a tagged value a processor emits to its parent.
type Element struct {
	Kind   ElementKind
	Block  doctree.Block
	Inline doctree.Inline
	Header doctree.Header
}

func BlockElement(b doctree.Block) Element   { return Element{Kind: ElemBlock, Block: b} }
func InlineElement(i doctree.Inline) Element { return Element{Kind: ElemInline, Inline: i} }
func HeaderElement(h doctree.Header) Element { return Element{Kind: ElemHeader, Header: h} }

// StatusKind tags a Processor's response to a token or emitted element.
type StatusKind int

const (
	StContinue StatusKind = iota
	StPush
	StPop
	StPopReprocess
	StPopNewSource
)

// Status is a Processor's response. Children, when non-empty, are pushed
// in order (Children[0] deepest, Children[len-1] ends up on top); a
// processor that pushes one plain child uses Push, and the seed helpers
// below use the multi-child form to flatten a cascade of immediately-
// resolving pushes into a single Status.
type Status struct {
	Kind     StatusKind
	Children []Processor
	Element  *Element

	// Populated for StPopNewSource.
	CodeSpan source.Span
	Source   hostbridge.SourceInsertion
}

func Continue() Status                { return Status{Kind: StContinue} }
func Push(p Processor) Status         { return Status{Kind: StPush, Children: []Processor{p}} }
func PushAll(ps []Processor) Status   { return Status{Kind: StPush, Children: ps} }
func Pop(e *Element) Status           { return Status{Kind: StPop, Element: e} }
func PopReprocess(e *Element) Status  { return Status{Kind: StPopReprocess, Element: e} }
func PopNewSource(codeSpan source.Span, src hostbridge.SourceInsertion) Status {
	return Status{Kind: StPopNewSource, CodeSpan: codeSpan, Source: src}
}

// Processor is the abstract contract of a state-machine layer in the
// interpreter (§4.2 of the design).
type Processor interface {
	ProcessToken(env *Env, tok token.Token) (Status, error)
	ProcessEmittedElement(env *Env, elem Element) (Status, error)
	OnEmittedSourceInside(env *Env, codeSpan source.Span) error
	OnEmittedSourceClosed(env *Env, sourceSpan source.Span)
}

// Base gives every concrete processor default implementations for the
// three hooks most of them never override: by default a processor vetoes
// file insertion (only BlockScope and TopLevel opt in), never needs to
// react to one closing, and panics if asked to accept an emitted element
// it never pushed a child capable of producing (an internal contract
// violation, not a user-facing error).
type Base struct{ Name string }

func (b Base) OnEmittedSourceInside(env *Env, codeSpan source.Span) error {
	return &fileInsertionNotAllowed{name: b.Name}
}

func (b Base) OnEmittedSourceClosed(env *Env, sourceSpan source.Span) {}

func (b Base) ProcessEmittedElement(env *Env, elem Element) (Status, error) {
	panic(fmt.Sprintf("scribe: %s received an emitted element but never pushed a child that could produce one", b.Name))
}

type fileInsertionNotAllowed struct{ name string }

func (e *fileInsertionNotAllowed) Error() string {
	return fmt.Sprintf("%s does not allow file insertion here", e.name)
}

// seed feeds tok into a freshly constructed processor p as its first
// token, and flattens the result into a single Status the caller can
// return as-is. This is how "push Paragraph seeded with this token" and
// AmbiguousScope's block/inline transitions are implemented: the pushing
// processor is responsible for constructing the child and calling seed,
// rather than the engine special-casing "push and immediately re-deliver".
func seed(env *Env, p Processor, tok token.Token) (Status, error) {
	st, err := p.ProcessToken(env, tok)
	if err != nil {
		return Status{}, err
	}
	switch st.Kind {
	case StContinue:
		return Push(p), nil
	case StPush:
		return PushAll(append([]Processor{p}, st.Children...)), nil
	default:
		// StPop / StPopReprocess / StPopNewSource: p resolved itself
		// immediately from its very first token; bubble that result up
		// exactly as if p had been on the stack and then popped.
		return st, nil
	}
}

// seedElement is seed's analogue for "push a new Paragraph seeded with
// the inline [Block/Header is rejected]" style transitions, where the
// triggering input is an emitted Element rather than a raw token.
func seedElement(env *Env, p Processor, elem Element) (Status, error) {
	st, err := p.ProcessEmittedElement(env, elem)
	if err != nil {
		return Status{}, err
	}
	switch st.Kind {
	case StContinue:
		return Push(p), nil
	case StPush:
		return PushAll(append([]Processor{p}, st.Children...)), nil
	default:
		return st, nil
	}
}

// AssertionError marks an internal invariant violation: a contract breach
// between processors rather than a user-facing syntax or expression error.
// It is never recovered inside the core (§7).
type AssertionError struct{ Msg string }

func (e *AssertionError) Error() string { return "scribe: internal assertion failed: " + e.Msg }

func assertf(format string, args ...interface{}) error {
	return &AssertionError{Msg: fmt.Sprintf(format, args...)}
}
