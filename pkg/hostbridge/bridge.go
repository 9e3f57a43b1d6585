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

// Package hostbridge defines the interpreter's one external collaborator:
// something that can compile and evaluate the text inside an escape
// bracket, classify the resulting object, and drive a builder once a scope
// built from the surrounding source has been parsed. The package also
// ships a concrete Bridge backed by github.com/traefik/yaegi, the pack's
// own embeddable Go interpreter.
package hostbridge

import (
	"fmt"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/ierr"
)

// Kind classifies the result of an evaluated escape bracket.
type Kind int

const (
	KindNone Kind = iota
	KindHeader
	KindBlock
	KindInline
	KindSource
	KindBlockBuilder
	KindInlineBuilder
	KindRawBuilder
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHeader:
		return "header"
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindSource:
		return "file insertion"
	case KindBlockBuilder:
		return "block-scope builder"
	case KindInlineBuilder:
		return "inline-scope builder"
	case KindRawBuilder:
		return "raw-scope builder"
	default:
		return "other"
	}
}

// SourceInsertion is the Go analogue of TurnipTextSource: an object an
// escape bracket can return to splice another file into the document being
// parsed.
type SourceInsertion struct {
	Name     string
	Contents string
}

// BlockScopeBuilder is satisfied by an evaluated object that wants to
// consume a following `{ ... }` block scope.
type BlockScopeBuilder interface {
	BuildFromBlocks(*doctree.BlockScope) (interface{}, error)
}

// InlineScopeBuilder is satisfied by an evaluated object that wants to
// consume a following `{ ... }` inline scope.
type InlineScopeBuilder interface {
	BuildFromInlines(*doctree.InlineScope) (interface{}, error)
}

// RawScopeBuilder is satisfied by an evaluated object that wants to consume
// a following `#{ ... }#` raw scope.
type RawScopeBuilder interface {
	BuildFromRaw(*doctree.Raw) (interface{}, error)
}

// EvalMode is ierr.EvalMode, re-exported so callers need not import ierr
// just to name a compile stage.
type EvalMode = ierr.EvalMode

const (
	EvalExpression         = ierr.EvalExpression
	ExecStatements         = ierr.ExecStatements
	ExecIndentedStatements = ierr.ExecIndentedStatements
)

// Bridge is the interpreter's external collaborator. CompileAndEval
// attempts to compile codeText under the given mode and, on success,
// evaluate it; a non-nil err that wraps ErrIndentShaped signals the Code
// processor (§4.8) that it should retry under ExecIndentedStatements.
type Bridge interface {
	CompileAndEval(codeText string, mode EvalMode) (obj interface{}, err error)
	Classify(obj interface{}) Kind
	Build(builder interface{}, kind Kind, arg interface{}) (interface{}, error)
}

// ErrIndentShaped is returned (wrapped) by CompileAndEval when a statement
// compile failed in a way that suggests retrying with the "if true { ... }"
// guard might succeed -- the Go analogue of the reference's Python
// IndentationError detection.
var ErrIndentShaped = indentShapedError{}

type indentShapedError struct{}

func (indentShapedError) Error() string { return "statement sequence requires a wrapping block" }

// dispatchBuild implements the common builder-kind dispatch shared by every
// Bridge implementation: given the kind Classify already decided on, type
// check the builder and argument and invoke the matching BuildFrom* method.
func dispatchBuild(builder interface{}, kind Kind, arg interface{}) (interface{}, error) {
	switch kind {
	case KindBlockBuilder:
		bb, ok := builder.(BlockScopeBuilder)
		if !ok {
			return nil, fmt.Errorf("%T is not a BlockScopeBuilder", builder)
		}
		blocks, ok := arg.(*doctree.BlockScope)
		if !ok {
			return nil, fmt.Errorf("build-from-blocks argument is %T, not *doctree.BlockScope", arg)
		}
		return bb.BuildFromBlocks(blocks)
	case KindInlineBuilder:
		ib, ok := builder.(InlineScopeBuilder)
		if !ok {
			return nil, fmt.Errorf("%T is not an InlineScopeBuilder", builder)
		}
		inlines, ok := arg.(*doctree.InlineScope)
		if !ok {
			return nil, fmt.Errorf("build-from-inlines argument is %T, not *doctree.InlineScope", arg)
		}
		return ib.BuildFromInlines(inlines)
	case KindRawBuilder:
		rb, ok := builder.(RawScopeBuilder)
		if !ok {
			return nil, fmt.Errorf("%T is not a RawScopeBuilder", builder)
		}
		raw, ok := arg.(*doctree.Raw)
		if !ok {
			return nil, fmt.Errorf("build-from-raw argument is %T, not *doctree.Raw", arg)
		}
		return rb.BuildFromRaw(raw)
	default:
		return nil, fmt.Errorf("unsupported builder kind %v", kind)
	}
}
