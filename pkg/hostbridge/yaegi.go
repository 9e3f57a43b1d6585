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

package hostbridge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/traefik/yaegi/interp"
)

// YaegiBridge implements Bridge by compiling and evaluating escape-bracket
// contents as Go source against a single long-lived yaegi interpreter, so
// that declarations made by one escape bracket (a `var`, a `func`) are
// visible to later ones in the same document -- the Go analogue of the
// host language's shared module namespace.
//
// YaegiBridge is not reentrant: one instance must serve exactly one
// document parse at a time, matching the single-threaded model in §5.
type YaegiBridge struct {
	interp *interp.Interpreter

	// counter disambiguates the synthetic wrapper function names so
	// sequential escape brackets in one document don't collide.
	counter int
}

// NewYaegiBridge returns a Bridge with a fresh yaegi interpreter. Use
// Use to register additional symbols (host block/inline/header
// constructors) before parsing.
func NewYaegiBridge() *YaegiBridge {
	return &YaegiBridge{interp: interp.New(interp.Options{})}
}

// Use exports an additional symbol table into the interpreter, the same
// way runsys-core's cosh interpreter registers its stdlib symbols before
// running user code.
func (b *YaegiBridge) Use(exports interp.Exports) error {
	return b.interp.Use(exports)
}

// CompileAndEval implements Bridge.
func (b *YaegiBridge) CompileAndEval(codeText string, mode EvalMode) (interface{}, error) {
	b.counter++
	wrapped, isStatementForm := wrapForMode(codeText, mode, b.counter)

	v, err := b.interp.Eval(wrapped)
	if err != nil {
		if isStatementForm && looksIndentShaped(err) {
			return nil, fmt.Errorf("%w: %v", ErrIndentShaped, err)
		}
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// wrapForMode renders codeText as the Go source yaegi should evaluate for
// the given fallback stage.
func wrapForMode(codeText string, mode EvalMode, n int) (wrapped string, isStatementForm bool) {
	switch mode {
	case EvalExpression:
		return codeText, false
	case ExecStatements:
		return fmt.Sprintf("func() interface{} {\n%s\nreturn nil\n}()", codeText), true
	case ExecIndentedStatements:
		fn := fmt.Sprintf("__scribeGuard%d", n)
		return fmt.Sprintf("func %s() interface{} {\nif true {\n%s\n}\nreturn nil\n}\n%s()", fn, codeText, fn), true
	default:
		return codeText, false
	}
}

// looksIndentShaped reports whether err looks like the kind of structural
// compile failure (an unexpected top-level statement, a dangling brace)
// that the extra "if true { ... }" wrapping in ExecIndentedStatements might
// fix, rather than a genuine syntax error in the user's code.
func looksIndentShaped(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"unexpected", "expected declaration", "non-declaration statement"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// LooksLikeSyntaxError reports whether err looks like codeText failed to
// parse as a Go expression at all, as opposed to parsing fine and then
// failing at evaluation time. The Code processor uses this to decide
// whether a failed EvalExpression attempt should fall back to
// ExecStatements or be reported as-is.
func LooksLikeSyntaxError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"syntax error", "unexpected", "expected operand", "expected expression", "not a valid expression"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Classify implements Bridge.
func (b *YaegiBridge) Classify(obj interface{}) Kind {
	return Classify(obj)
}

// Classify inspects obj's concrete type against the sentinel interfaces
// (doctree.Header/Block/Inline, SourceInsertion, the three *Builder kinds)
// and reports which single Kind it satisfies, independent of which Bridge
// produced it -- exported so a non-yaegi Bridge (e.g. for tests) can reuse
// the same classification rules.
func Classify(obj interface{}) Kind {
	if obj == nil {
		return KindNone
	}
	if rv := reflect.ValueOf(obj); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return KindNone
	}
	// Builders are checked before plain Header/Block/Inline so that a
	// value which both carries content and wants to consume a scope
	// (the common case in the reference implementation) is routed to the
	// owning-close dispatch in the Code processor rather than treated as
	// a scalar result.
	switch obj.(type) {
	case BlockScopeBuilder:
		return KindBlockBuilder
	case InlineScopeBuilder:
		return KindInlineBuilder
	case RawScopeBuilder:
		return KindRawBuilder
	case SourceInsertion:
		return KindSource
	case *SourceInsertion:
		return KindSource
	case doctree.Header:
		return KindHeader
	case doctree.Block:
		return KindBlock
	case doctree.Inline:
		return KindInline
	default:
		return KindOther
	}
}

// Build implements Bridge.
func (b *YaegiBridge) Build(builder interface{}, kind Kind, arg interface{}) (interface{}, error) {
	return dispatchBuild(builder, kind, arg)
}
