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

// Package ierr defines the two fatal error families the interpreter can
// raise: syntax errors from the lexer/interpreter, and user-expression
// errors surfaced by the HostBridge. Every error carries enough Span
// context for a driver to render a source-annotated diagnostic.
package ierr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/scribelang/scribe/pkg/source"
)

// Located is implemented by every error this package defines, so callers
// can sort and render them against a source.Map without a type switch per
// error kind.
type Located interface {
	error
	Spans() []source.Span
}

// Loc renders err's primary span (its first) against m, in the
// file:line:col style used throughout this module's diagnostics.
func Loc(m *source.Map, err Located) string {
	spans := err.Spans()
	if len(spans) == 0 {
		return "<no location>"
	}
	return m.Loc(spans[0].File, spans[0].Start)
}

// Sort orders errs by their primary span's (file, start) position, the way
// the teacher's errorSort orders rendered "file:line:col" prefixes, but
// comparing the Spans directly instead of re-parsing rendered text.
func Sort(errs []Located) []Located {
	out := make([]Located, len(errs))
	copy(out, errs)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Spans(), out[j].Spans()
		if len(si) == 0 || len(sj) == 0 {
			return len(sj) == 0 && len(si) > 0
		}
		if si[0].File != sj[0].File {
			return si[0].File < sj[0].File
		}
		return si[0].Start < sj[0].Start
	})
	return out
}

// Join renders a slice of Located errors as a single multi-line error, the
// way goyang's Parse joins its error buffer with strings.TrimSpace.
func Join(m *source.Map, errs []Located) error {
	if len(errs) == 0 {
		return nil
	}
	var b strings.Builder
	for _, e := range Sort(errs) {
		fmt.Fprintf(&b, "%s: %s\n", Loc(m, e), e.Error())
	}
	return errors.New(strings.TrimSpace(b.String()))
}

// base is embedded by every concrete error kind below to implement Spans().
type base struct {
	span source.Span
}

func (b base) Spans() []source.Span { return []source.Span{b.span} }

// ---- Syntax errors (§7, first family) ----

type NullByteInSource struct{ base }

func NewNullByteInSource(sp source.Span) *NullByteInSource {
	return &NullByteInSource{base{sp}}
}
func (e *NullByteInSource) Error() string { return "NUL byte in source" }

type CodeCloseOutsideCode struct{ base }

func NewCodeCloseOutsideCode(sp source.Span) *CodeCloseOutsideCode {
	return &CodeCloseOutsideCode{base{sp}}
}
func (e *CodeCloseOutsideCode) Error() string { return "code-close bracket outside an open escape bracket" }

type BlockScopeCloseOutsideScope struct{ base }

func NewBlockScopeCloseOutsideScope(sp source.Span) *BlockScopeCloseOutsideScope {
	return &BlockScopeCloseOutsideScope{base{sp}}
}
func (e *BlockScopeCloseOutsideScope) Error() string { return "'}' outside any open block scope" }

type InlineScopeCloseOutsideScope struct{ base }

func NewInlineScopeCloseOutsideScope(sp source.Span) *InlineScopeCloseOutsideScope {
	return &InlineScopeCloseOutsideScope{base{sp}}
}
func (e *InlineScopeCloseOutsideScope) Error() string { return "'}' outside any open inline scope" }

type RawScopeCloseOutsideRawScope struct{ base }

func NewRawScopeCloseOutsideRawScope(sp source.Span) *RawScopeCloseOutsideRawScope {
	return &RawScopeCloseOutsideRawScope{base{sp}}
}
func (e *RawScopeCloseOutsideRawScope) Error() string { return "raw scope close outside any open raw scope" }

type EndedInsideCode struct{ base }

func NewEndedInsideCode(sp source.Span) *EndedInsideCode {
	return &EndedInsideCode{base{sp}}
}
func (e *EndedInsideCode) Error() string { return "file ended inside an escape bracket" }

type EndedInsideRawScope struct{ base }

func NewEndedInsideRawScope(sp source.Span) *EndedInsideRawScope {
	return &EndedInsideRawScope{base{sp}}
}
func (e *EndedInsideRawScope) Error() string { return "file ended inside a raw scope" }

type EndedInsideScope struct{ base }

func NewEndedInsideScope(sp source.Span) *EndedInsideScope {
	return &EndedInsideScope{base{sp}}
}
func (e *EndedInsideScope) Error() string { return "file ended inside a scope" }

type BlockScopeOpenedInInlineMode struct{ base }

func NewBlockScopeOpenedInInlineMode(sp source.Span) *BlockScopeOpenedInInlineMode {
	return &BlockScopeOpenedInInlineMode{base{sp}}
}
func (e *BlockScopeOpenedInInlineMode) Error() string {
	return "block scope ('{' followed by a newline) opened in inline mode"
}

type CodeEmittedBlockInInlineMode struct{ base }

func NewCodeEmittedBlockInInlineMode(sp source.Span) *CodeEmittedBlockInInlineMode {
	return &CodeEmittedBlockInInlineMode{base{sp}}
}
func (e *CodeEmittedBlockInInlineMode) Error() string {
	return "escape bracket produced a block in an inline context"
}

type CodeEmittedHeaderInInlineMode struct{ base }

func NewCodeEmittedHeaderInInlineMode(sp source.Span) *CodeEmittedHeaderInInlineMode {
	return &CodeEmittedHeaderInInlineMode{base{sp}}
}
func (e *CodeEmittedHeaderInInlineMode) Error() string {
	return "escape bracket produced a header in an inline context"
}

type CodeEmittedHeaderInBlockScope struct{ base }

func NewCodeEmittedHeaderInBlockScope(sp source.Span) *CodeEmittedHeaderInBlockScope {
	return &CodeEmittedHeaderInBlockScope{base{sp}}
}
func (e *CodeEmittedHeaderInBlockScope) Error() string {
	return "escape bracket produced a header inside a block scope; headers may only appear at the top level"
}

type CodeEmittedSourceInInlineMode struct{ base }

func NewCodeEmittedSourceInInlineMode(sp source.Span) *CodeEmittedSourceInInlineMode {
	return &CodeEmittedSourceInInlineMode{base{sp}}
}
func (e *CodeEmittedSourceInInlineMode) Error() string {
	return "escape bracket produced a file insertion in an inline context"
}

type SentenceBreakInInlineScope struct{ base }

func NewSentenceBreakInInlineScope(sp source.Span) *SentenceBreakInInlineScope {
	return &SentenceBreakInInlineScope{base{sp}}
}
func (e *SentenceBreakInInlineScope) Error() string {
	return "blank line inside an inline scope"
}

type EscapedNewlineInBlockMode struct{ base }

func NewEscapedNewlineInBlockMode(sp source.Span) *EscapedNewlineInBlockMode {
	return &EscapedNewlineInBlockMode{base{sp}}
}
func (e *EscapedNewlineInBlockMode) Error() string {
	return `escaped newline ("\" followed by a line break) at block level, outside any paragraph`
}

// InsufficientBlockSeparation carries two spans: the end of the previous
// block-level element and the start of the next one, so a renderer can
// underline the gap between them.
type InsufficientBlockSeparation struct {
	Prev, Next source.Span
}

func NewInsufficientBlockSeparation(prev, next source.Span) *InsufficientBlockSeparation {
	return &InsufficientBlockSeparation{prev, next}
}
func (e *InsufficientBlockSeparation) Spans() []source.Span { return []source.Span{e.Prev, e.Next} }
func (e *InsufficientBlockSeparation) Error() string {
	return "a blank line is required between two block-level elements"
}

type InsufficientParaNewBlockSeparation struct{ base }

func NewInsufficientParaNewBlockSeparation(sp source.Span) *InsufficientParaNewBlockSeparation {
	return &InsufficientParaNewBlockSeparation{base{sp}}
}
func (e *InsufficientParaNewBlockSeparation) Error() string {
	return "a block-producing escape bracket cannot start a new block mid-paragraph without a blank line first"
}

type InsufficientParaNewSourceSeparation struct{ base }

func NewInsufficientParaNewSourceSeparation(sp source.Span) *InsufficientParaNewSourceSeparation {
	return &InsufficientParaNewSourceSeparation{base{sp}}
}
func (e *InsufficientParaNewSourceSeparation) Error() string {
	return "a file-insertion escape bracket cannot start mid-paragraph without a blank line first"
}

type InsertedFileMidPara struct{ base }

func NewInsertedFileMidPara(sp source.Span) *InsertedFileMidPara {
	return &InsertedFileMidPara{base{sp}}
}
func (e *InsertedFileMidPara) Error() string { return "a file cannot be inserted in the middle of a paragraph" }

type BlockCodeMidPara struct{ base }

func NewBlockCodeMidPara(sp source.Span) *BlockCodeMidPara {
	return &BlockCodeMidPara{base{sp}}
}
func (e *BlockCodeMidPara) Error() string {
	return "escape bracket produced a block in the middle of a paragraph"
}

type HeaderMidPara struct{ base }

func NewHeaderMidPara(sp source.Span) *HeaderMidPara { return &HeaderMidPara{base{sp}} }
func (e *HeaderMidPara) Error() string               { return "escape bracket produced a header in the middle of a paragraph" }

type HeaderMidBlockScope struct{ base }

func NewHeaderMidBlockScope(sp source.Span) *HeaderMidBlockScope {
	return &HeaderMidBlockScope{base{sp}}
}
func (e *HeaderMidBlockScope) Error() string {
	return "escape bracket produced a header inside a block scope"
}

type FileStackExceededLimit struct {
	base
	Recurrences map[string]int
}

func NewFileStackExceededLimit(sp source.Span, recurrences map[string]int) *FileStackExceededLimit {
	return &FileStackExceededLimit{base{sp}, recurrences}
}
func (e *FileStackExceededLimit) Error() string {
	names := make([]string, 0, len(e.Recurrences))
	for n, c := range e.Recurrences {
		if c > 1 {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "file insertion stack depth limit exceeded"
	}
	var b strings.Builder
	b.WriteString("file insertion stack depth limit exceeded; repeated sources:")
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, " %s(x%d)", n, e.Recurrences[n])
	}
	return b.String()
}

// ---- User-expression errors (§7, second family) ----

// EvalMode names which of the three compile fallbacks produced, or was
// attempted for, a HostBridge error.
type EvalMode int

const (
	EvalExpression EvalMode = iota
	ExecStatements
	ExecIndentedStatements
)

func (m EvalMode) String() string {
	switch m {
	case EvalExpression:
		return "expression"
	case ExecStatements:
		return "statement sequence"
	case ExecIndentedStatements:
		return "indented statement sequence"
	default:
		return "unknown mode"
	}
}

type CompilingEvalBrackets struct {
	base
	Mode     EvalMode
	HostErrs []error
}

func NewCompilingEvalBrackets(sp source.Span, mode EvalMode, hostErrs []error) *CompilingEvalBrackets {
	return &CompilingEvalBrackets{base{sp}, mode, hostErrs}
}
func (e *CompilingEvalBrackets) Error() string {
	return fmt.Sprintf("could not compile escape bracket contents as %s: %s", e.Mode, joinHostErrs(e.HostErrs))
}

type RunningEvalBrackets struct {
	base
	HostErr error
}

func NewRunningEvalBrackets(sp source.Span, hostErr error) *RunningEvalBrackets {
	return &RunningEvalBrackets{base{sp}, hostErr}
}
func (e *RunningEvalBrackets) Error() string {
	return fmt.Sprintf("error evaluating escape bracket: %v", e.HostErr)
}

type CoercingEvalBracketToElement struct{ base }

func NewCoercingEvalBracketToElement(sp source.Span) *CoercingEvalBracketToElement {
	return &CoercingEvalBracketToElement{base{sp}}
}
func (e *CoercingEvalBracketToElement) Error() string {
	return "escape bracket result is not a header, block, inline, file insertion, or builder"
}

// CoercingEvalBracketToBuilder fires when an owning close's scope flavour
// does not match the kind of builder the evaluated result produced.
type CoercingEvalBracketToBuilder struct {
	base
	Wanted string
	Got    string
}

func NewCoercingEvalBracketToBuilder(sp source.Span, wanted, got string) *CoercingEvalBracketToBuilder {
	return &CoercingEvalBracketToBuilder{base{sp}, wanted, got}
}
func (e *CoercingEvalBracketToBuilder) Error() string {
	return fmt.Sprintf("escape bracket result cannot build from %s (wanted a %s, got %s)", e.Wanted, e.Wanted, e.Got)
}

type Building struct {
	base
	HostErr error
}

func NewBuilding(sp source.Span, hostErr error) *Building {
	return &Building{base{sp}, hostErr}
}
func (e *Building) Error() string { return fmt.Sprintf("error building from scope contents: %v", e.HostErr) }

type CoercingBuildResultToElement struct{ base }

func NewCoercingBuildResultToElement(sp source.Span) *CoercingBuildResultToElement {
	return &CoercingBuildResultToElement{base{sp}}
}
func (e *CoercingBuildResultToElement) Error() string {
	return "builder's result is not a header, block, or inline"
}

func joinHostErrs(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
