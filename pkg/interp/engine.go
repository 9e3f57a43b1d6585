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
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/lexer"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

// fileStack is one open file in the parse: its lexer, the processors
// pushed while reading it, and the processor tokens are routed to
// directly once that stack empties. A child file opened by a code
// bracket never gets its own wrapper processor -- its tokens go straight
// to the enclosing BlockScope or TopLevelProcessor, exactly as if they
// had appeared inline at the insertion point.
type fileStack struct {
	top     Processor
	stack   []Processor
	lex     *lexer.Lexer
	fileIdx int
	name    string

	// openCodeSpan is the span of the escape bracket that opened this
	// file; the zero Span for the outermost file.
	openCodeSpan source.Span
}

// ProcessorStacks is the push-down automaton that drives a parse: it owns
// the open file stacks and routes each token from the innermost open
// file to the processor on top of that file's stack (or to the file's
// top-level processor once the stack empties).
type ProcessorStacks struct {
	env     *Env
	topProc *TopLevelProcessor
	stacks  []*fileStack
}

// NewProcessorStacks begins a parse of the file at rootFileIdx, which must
// already have been added to env.Sources.
func NewProcessorStacks(env *Env, rootFileIdx int) *ProcessorStacks {
	top := NewTopLevelProcessor(rootFileIdx)
	f := env.Sources.File(rootFileIdx)
	root := &fileStack{
		top:     top,
		lex:     lexer.New(rootFileIdx, f.Contents),
		fileIdx: rootFileIdx,
		name:    f.Name,
	}
	return &ProcessorStacks{env: env, topProc: top, stacks: []*fileStack{root}}
}

// Run drives the parse to completion and returns the assembled Document,
// or the first fatal error encountered.
func (ps *ProcessorStacks) Run() (*doctree.Document, error) {
	for {
		cur := ps.stacks[len(ps.stacks)-1]
		tok := cur.lex.NextToken()
		if nbe, ok := cur.lex.Err().(*lexer.NullByteError); ok {
			return nil, ierr.NewNullByteInSource(nbe.Span)
		}
		if tok.Kind == token.EOF {
			done, err := ps.handleEOF(cur, tok)
			if err != nil {
				return nil, err
			}
			if done {
				return ps.topProc.Finalize(), nil
			}
			continue
		}
		if err := ps.feedOne(cur, tok); err != nil {
			return nil, err
		}
	}
}

// handleEOF drains cur's processor stack against an EOF token. Every
// processor still open must resolve with PopReprocess (§4.12): EOF never
// legitimately continues or pushes further structure. Once drained, the
// outermost file's EOF is delivered to the document's TopLevelProcessor
// (which must Continue, since there is nowhere left to pop to); a child
// file instead notifies its enclosing processor that the inserted source
// has closed and is discarded.
func (ps *ProcessorStacks) handleEOF(cur *fileStack, eofTok token.Token) (done bool, err error) {
	for len(cur.stack) > 0 {
		top := cur.stack[len(cur.stack)-1]
		st, err := top.ProcessToken(ps.env, eofTok)
		if err != nil {
			return false, err
		}
		if st.Kind != StPopReprocess {
			return false, assertf("processor %T did not PopReprocess on EOF", top)
		}
		cur.stack = cur.stack[:len(cur.stack)-1]
		if st.Element != nil {
			if err := ps.deliverElement(cur, *st.Element); err != nil {
				return false, err
			}
		}
	}
	if len(ps.stacks) == 1 {
		st, err := ps.topProc.ProcessToken(ps.env, eofTok)
		if err != nil {
			return false, err
		}
		if st.Kind != StContinue {
			return false, assertf("top level processor did not Continue on outermost EOF")
		}
		return true, nil
	}
	cur.top.OnEmittedSourceClosed(ps.env, cur.openCodeSpan)
	ps.stacks = ps.stacks[:len(ps.stacks)-1]
	return false, nil
}

// feedOne routes tok to the processor on top of cur's stack, or to cur's
// top-level processor if the stack is empty, and applies whatever Status
// comes back.
func (ps *ProcessorStacks) feedOne(cur *fileStack, tok token.Token) error {
	if len(cur.stack) == 0 {
		st, err := cur.top.ProcessToken(ps.env, tok)
		if err != nil {
			return err
		}
		return ps.applyTopStatus(cur, st, tok)
	}
	top := cur.stack[len(cur.stack)-1]
	st, err := top.ProcessToken(ps.env, tok)
	if err != nil {
		return err
	}
	return ps.applyStatus(cur, st, tok)
}

// applyTopStatus applies a Status returned by cur.top (which has no
// parent processor to pop to, so only Continue and Push are legal here).
func (ps *ProcessorStacks) applyTopStatus(cur *fileStack, st Status, tok token.Token) error {
	switch st.Kind {
	case StContinue:
		return nil
	case StPush:
		cur.stack = append(cur.stack, st.Children...)
		return nil
	default:
		return assertf("top level processor returned %v, which has nowhere to pop to", st.Kind)
	}
}

// applyStatus applies a Status returned by the processor on top of cur's
// stack.
func (ps *ProcessorStacks) applyStatus(cur *fileStack, st Status, originalTok token.Token) error {
	switch st.Kind {
	case StContinue:
		return nil
	case StPush:
		cur.stack = append(cur.stack, st.Children...)
		return nil
	case StPop:
		cur.stack = cur.stack[:len(cur.stack)-1]
		if st.Element != nil {
			return ps.deliverElement(cur, *st.Element)
		}
		return nil
	case StPopReprocess:
		cur.stack = cur.stack[:len(cur.stack)-1]
		if st.Element != nil {
			if err := ps.deliverElement(cur, *st.Element); err != nil {
				return err
			}
		}
		return ps.feedOne(cur, originalTok)
	case StPopNewSource:
		cur.stack = cur.stack[:len(cur.stack)-1]
		return ps.openNewSource(cur, st.CodeSpan, st.Source)
	default:
		return assertf("unknown status kind %v", st.Kind)
	}
}

// deliverElement hands elem to whichever processor now sits above it on
// cur's stack (or cur.top, if the stack has emptied). PopReprocess and
// PopNewSource are not legal responses to an emitted element: a parent
// accepting a child's finished element is not itself a token, so there is
// nothing to reprocess and no token position from which to open a file.
func (ps *ProcessorStacks) deliverElement(cur *fileStack, elem Element) error {
	var parent Processor
	if len(cur.stack) == 0 {
		parent = cur.top
	} else {
		parent = cur.stack[len(cur.stack)-1]
	}
	st, err := parent.ProcessEmittedElement(ps.env, elem)
	if err != nil {
		return err
	}
	switch st.Kind {
	case StContinue:
		return nil
	case StPush:
		cur.stack = append(cur.stack, st.Children...)
		return nil
	case StPop:
		if len(cur.stack) == 0 {
			return assertf("top level processor popped in response to an emitted element")
		}
		cur.stack = cur.stack[:len(cur.stack)-1]
		if st.Element != nil {
			return ps.deliverElement(cur, *st.Element)
		}
		return nil
	default:
		return assertf("processor returned %v in response to an emitted element", st.Kind)
	}
}

// openNewSource implements a code bracket's file-insertion result
// (§4.9): the enclosing processor (the one now on top of cur's stack, or
// cur.top) gets first refusal via OnEmittedSourceInside, then the new
// file is pushed as its own fileStack with that same processor as its
// top, so its tokens are routed directly into it with no wrapper.
func (ps *ProcessorStacks) openNewSource(cur *fileStack, codeSpan source.Span, src hostbridge.SourceInsertion) error {
	var enclosing Processor
	if len(cur.stack) == 0 {
		enclosing = cur.top
	} else {
		enclosing = cur.stack[len(cur.stack)-1]
	}
	if err := enclosing.OnEmittedSourceInside(ps.env, codeSpan); err != nil {
		return err
	}
	if len(ps.stacks) >= ps.env.Options.maxDepth() {
		return ierr.NewFileStackExceededLimit(codeSpan, ps.recurrences(src.Name))
	}
	idx := ps.env.Sources.AddFile(src.Name, src.Contents)
	next := &fileStack{
		top:          enclosing,
		lex:          lexer.New(idx, src.Contents),
		fileIdx:      idx,
		name:         src.Name,
		openCodeSpan: codeSpan,
	}
	ps.stacks = append(ps.stacks, next)
	return nil
}

// recurrences counts, among the files currently open on the stack plus
// the candidate newName, how many times each file name appears -- used
// to report which files are recursing when FileStackExceededLimit fires.
func (ps *ProcessorStacks) recurrences(newName string) map[string]int {
	counts := map[string]int{newName: 1}
	for _, fs := range ps.stacks {
		counts[fs.name]++
	}
	return counts
}
