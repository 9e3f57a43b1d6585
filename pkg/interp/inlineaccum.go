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
	"github.com/scribelang/scribe/pkg/source"
)

// inlineAccum folds a run of Whitespace/OtherText/EscapedChar tokens into
// doctree.Text nodes the way every inline-bearing processor needs to: runs
// of whitespace (including a softly-joined escaped newline) collapse to a
// single space, whether the text that follows is more plain text or a
// nested scope being embedded mid-stream (spec §8 scenario 2: "x { inside }
// y" keeps the space on both sides of the scope, as "x " and " y"). The one
// case that drops whitespace outright is the accumulator's own boundary: a
// scope's leading whitespace right after it opens has nothing to attach to
// yet, and its own take() (the scope closing) discards a still-pending
// trailing space rather than leaving it dangling on the last Text node
// (scenario 2's InlineScope content is "inside", not "inside " or " inside").
// It is shared by Paragraph's per-sentence builder and InlineScope so the
// folding rule only has one implementation.
type inlineAccum struct {
	children  []doctree.Inline
	buf       strings.Builder
	start     source.Span
	end       source.Span
	havePend  bool
	pendSpace bool

	haveAny             bool
	spanFirst, spanLast source.Span
}

func (a *inlineAccum) touch(sp source.Span) {
	if !a.haveAny {
		a.spanFirst = sp
		a.haveAny = true
	}
	a.spanLast = sp
}

// span returns the span covering everything added to a so far, valid only
// when a is non-empty.
func (a *inlineAccum) span() source.Span {
	return source.Span{File: a.spanFirst.File, Start: a.spanFirst.Start, End: a.spanLast.End}
}

func (a *inlineAccum) addWhitespace(sp source.Span) {
	hadAny := a.haveAny
	a.touch(sp)
	if hadAny {
		a.pendSpace = true
	}
}

func (a *inlineAccum) addText(s string, sp source.Span) {
	a.touch(sp)
	if s == "" {
		if a.havePend {
			a.pendSpace = true
		}
		return
	}
	if a.pendSpace {
		a.buf.WriteByte(' ')
		a.pendSpace = false
	}
	if !a.havePend {
		a.start = sp
		a.havePend = true
	}
	a.buf.WriteString(s)
	a.end = sp
}

// flushText emits the pending buffer as a Text node, if any. keepTrailingSpace
// decides what happens to a still-pending space that was never followed by
// more text: addInline needs it kept (the space belongs to the surrounding
// run, not to the scope being embedded), while take() needs it dropped (it
// would otherwise dangle off the end of whatever owns this accumulator).
func (a *inlineAccum) flushText(keepTrailingSpace bool) {
	if !a.havePend {
		if keepTrailingSpace && a.pendSpace && len(a.children) > 0 {
			a.children = append(a.children, &doctree.Text{Spanned: doctree.Spanned{Span: a.spanLast}, Contents: " "})
		}
		a.pendSpace = false
		return
	}
	if keepTrailingSpace && a.pendSpace {
		a.buf.WriteByte(' ')
	}
	a.pendSpace = false
	sp := source.Span{File: a.start.File, Start: a.start.Start, End: a.end.End}
	a.children = append(a.children, &doctree.Text{Spanned: doctree.Spanned{Span: sp}, Contents: a.buf.String()})
	a.buf.Reset()
	a.havePend = false
}

func (a *inlineAccum) addInline(i doctree.Inline) {
	a.flushText(true)
	a.touch(i.SourceSpan())
	a.children = append(a.children, i)
}

func (a *inlineAccum) isEmpty() bool { return len(a.children) == 0 && !a.havePend }

func (a *inlineAccum) take() []doctree.Inline {
	a.flushText(false)
	out := a.children
	a.children = nil
	return out
}

func ptrElem(e Element) *Element { return &e }
