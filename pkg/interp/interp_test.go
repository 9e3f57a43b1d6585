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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/openconfig/gnmi/errdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/source"
)

// run parses contents as the root file of a fresh document with the given
// Bridge (hostbridge.NewFake() when the test has no escape brackets to
// evaluate) and returns the resulting Document.
func run(t *testing.T, contents string, bridge hostbridge.Bridge) (*doctree.Document, error) {
	t.Helper()
	if bridge == nil {
		bridge = hostbridge.NewFake()
	}
	m := source.NewMap()
	idx := m.AddFile("test.scb", contents)
	env := &Env{Sources: m, Bridge: bridge}
	return NewProcessorStacks(env, idx).Run()
}

// docCmpOpts ignores source spans: tests assert on tree shape and text,
// not on byte offsets (those are covered by the lexer and source tests).
var docCmpOpts = cmp.Options{
	cmpopts.IgnoreFields(doctree.Spanned{}, "Span"),
}

func textNode(s string) *doctree.Text {
	return &doctree.Text{Contents: s}
}

func TestParagraphOneSentence(t *testing.T) {
	doc, err := run(t, "hello world", nil)
	require.NoError(t, err)

	want := &doctree.Document{
		Contents: &doctree.BlockScope{Children: []doctree.Block{
			&doctree.Paragraph{Sentences: []*doctree.Sentence{
				{Inlines: []doctree.Inline{textNode("hello world")}},
			}},
		}},
	}
	if diff := cmp.Diff(want, doc, docCmpOpts); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParagraphSplitsSentencesOnNewline(t *testing.T) {
	doc, err := run(t, "first sentence\nsecond sentence", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	para, ok := doc.Contents.Children[0].(*doctree.Paragraph)
	require.True(t, ok)
	require.Len(t, para.Sentences, 2)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("first sentence")}, para.Sentences[0].Inlines, docCmpOpts))
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("second sentence")}, para.Sentences[1].Inlines, docCmpOpts))
}

func TestBackslashNewlineSoftJoinsWithoutBreakingSentence(t *testing.T) {
	doc, err := run(t, "one\\\ntwo", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	para := doc.Contents.Children[0].(*doctree.Paragraph)
	require.Len(t, para.Sentences, 1)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("one two")}, para.Sentences[0].Inlines, docCmpOpts))
}

func TestBlankLineEndsParagraph(t *testing.T) {
	doc, err := run(t, "first\n\nsecond", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 2)
	p1 := doc.Contents.Children[0].(*doctree.Paragraph)
	p2 := doc.Contents.Children[1].(*doctree.Paragraph)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("first")}, p1.Sentences[0].Inlines, docCmpOpts))
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("second")}, p2.Sentences[0].Inlines, docCmpOpts))
}

func TestBlockScopeNestsChildren(t *testing.T) {
	doc, err := run(t, "{\nnested text\n}", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	inner, ok := doc.Contents.Children[0].(*doctree.BlockScope)
	require.True(t, ok)
	require.Len(t, inner.Children, 1)
	para := inner.Children[0].(*doctree.Paragraph)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("nested text")}, para.Sentences[0].Inlines, docCmpOpts))
}

func TestInlineScopeFoldsIntoSurroundingParagraph(t *testing.T) {
	doc, err := run(t, "before {inline} after", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	para := doc.Contents.Children[0].(*doctree.Paragraph)
	require.Len(t, para.Sentences, 1)
	inlines := para.Sentences[0].Inlines
	// Whitespace at a nested scope's own open/close boundary is dropped,
	// but whitespace on the *surrounding* text run, right where the scope
	// is embedded mid-stream, is retained on the adjacent Text node.
	require.Len(t, inlines, 3)
	assert.Empty(t, cmp.Diff(textNode("before "), inlines[0], docCmpOpts))
	scope, ok := inlines[1].(*doctree.InlineScope)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("inline")}, scope.Children, docCmpOpts))
	assert.Empty(t, cmp.Diff(textNode(" after"), inlines[2], docCmpOpts))
}

func TestRawScopePassesContentLiterally(t *testing.T) {
	doc, err := run(t, "before #{ raw [not code] }# after", nil)
	require.NoError(t, err)

	para := doc.Contents.Children[0].(*doctree.Paragraph)
	inlines := para.Sentences[0].Inlines
	require.Len(t, inlines, 3)
	assert.Empty(t, cmp.Diff(textNode("before "), inlines[0], docCmpOpts))
	raw, ok := inlines[1].(*doctree.Raw)
	require.True(t, ok)
	assert.Equal(t, " raw [not code] ", raw.Data)
	assert.Empty(t, cmp.Diff(textNode(" after"), inlines[2], docCmpOpts))
}

func TestRawScopeMismatchedHashCountIsLiteral(t *testing.T) {
	// A raw scope opened with one hash only closes on a matching "}#",
	// so a single stray "}##" inside it is just more raw data.
	doc, err := run(t, "#{ a }## b }#", nil)
	require.NoError(t, err)

	para := doc.Contents.Children[0].(*doctree.Paragraph)
	raw := para.Sentences[0].Inlines[0].(*doctree.Raw)
	assert.Equal(t, " a }## b ", raw.Data)
}

func TestCommentDiscardedToNewline(t *testing.T) {
	doc, err := run(t, "before # this is a comment\nafter", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	para := doc.Contents.Children[0].(*doctree.Paragraph)
	// The comment discards everything up to the Newline and hands that
	// Newline back to the Paragraph, which ends the first sentence there;
	// both sentences stay in the same Paragraph since no blank line occurred.
	require.Len(t, para.Sentences, 2)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("before")}, para.Sentences[0].Inlines, docCmpOpts))
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("after")}, para.Sentences[1].Inlines, docCmpOpts))
}

func TestHeaderSegmentNesting(t *testing.T) {
	fake := hostbridge.NewFake()
	fake.Responses["H(1)"] = fakeHeader{weight: 1}
	fake.Responses["H(2)"] = fakeHeader{weight: 2}

	doc, err := run(t, "intro\n\n[H(1)]\n\nsection one\n\n[H(2)]\n\nsubsection\n", fake)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1, "intro paragraph stays at the top level")
	require.Len(t, doc.Segments, 1)
	top := doc.Segments[0]
	assert.Equal(t, 1, top.Header.Weight())
	require.Len(t, top.Contents.Children, 1)
	require.Len(t, top.Subsegments, 1)
	sub := top.Subsegments[0]
	assert.Equal(t, 2, sub.Header.Weight())
	require.Len(t, sub.Contents.Children, 1)
}

// fakeHeader is a minimal doctree.Header for tests that need one without
// pulling in a real evaluated host object.
type fakeHeader struct {
	doctree.Spanned
	weight int
}

func (h fakeHeader) Weight() int { return h.weight }

func TestCodeEvalExpressionProducesInline(t *testing.T) {
	fake := hostbridge.NewFake()
	fake.Responses["1+1"] = &doctree.Raw{Data: "2"}

	doc, err := run(t, "[1+1]\n", fake)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 1)
	para := doc.Contents.Children[0].(*doctree.Paragraph)
	raw := para.Sentences[0].Inlines[0].(*doctree.Raw)
	assert.Equal(t, "2", raw.Data)
}

func TestCodeFallsBackToStatementsOnSyntaxError(t *testing.T) {
	fake := hostbridge.NewFake()
	fake.FailExpression["x := 1; emit(x)"] = true
	fake.Responses["x := 1; emit(x)"] = &doctree.Raw{Data: "stmt-result"}

	doc, err := run(t, "[x := 1; emit(x)]\n", fake)
	require.NoError(t, err)

	para := doc.Contents.Children[0].(*doctree.Paragraph)
	raw := para.Sentences[0].Inlines[0].(*doctree.Raw)
	assert.Equal(t, "stmt-result", raw.Data)
}

func TestCodeOwningBlockClosePassesBuiltScopeToBuilder(t *testing.T) {
	fake := hostbridge.NewFake()
	builder := &fakeBlockBuilder{result: &doctree.Raw{Data: "built"}}
	fake.Responses["mkbuilder()"] = builder

	doc, err := run(t, "[mkbuilder()]{\ninner text\n}\n", fake)
	require.NoError(t, err)

	require.Len(t, fake.Built, 1)
	assert.Equal(t, hostbridge.KindBlockBuilder, fake.Built[0].Kind)
	blocks := fake.Built[0].Arg.(*doctree.BlockScope)
	require.Len(t, blocks.Children, 1)

	para := doc.Contents.Children[0].(*doctree.Paragraph)
	raw := para.Sentences[0].Inlines[0].(*doctree.Raw)
	assert.Equal(t, "built", raw.Data)
}

type fakeBlockBuilder struct{ result doctree.Inline }

func (b *fakeBlockBuilder) BuildFromBlocks(bs *doctree.BlockScope) (interface{}, error) {
	return b.result, nil
}

func TestFileInsertionSplicesChildFile(t *testing.T) {
	fake := hostbridge.NewFake()
	fake.Responses["include()"] = hostbridge.SourceInsertion{Name: "child.scb", Contents: "child text"}

	// A code bracket opened directly at block level (not inside an open
	// paragraph) resolves to file insertion; the inserted file's content
	// is parsed into its own block(s), distinct from whatever paragraphs
	// precede and follow the bracket in the parent file.
	doc, err := run(t, "before\n\n[include()]\nafter\n", fake)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 3)
	p1 := doc.Contents.Children[0].(*doctree.Paragraph)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("before")}, p1.Sentences[0].Inlines, docCmpOpts))
	p2 := doc.Contents.Children[1].(*doctree.Paragraph)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("child text")}, p2.Sentences[0].Inlines, docCmpOpts))
	p3 := doc.Contents.Children[2].(*doctree.Paragraph)
	assert.Empty(t, cmp.Diff([]doctree.Inline{textNode("after")}, p3.Sentences[0].Inlines, docCmpOpts))
}

func TestFileInsertionMidParagraphIsRejected(t *testing.T) {
	fake := hostbridge.NewFake()
	fake.Responses["include()"] = hostbridge.SourceInsertion{Name: "child.scb", Contents: "x"}

	_, err := run(t, "partial sentence [include()]\n", fake)
	if diff := errdiff.Substring(err, "file"); diff != "" {
		t.Errorf("unexpected error: %s", diff)
	}
}

func TestMismatchedScopeCloseAtTopLevelIsFatal(t *testing.T) {
	_, err := run(t, "stray close }\n", nil)
	if diff := errdiff.Substring(err, "scope"); diff != "" {
		t.Errorf("unexpected error: %s", diff)
	}
}

func TestUnterminatedBlockScopeIsFatal(t *testing.T) {
	_, err := run(t, "{\nnever closed", nil)
	if diff := errdiff.Substring(err, "ended"); diff != "" {
		t.Errorf("unexpected error: %s", diff)
	}
}

func TestUnterminatedRawScopeIsFatal(t *testing.T) {
	_, err := run(t, "#{ never closed", nil)
	if diff := errdiff.Substring(err, "raw"); diff != "" {
		t.Errorf("unexpected error: %s", diff)
	}
}

func TestAmbiguousScopeForwardsElementPastItself(t *testing.T) {
	// Regression test for the AmbiguousScope passthrough fix: a '{' that
	// resolves to a BlockScope must still be able to deliver its finished
	// BlockElement to the real enclosing processor once it closes, rather
	// than panicking against AmbiguousScope's un-overridden
	// ProcessEmittedElement.
	doc, err := run(t, "before\n\n{\nblock one\n}\n\nafter\n", nil)
	require.NoError(t, err)

	require.Len(t, doc.Contents.Children, 3)
	assert.IsType(t, &doctree.Paragraph{}, doc.Contents.Children[0])
	assert.IsType(t, &doctree.BlockScope{}, doc.Contents.Children[1])
	assert.IsType(t, &doctree.Paragraph{}, doc.Contents.Children[2])
}

func TestInsufficientBlockSeparationIsFatal(t *testing.T) {
	_, err := run(t, "{\nx\n}not enough separation", nil)
	if diff := errdiff.Substring(err, "blank line"); diff != "" {
		t.Errorf("unexpected error: %s", diff)
	}
}

// The eight canonical spec §8 end-to-end scenarios are exercised as a
// top-level suite against the public API instead of here; see
// scribe_test.go at the module root.
