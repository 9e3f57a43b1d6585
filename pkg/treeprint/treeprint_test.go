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

package treeprint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribelang/scribe/pkg/doctree"
)

type fakeHeader struct {
	doctree.Spanned
	weight int
}

func (h fakeHeader) Weight() int { return h.weight }

func TestWriteRendersParagraphText(t *testing.T) {
	doc := &doctree.Document{
		Contents: &doctree.BlockScope{Children: []doctree.Block{
			&doctree.Paragraph{Sentences: []*doctree.Sentence{
				{Inlines: []doctree.Inline{&doctree.Text{Contents: "hello world"}}},
			}},
		}},
	}
	var buf bytes.Buffer
	Write(&buf, doc)
	assert.Equal(t, "paragraph {\n  sentence: hello world\n}\n", buf.String())
}

func TestWriteRendersNestedBlockScope(t *testing.T) {
	doc := &doctree.Document{
		Contents: &doctree.BlockScope{Children: []doctree.Block{
			&doctree.BlockScope{Children: []doctree.Block{
				&doctree.Paragraph{Sentences: []*doctree.Sentence{
					{Inlines: []doctree.Inline{&doctree.Text{Contents: "inner"}}},
				}},
			}},
		}},
	}
	var buf bytes.Buffer
	Write(&buf, doc)
	assert.Equal(t, "block {\n  paragraph {\n    sentence: inner\n  }\n}\n", buf.String())
}

func TestWriteRendersInlineScopeAndRaw(t *testing.T) {
	doc := &doctree.Document{
		Contents: &doctree.BlockScope{Children: []doctree.Block{
			&doctree.Paragraph{Sentences: []*doctree.Sentence{{Inlines: []doctree.Inline{
				&doctree.Text{Contents: "before "},
				&doctree.InlineScope{Children: []doctree.Inline{&doctree.Text{Contents: "mid"}}},
				&doctree.Text{Contents: " "},
				&doctree.Raw{Data: "verbatim"},
			}}}},
		}},
	}
	var buf bytes.Buffer
	Write(&buf, doc)
	assert.Equal(t, "paragraph {\n  sentence: before {mid} #{verbatim}#\n}\n", buf.String())
}

func TestWriteRendersHeaderSegmentsNested(t *testing.T) {
	doc := &doctree.Document{
		Contents: &doctree.BlockScope{},
		Segments: []*doctree.DocSegment{
			{
				Header: fakeHeader{weight: 1},
				Contents: &doctree.BlockScope{Children: []doctree.Block{
					&doctree.Paragraph{Sentences: []*doctree.Sentence{
						{Inlines: []doctree.Inline{&doctree.Text{Contents: "section"}}},
					}},
				}},
				Subsegments: []*doctree.DocSegment{
					{
						Header:   fakeHeader{weight: 2},
						Contents: &doctree.BlockScope{},
					},
				},
			},
		},
	}
	var buf bytes.Buffer
	Write(&buf, doc)
	want := "header(weight=1) {\n" +
		"  paragraph {\n" +
		"    sentence: section\n" +
		"  }\n" +
		"  header(weight=2) {\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRendersHostSuppliedBlockAndInline(t *testing.T) {
	doc := &doctree.Document{
		Contents: &doctree.BlockScope{Children: []doctree.Block{
			&hostBlock{},
		}},
	}
	var buf bytes.Buffer
	Write(&buf, doc)
	assert.Contains(t, buf.String(), "host-block")
}

type hostBlock struct{ doctree.HostBlock }
