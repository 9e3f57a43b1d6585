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

package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribelang/scribe/pkg/source"
)

// These are the sentinel "which concrete types satisfy which interface"
// assertions: a Raw is Inline-only (it is wrapped at the point of use
// rather than also implementing Block, see the doc comment on Raw), while
// BlockScope and Paragraph satisfy Block and InlineScope and Text satisfy
// Inline.
var (
	_ Block  = (*BlockScope)(nil)
	_ Block  = (*Paragraph)(nil)
	_ Inline = (*InlineScope)(nil)
	_ Inline = (*Text)(nil)
	_ Inline = (*Raw)(nil)
)

func TestSpannedReturnsItsSpan(t *testing.T) {
	sp := source.Span{File: 3, Start: 1, End: 9}
	s := Spanned{Span: sp}
	assert.Equal(t, sp, s.SourceSpan())
}

func TestDocSegmentNestsByWeight(t *testing.T) {
	seg := &DocSegment{
		Header:   testHeader{weight: 1},
		Contents: &BlockScope{},
		Subsegments: []*DocSegment{
			{Header: testHeader{weight: 2}, Contents: &BlockScope{}},
		},
	}
	assert.Equal(t, 1, seg.Header.Weight())
	assert.Len(t, seg.Subsegments, 1)
	assert.Equal(t, 2, seg.Subsegments[0].Header.Weight())
}

type testHeader struct {
	Spanned
	weight int
}

func (h testHeader) Weight() int { return h.weight }
