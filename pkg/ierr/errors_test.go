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

package ierr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribelang/scribe/pkg/source"
)

func TestLocRendersPrimarySpan(t *testing.T) {
	m := source.NewMap()
	idx := m.AddFile("a.scb", "one\ntwo")
	err := NewNullByteInSource(source.Span{File: idx, Start: 4, End: 5})
	assert.Equal(t, "a.scb:2:1", Loc(m, err))
}

func TestSortOrdersByFileThenStart(t *testing.T) {
	m := source.NewMap()
	a := m.AddFile("a.scb", "aaaaaaaaaa")
	b := m.AddFile("b.scb", "bbbbbbbbbb")

	errs := []Located{
		NewNullByteInSource(source.Span{File: b, Start: 0, End: 1}),
		NewNullByteInSource(source.Span{File: a, Start: 5, End: 6}),
		NewNullByteInSource(source.Span{File: a, Start: 1, End: 2}),
	}
	sorted := Sort(errs)
	require.Len(t, sorted, 3)
	assert.Equal(t, a, sorted[0].Spans()[0].File)
	assert.Equal(t, source.FilePosition(1), sorted[0].Spans()[0].Start)
	assert.Equal(t, a, sorted[1].Spans()[0].File)
	assert.Equal(t, source.FilePosition(5), sorted[1].Spans()[0].Start)
	assert.Equal(t, b, sorted[2].Spans()[0].File)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	m := source.NewMap()
	idx := m.AddFile("a.scb", "aaaaaaaaaa")
	original := []Located{
		NewNullByteInSource(source.Span{File: idx, Start: 5, End: 6}),
		NewNullByteInSource(source.Span{File: idx, Start: 1, End: 2}),
	}
	_ = Sort(original)
	assert.Equal(t, source.FilePosition(5), original[0].Spans()[0].Start)
}

func TestJoinEmptyIsNil(t *testing.T) {
	m := source.NewMap()
	assert.Nil(t, Join(m, nil))
}

func TestJoinRendersSortedLocatedLines(t *testing.T) {
	m := source.NewMap()
	idx := m.AddFile("a.scb", "aaaaaaaaaa")
	errs := []Located{
		NewNullByteInSource(source.Span{File: idx, Start: 5, End: 6}),
		NewCodeCloseOutsideCode(source.Span{File: idx, Start: 1, End: 2}),
	}
	joined := Join(m, errs)
	require.Error(t, joined)
	want := "a.scb:1:2: code-close bracket outside an open escape bracket\n" +
		"a.scb:1:6: NUL byte in source"
	assert.Equal(t, want, joined.Error())
}

func TestInsufficientBlockSeparationHasTwoSpans(t *testing.T) {
	prev := source.Span{File: 0, Start: 0, End: 1}
	next := source.Span{File: 0, Start: 2, End: 3}
	err := NewInsufficientBlockSeparation(prev, next)
	assert.Equal(t, []source.Span{prev, next}, err.Spans())
	assert.Contains(t, err.Error(), "blank line")
}
