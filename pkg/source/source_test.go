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

package source

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAddFileReturnsSequentialIndices(t *testing.T) {
	m := NewMap()
	a := m.AddFile("a.scb", "hello")
	b := m.AddFile("b.scb", "world")
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, m.Len())
}

func TestSpanTextSlicesTheRightFile(t *testing.T) {
	m := NewMap()
	idx := m.AddFile("a.scb", "hello world")
	sp := Span{File: idx, Start: 6, End: 11}
	assert.Equal(t, "world", sp.Text(m))
}

func TestSpanTextOnUnknownFileIsEmpty(t *testing.T) {
	m := NewMap()
	sp := Span{File: 7, Start: 0, End: 1}
	assert.Equal(t, "", sp.Text(m))
}

func TestMapFileOutOfRangeIsNil(t *testing.T) {
	m := NewMap()
	m.AddFile("a.scb", "x")
	assert.Nil(t, m.File(-1))
	assert.Nil(t, m.File(1))
}

func TestMapLocTracksLinesAndColumns(t *testing.T) {
	m := NewMap()
	idx := m.AddFile("a.scb", "one\ntwo\nthree")
	assert.Equal(t, "a.scb:1:1", m.Loc(idx, 0))
	assert.Equal(t, "a.scb:2:1", m.Loc(idx, 4))
	assert.Equal(t, "a.scb:2:3", m.Loc(idx, 6))
	assert.Equal(t, "a.scb:3:1", m.Loc(idx, 8))
}

func TestMapLocUnknownFile(t *testing.T) {
	m := NewMap()
	assert.Contains(t, m.Loc(3, 0), "unknown file")
}

func TestBuilderContextExtendGrowsSpan(t *testing.T) {
	first := Span{File: 0, Start: 0, End: 3}
	ctx := NewBuilderContext(first)
	assert.Equal(t, first, ctx.Span())

	ctx.Extend(Span{File: 0, Start: 3, End: 7})
	assert.Equal(t, Span{File: 0, Start: 0, End: 7}, ctx.Span())

	ctx.Extend(Span{File: 0, Start: 20, End: 25})
	assert.Equal(t, Span{File: 0, Start: 0, End: 25}, ctx.Span())
}

func TestBuilderContextExtendAcrossFilesPanics(t *testing.T) {
	ctx := NewBuilderContext(Span{File: 0, Start: 0, End: 1})
	assert.Panics(t, func() {
		ctx.Extend(Span{File: 1, Start: 0, End: 1})
	})
}

func TestLoaderMemFsLoadsAddedFile(t *testing.T) {
	l := NewMemLoader()
	require.NoError(t, afero.WriteFile(l.Fs, "doc.scb", []byte("hello"), 0o644))

	m := NewMap()
	idx, err := l.Load(m, "doc.scb")
	require.NoError(t, err)
	assert.Equal(t, "hello", m.File(idx).Contents)
	assert.Equal(t, "doc.scb", m.File(idx).Name)
}

func TestLoaderMissingFileErrors(t *testing.T) {
	l := NewMemLoader()
	m := NewMap()
	_, err := l.Load(m, "missing.scb")
	require.Error(t, err)
}
