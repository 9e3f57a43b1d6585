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

// Package treeprint renders a parsed doctree.Document as an indented text
// tree, the same recursive prefix-writer shape goyang's tree formatter uses
// to print Entry trees, adapted to scribe's Block/Inline/Header nodes.
package treeprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/scribelang/scribe/pkg/doctree"
)

// prefixWriter indents every line written to it with prefix, the same role
// goyang's indent.NewWriter plays for its tree formatter; scribe writes its
// own copy rather than reviving an unsourced dependency (see DESIGN.md).
type prefixWriter struct {
	w          io.Writer
	prefix     string
	atLineHead bool
}

func newPrefixWriter(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: prefix, atLineHead: true}
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	written := 0
	for len(b) > 0 {
		if p.atLineHead {
			if _, err := io.WriteString(p.w, p.prefix); err != nil {
				return written, err
			}
			p.atLineHead = false
		}
		i := strings.IndexByte(string(b), '\n')
		if i < 0 {
			n, err := p.w.Write(b)
			written += n
			return written, err
		}
		n, err := p.w.Write(b[:i+1])
		written += n
		if err != nil {
			return written, err
		}
		p.atLineHead = true
		b = b[i+1:]
	}
	return written, nil
}

// Write renders doc to w: the root content, then each top-level segment
// nested by header weight.
func Write(w io.Writer, doc *doctree.Document) {
	writeBlockScope(w, doc.Contents)
	for _, seg := range doc.Segments {
		writeSegment(w, seg)
	}
}

func writeSegment(w io.Writer, seg *doctree.DocSegment) {
	fmt.Fprintf(w, "header(weight=%d) {\n", seg.Header.Weight()) //}
	inner := newPrefixWriter(w, "  ")
	writeBlockScope(inner, seg.Contents)
	for _, sub := range seg.Subsegments {
		writeSegment(inner, sub)
	}
	fmt.Fprintln(w, "}")
}

func writeBlockScope(w io.Writer, bs *doctree.BlockScope) {
	for _, b := range bs.Children {
		writeBlock(w, b)
	}
}

func writeBlock(w io.Writer, b doctree.Block) {
	switch v := b.(type) {
	case *doctree.BlockScope:
		fmt.Fprintln(w, "block {") //}
		writeBlockScope(newPrefixWriter(w, "  "), v)
		fmt.Fprintln(w, "}")
	case *doctree.Paragraph:
		fmt.Fprintln(w, "paragraph {") //}
		inner := newPrefixWriter(w, "  ")
		for _, s := range v.Sentences {
			fmt.Fprintf(inner, "sentence: %s\n", renderSentence(s))
		}
		fmt.Fprintln(w, "}")
	default:
		fmt.Fprintf(w, "host-block %T\n", b)
	}
}

func renderSentence(s *doctree.Sentence) string {
	var sb strings.Builder
	for _, i := range s.Inlines {
		sb.WriteString(renderInline(i))
	}
	return sb.String()
}

func renderInline(i doctree.Inline) string {
	switch v := i.(type) {
	case *doctree.Text:
		return v.Contents
	case *doctree.Raw:
		return "#{" + v.Data + "}#"
	case *doctree.InlineScope:
		var sb strings.Builder
		sb.WriteByte('{')
		for _, c := range v.Children {
			sb.WriteString(renderInline(c))
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return fmt.Sprintf("<host-inline %T>", i)
	}
}
