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

// Package token defines the tagged token values produced by the lexer and
// consumed by the interpreter's stacked processors.
package token

import (
	"fmt"

	"github.com/scribelang/scribe/pkg/source"
)

// Kind identifies the shape of a Token. Single-rune punctuation is not
// folded into the byte it came from the way goyang's lexer does it, because
// several of scribe's tokens carry a repetition count instead.
type Kind int

const (
	Newline Kind = iota
	EscapedChar
	Backslash
	Whitespace
	OtherText

	CodeOpen
	CodeClose
	CodeCloseOwningInline
	CodeCloseOwningBlock
	CodeCloseOwningRaw

	InlineScopeOpen
	BlockScopeOpen
	ScopeOpen // unresolved '{', only produced if the lexer defers disambiguation

	RawScopeOpen
	RawScopeClose

	ScopeClose

	Hashes
	HyphenMinuses
	EnDash
	EmDash

	EOF
)

var kindNames = map[Kind]string{
	Newline:               "Newline",
	EscapedChar:           "EscapedChar",
	Backslash:             "Backslash",
	Whitespace:            "Whitespace",
	OtherText:             "OtherText",
	CodeOpen:              "CodeOpen",
	CodeClose:             "CodeClose",
	CodeCloseOwningInline: "CodeCloseOwningInline",
	CodeCloseOwningBlock:  "CodeCloseOwningBlock",
	CodeCloseOwningRaw:    "CodeCloseOwningRaw",
	InlineScopeOpen:       "InlineScopeOpen",
	BlockScopeOpen:        "BlockScopeOpen",
	ScopeOpen:             "ScopeOpen",
	RawScopeOpen:          "RawScopeOpen",
	RawScopeClose:         "RawScopeClose",
	ScopeClose:            "ScopeClose",
	Hashes:                "Hashes",
	HyphenMinuses:         "HyphenMinuses",
	EnDash:                "EnDash",
	EmDash:                "EmDash",
	EOF:                   "EOF",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical unit with its span in the source. Count carries the
// repetition count for kinds that need one (Hashes, HyphenMinuses,
// CodeOpen/Close family, RawScopeOpen/Close); Count2 carries the second
// count that CodeCloseOwningRaw needs (its hash count). EscapedChar carries
// the un-escaped rune in Escaped. Text carries the raw accumulated run for
// OtherText and Whitespace.
type Token struct {
	Kind    Kind
	Span    source.Span
	Count   int
	Count2  int
	Escaped rune
	Text    string
}

// Raw returns the byte-exact source text this token came from. It is always
// a direct slice of the source, so it is byte-identical to src[Span.Start:Span.End]
// by construction.
func (t Token) Raw(m *source.Map) string {
	return t.Span.Text(m)
}

// Escape renders the text t should contribute to prose. EscapedChar(X)
// yields the unescaped rune; EnDash/EmDash yield the Unicode dash; Newline
// and EscapedChar(Newline) have no prose rendering and return "".
func (t Token) Escape(m *source.Map) string {
	switch t.Kind {
	case EscapedChar:
		if t.Escaped == '\n' {
			return ""
		}
		return string(t.Escaped)
	case EnDash:
		return "–"
	case EmDash:
		return "—"
	case Newline:
		return ""
	default:
		return t.Raw(m)
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
