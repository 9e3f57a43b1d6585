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

// Package lexer implements the byte-stream-to-token-stream longest-match
// tokenizer. It is a stateFn machine in the spirit of text/template and
// goyang's own lexer, adapted so that tokens can carry repetition counts
// and so a handful of productions need unbounded (but still linear)
// lookahead: hyphen-run/bracket-close disambiguation and the "owning close"
// variants that fold a following scope-opener into the close token.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/token"
)

const eof = -1

// stateFn represents one state in the lexer, returning the next state.
type stateFn func(*Lexer) stateFn

// escapable is the set of characters that may follow a backslash to form an
// EscapedChar token.
const escapable = "\r\n\\[]{}#-"

// Lexer tokenizes a single file's contents.
type Lexer struct {
	fileIdx int
	input   string

	start int // byte offset of the start of the token being built
	pos   int // current byte offset

	state stateFn
	items []token.Token

	// err is set once, on the first NUL byte encountered; it is fatal and
	// halts lexing after emitting a terminal EOF.
	err error
}

// New returns a Lexer over contents, whose spans will refer to fileIdx in
// the enclosing source.Map.
func New(fileIdx int, contents string) *Lexer {
	return &Lexer{
		fileIdx: fileIdx,
		input:   contents,
		state:   lexGround,
	}
}

// Err returns the fatal lexing error, if any (only ever a NUL byte).
func (l *Lexer) Err() error { return l.err }

// NextToken returns the next token from the input. Once EOF has been
// returned, further calls keep returning EOF.
func (l *Lexer) NextToken() token.Token {
	for {
		if len(l.items) > 0 {
			t := l.items[0]
			l.items = l.items[1:]
			return t
		}
		if l.state == nil {
			return l.eofToken()
		}
		l.state = l.state(l)
	}
}

func (l *Lexer) eofToken() token.Token {
	p := source.FilePosition(len(l.input))
	return token.Token{Kind: token.EOF, Span: source.Span{File: l.fileIdx, Start: p, End: p}}
}

func (l *Lexer) span() source.Span {
	return source.Span{
		File:  l.fileIdx,
		Start: source.FilePosition(l.start),
		End:   source.FilePosition(l.pos),
	}
}

// emit appends a token covering [start,pos) with the given kind/counts and
// resets start to pos.
func (l *Lexer) emit(k token.Kind) {
	t := token.Token{Kind: k, Span: l.span()}
	if k == token.OtherText || k == token.Whitespace {
		t.Text = l.input[l.start:l.pos]
	}
	l.items = append(l.items, t)
	l.start = l.pos
}

func (l *Lexer) emitCount(k token.Kind, n int) {
	l.items = append(l.items, token.Token{Kind: k, Span: l.span(), Count: n})
	l.start = l.pos
}

func (l *Lexer) emitOwningRaw(n, h int) {
	l.items = append(l.items, token.Token{Kind: token.CodeCloseOwningRaw, Span: l.span(), Count: n, Count2: h})
	l.start = l.pos
}

func (l *Lexer) emitEscaped(r rune) {
	l.items = append(l.items, token.Token{Kind: token.EscapedChar, Span: l.span(), Escaped: r})
	l.start = l.pos
}

// peekRuneAt returns the rune at byte offset pos without consuming
// anything, and its byte width (0 at or past EOF).
func (l *Lexer) peekRuneAt(pos int) (rune, int) {
	if pos >= len(l.input) {
		return eof, 0
	}
	r, w := utf8.DecodeRuneInString(l.input[pos:])
	return r, w
}

func (l *Lexer) peekRune() (rune, int) { return l.peekRuneAt(l.pos) }

// at reports whether input[pos:] begins with s.
func (l *Lexer) at(pos int, s string) bool {
	return pos+len(s) <= len(l.input) && l.input[pos:pos+len(s)] == s
}

// lexGround is the dispatch state: it looks at the next rune(s) and decides
// which special production to enter, or falls through to accumulating
// OtherText.
func lexGround(l *Lexer) stateFn {
	if l.pos >= len(l.input) {
		return nil
	}
	r, w := l.peekRune()

	switch {
	case r == 0:
		l.err = &NullByteError{Span: source.Span{File: l.fileIdx, Start: source.FilePosition(l.pos), End: source.FilePosition(l.pos + w)}}
		return nil
	case l.at(l.pos, "\r\n"):
		l.pos += 2
		l.emit(token.Newline)
		return lexGround
	case r == '\r' || r == '\n':
		l.pos += w
		l.emit(token.Newline)
		return lexGround
	case r == '\\':
		return lexBackslash
	case r == '[':
		return lexBracketOpen
	case r == '-':
		return lexHyphenRun
	case r == ']':
		l.pos += w
		return lexAfterCodeClose(l, 0)
	case r == '{':
		l.pos += w
		l.emit(token.ScopeOpen)
		return lexGround
	case r == '}':
		l.pos += w
		return lexAfterCloseBrace
	case r == '#':
		return lexHashRun
	case isLexWhitespace(r):
		return lexWhitespace
	default:
		return lexOtherText
	}
}

func isLexWhitespace(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

func lexBackslash(l *Lexer) stateFn {
	l.pos++ // consume '\'
	r, w := l.peekRune()
	if r == eof {
		l.emit(token.Backslash)
		return lexGround
	}
	// \r\n escapes as a single escaped newline.
	if l.at(l.pos, "\r\n") {
		l.pos += 2
		l.emitEscaped('\n')
		return lexGround
	}
	if containsRune(escapable, r) {
		l.pos += w
		escaped := r
		if r == '\r' {
			escaped = '\n'
		}
		l.emitEscaped(escaped)
		return lexGround
	}
	l.emit(token.Backslash)
	return lexGround
}

func containsRune(set string, r rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}

func lexWhitespace(l *Lexer) stateFn {
	for {
		r, w := l.peekRune()
		if r == eof || !isLexWhitespace(r) {
			break
		}
		l.pos += w
	}
	l.emit(token.Whitespace)
	return lexGround
}

func lexOtherText(l *Lexer) stateFn {
	for {
		r, w := l.peekRune()
		switch {
		case r == eof, r == 0, r == '\r', r == '\n', r == '\\', r == '[',
			r == ']', r == '{', r == '}', r == '#', r == '-', isLexWhitespace(r):
			l.emit(token.OtherText)
			return lexGround
		default:
			l.pos += w
		}
	}
}

// lexBracketOpen handles '[' k-hyphens -> CodeOpen(k).
func lexBracketOpen(l *Lexer) stateFn {
	l.pos++ // consume '['
	n := 0
	for l.pos < len(l.input) && l.input[l.pos] == '-' {
		n++
		l.pos++
	}
	l.emitCount(token.CodeOpen, n)
	return lexGround
}

// lexHyphenRun handles a run of '-'. If the run is immediately followed by
// ']' it is a code close (with owning-variant lookahead); otherwise it is
// EnDash/EmDash/HyphenMinuses by count.
func lexHyphenRun(l *Lexer) stateFn {
	n := 0
	for l.pos < len(l.input) && l.input[l.pos] == '-' {
		n++
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == ']' {
		l.pos++ // consume ']'
		return lexAfterCodeClose(l, n)
	}
	switch n {
	case 2:
		l.emit(token.EnDash)
	case 3:
		l.emit(token.EmDash)
	default:
		l.emitCount(token.HyphenMinuses, n)
	}
	return lexGround
}

// lexAfterCodeClose decides between a plain CodeClose and one of the owning
// variants, given that "-*k]" has just been consumed.
func lexAfterCodeClose(l *Lexer, n int) stateFn {
	if l.pos < len(l.input) && l.input[l.pos] == '{' {
		bracePos := l.pos
		after := bracePos + 1
		// Scan whitespace (not newline) then check for a newline: the
		// "owning block" shape.
		p := after
		for p < len(l.input) {
			r, w := l.peekRuneAt(p)
			if r != eof && isLexWhitespace(r) {
				p += w
				continue
			}
			break
		}
		if l.at(p, "\r\n") {
			l.pos = p + 2
			l.emitCount(token.CodeCloseOwningBlock, n)
			return lexGround
		}
		if p < len(l.input) && (l.input[p] == '\n' || l.input[p] == '\r') {
			l.pos = p + 1
			l.emitCount(token.CodeCloseOwningBlock, n)
			return lexGround
		}
		// Not a block shape: owning inline, consuming just the brace.
		l.pos = after
		l.emitCount(token.CodeCloseOwningInline, n)
		return lexGround
	}
	if l.pos < len(l.input) && l.input[l.pos] == '#' {
		p := l.pos
		h := 0
		for p < len(l.input) && l.input[p] == '#' {
			h++
			p++
		}
		if p < len(l.input) && l.input[p] == '{' {
			l.pos = p + 1
			l.emitOwningRaw(n, h)
			return lexGround
		}
		// Hashes don't lead into a brace: plain close, hashes are
		// re-lexed as their own token(s) starting from l.start.
		l.emitCount(token.CodeClose, n)
		return lexGround
	}
	l.emitCount(token.CodeClose, n)
	return lexGround
}

// lexAfterCloseBrace handles '}' optionally followed by k hashes (k>=1) ->
// RawScopeClose(k); otherwise plain ScopeClose.
func lexAfterCloseBrace(l *Lexer) stateFn {
	p := l.pos
	h := 0
	for p < len(l.input) && l.input[p] == '#' {
		h++
		p++
	}
	if h > 0 {
		l.pos = p
		l.emitCount(token.RawScopeClose, h)
		return lexGround
	}
	l.emit(token.ScopeClose)
	return lexGround
}

// lexHashRun handles a run of '#'. If immediately followed by '{' it opens
// a raw scope; otherwise it is a plain Hashes(n) token.
func lexHashRun(l *Lexer) stateFn {
	n := 0
	for l.pos < len(l.input) && l.input[l.pos] == '#' {
		n++
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '{' {
		l.pos++
		l.emitCount(token.RawScopeOpen, n)
		return lexGround
	}
	l.emitCount(token.Hashes, n)
	return lexGround
}

// NullByteError is the one fatal lexing error: a NUL byte was found in the
// source.
type NullByteError struct {
	Span source.Span
}

func (e *NullByteError) Error() string {
	return "NUL byte in source at " + e.Span.String()
}
