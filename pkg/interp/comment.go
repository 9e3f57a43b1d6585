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

import "github.com/scribelang/scribe/pkg/token"

// Comment discards every token from the opening '#' run up to (but not
// including) the next Newline or EOF, which it hands back to its parent
// unconsumed: a comment has no tree representation of its own, but the
// token that ends it still matters to whoever opened the comment (it may
// clear a blank-line expectation, or end the file).
type Comment struct{ Base }

func NewComment() *Comment { return &Comment{Base: Base{"comment"}} }

func (c *Comment) ProcessToken(env *Env, tok token.Token) (Status, error) {
	switch tok.Kind {
	case token.Newline, token.EOF:
		return PopReprocess(nil), nil
	default:
		return Continue(), nil
	}
}
