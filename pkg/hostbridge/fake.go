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

package hostbridge

import "fmt"

// Fake is a scripted Bridge for interpreter tests: it never runs real Go
// code, it just returns whatever the test registered for a given code
// string under a given mode. This keeps pkg/interp's tests independent of
// yaegi's exact error text and compile-fallback quirks, the way goyang's
// parser tests feed the parser fixed token/Statement fixtures rather than
// re-lexing real files for every case.
type Fake struct {
	// Responses maps codeText to the object CompileAndEval returns in
	// whichever mode is not forced to fail. Stage fallback is not
	// exercised by Fake; register FailExpression/FailStatements to force it.
	Responses map[string]interface{}

	// FailExpression, if set, names code strings whose EvalExpression
	// attempt should fail (forcing a fallback to ExecStatements).
	FailExpression map[string]bool
	// FailStatements, if set, names code strings whose ExecStatements
	// attempt should fail with ErrIndentShaped (forcing a fallback to
	// ExecIndentedStatements).
	FailStatements map[string]bool

	Built []BuildCall
}

// BuildCall records one call to Build, for assertions.
type BuildCall struct {
	Builder interface{}
	Kind    Kind
	Arg     interface{}
}

func NewFake() *Fake {
	return &Fake{
		Responses:      map[string]interface{}{},
		FailExpression: map[string]bool{},
		FailStatements: map[string]bool{},
	}
}

func (f *Fake) CompileAndEval(codeText string, mode EvalMode) (interface{}, error) {
	switch mode {
	case EvalExpression:
		if f.FailExpression[codeText] {
			return nil, fmt.Errorf("fake: %q is not a valid expression", codeText)
		}
	case ExecStatements:
		if f.FailStatements[codeText] {
			return nil, fmt.Errorf("%w: fake indentation failure for %q", ErrIndentShaped, codeText)
		}
	}
	v, ok := f.Responses[codeText]
	if !ok {
		return nil, fmt.Errorf("fake: no response registered for %q", codeText)
	}
	return v, nil
}

func (f *Fake) Classify(obj interface{}) Kind {
	return Classify(obj)
}

func (f *Fake) Build(builder interface{}, kind Kind, arg interface{}) (interface{}, error) {
	f.Built = append(f.Built, BuildCall{builder, kind, arg})
	return dispatchBuild(builder, kind, arg)
}
