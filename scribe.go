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

// Package scribe is the top-level entry point into the parser: it wires a
// source.Map and a HostBridge into pkg/interp's processor stack the same
// way cmd/scribe's runOnce does, for callers that want the document tree
// in-process instead of through the CLI.
package scribe

import (
	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/interp"
	"github.com/scribelang/scribe/pkg/source"
)

// ParseString parses contents as a standalone root file named name,
// evaluating escape brackets against bridge (hostbridge.NewYaegiBridge()
// for real Go code, or a scripted hostbridge.Bridge in tests).
func ParseString(name, contents string, bridge hostbridge.Bridge, opts interp.Options) (*doctree.Document, error) {
	m := source.NewMap()
	idx := m.AddFile(name, contents)
	env := &interp.Env{Sources: m, Bridge: bridge, Options: opts}
	return interp.NewProcessorStacks(env, idx).Run()
}
