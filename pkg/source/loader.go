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
	"github.com/spf13/afero"
)

// Loader reads entry files into a Map through an afero.Fs, so the driver
// and its tests can run against the OS filesystem or an in-memory one
// interchangeably, the same role afero plays in the pack's config loaders.
type Loader struct {
	Fs afero.Fs
}

// NewLoader returns a Loader backed by the OS filesystem.
func NewLoader() *Loader {
	return &Loader{Fs: afero.NewOsFs()}
}

// NewMemLoader returns a Loader backed by an in-memory filesystem, for
// tests that want to avoid touching disk.
func NewMemLoader() *Loader {
	return &Loader{Fs: afero.NewMemMapFs()}
}

// Load reads name through l.Fs and adds it to m, returning its file index.
func (l *Loader) Load(m *Map, name string) (int, error) {
	b, err := afero.ReadFile(l.Fs, name)
	if err != nil {
		return 0, err
	}
	return m.AddFile(name, string(b)), nil
}
