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

// Program scribe parses the first FILE argument as a scribe source file and
// prints the resulting document tree, or the error that stopped it. Further
// FILE arguments are not parsed; in --watch mode their directories are
// watched too.
//
// Usage: scribe [--watch] [--no-color] FILE [...]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"

	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/interp"
	"github.com/scribelang/scribe/pkg/source"
	"github.com/scribelang/scribe/pkg/treeprint"
)

var stop = os.Exit

func main() {
	var watch bool
	var noColor bool
	var maxDepthStr string
	getopt.BoolVarLong(&watch, "watch", 0, "reparse whenever an input file changes")
	getopt.BoolVarLong(&noColor, "no-color", 0, "never colorize error output")
	getopt.StringVarLong(&maxDepthStr, "max-file-depth", 0, "file insertion recursion limit (default 64)", "N")
	getopt.SetParameters("FILE [...]")

	if err := getopt.Getopt(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		stop(1)
		return
	}

	files := getopt.Args()
	if len(files) == 0 {
		getopt.PrintUsage(os.Stderr)
		stop(1)
		return
	}

	color := !noColor && isatty.IsTerminal(os.Stderr.Fd())

	var maxDepth int
	if maxDepthStr != "" {
		n, err := strconv.Atoi(maxDepthStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "--max-file-depth: %v\n", err)
			stop(1)
			return
		}
		maxDepth = n
	}
	opts := interp.Options{MaxFileStackDepth: maxDepth}
	runOnce(files, opts, color)

	if !watch {
		return
	}
	watchAndRerun(files, opts, color)
}

// runOnce parses files[0] (the rest are expected to be reachable via file
// insertion from it) and prints the tree or the error that stopped it.
func runOnce(files []string, opts interp.Options, color bool) {
	loader := source.NewLoader()
	m := source.NewMap()
	idx, err := loader.Load(m, files[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
		return
	}

	env := &interp.Env{Sources: m, Bridge: hostbridge.NewYaegiBridge(), Options: opts}
	doc, err := interp.NewProcessorStacks(env, idx).Run()
	if err != nil {
		printError(m, err, color)
		stop(1)
		return
	}
	treeprint.Write(os.Stdout, doc)
}

// watchAndRerun reparses files[0] on every filesystem change, debounced so
// two reparses never run concurrently (§5, ambient watch mode).
func watchAndRerun(files []string, opts interp.Options, color bool) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
		return
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
			return
		}
	}

	var debounce *time.Timer
	var mu sync.Mutex
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(os.Stderr, "-- reparsing after change to %s --\n", ev.Name)
				runOnce(files, opts, color)
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func printError(m *source.Map, err error, color bool) {
	loc, ok := err.(ierr.Located)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if color {
		fmt.Fprintf(os.Stderr, "%s: \x1b[31merror:\x1b[0m %v\n", ierr.Loc(m, loc), err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: error: %v\n", ierr.Loc(m, loc), err)
}
