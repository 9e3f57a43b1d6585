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

// Program scribe-tui opens a parsed document in an interactive tree
// browser: j/k to move, c to copy the selected node's source span to the
// clipboard, q to quit. The tree is shown fully expanded; nodes cannot be
// collapsed.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scribelang/scribe/pkg/doctree"
	"github.com/scribelang/scribe/pkg/hostbridge"
	"github.com/scribelang/scribe/pkg/ierr"
	"github.com/scribelang/scribe/pkg/interp"
	"github.com/scribelang/scribe/pkg/source"
)

type CLI struct {
	File string `arg:"" help:"Scribe source file to browse."`
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Background(lipgloss.Color("236"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
)

// node is one row of the flattened tree: a label to display and the span
// a 'c' keypress copies.
type node struct {
	label string
	depth int
	span  source.Span
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("scribe-tui"),
		kong.Description("Browse a parsed scribe document tree."),
	)

	loader := source.NewLoader()
	m := source.NewMap()
	idx, err := loader.Load(m, cli.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	env := &interp.Env{Sources: m, Bridge: hostbridge.NewYaegiBridge()}
	doc, err := interp.NewProcessorStacks(env, idx).Run()
	if err != nil {
		if loc, ok := err.(ierr.Located); ok {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", ierr.Loc(m, loc), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	nodes := flatten(doc)
	p := tea.NewProgram(&model{sources: m, nodes: nodes})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type model struct {
	sources *source.Map
	nodes   []node
	cursor  int
	status  string
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.nodes)-1 {
			m.cursor++
		}
	case "c":
		n := m.nodes[m.cursor]
		text := n.span.Text(m.sources)
		if err := clipboard.WriteAll(text); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("copied %d bytes", len(text))
		}
	}
	return m, nil
}

func (m *model) View() string {
	var out string
	out += titleStyle.Render("scribe document tree") + "\n"
	for i, n := range m.nodes {
		line := fmt.Sprintf("%s%s  %s", indent(n.depth), n.label, n.span.String())
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}
	if m.status != "" {
		out += helpStyle.Render(m.status) + "\n"
	}
	out += helpStyle.Render("j/k move · c copy span · q quit")
	return out
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}

func flatten(doc *doctree.Document) []node {
	var out []node
	flattenBlockScope(&out, doc.Contents, 0)
	for _, seg := range doc.Segments {
		flattenSegment(&out, seg, 0)
	}
	return out
}

func flattenSegment(out *[]node, seg *doctree.DocSegment, depth int) {
	*out = append(*out, node{label: fmt.Sprintf("header(weight=%d)", seg.Header.Weight()), depth: depth, span: seg.Header.SourceSpan()})
	flattenBlockScope(out, seg.Contents, depth+1)
	for _, sub := range seg.Subsegments {
		flattenSegment(out, sub, depth+1)
	}
}

func flattenBlockScope(out *[]node, bs *doctree.BlockScope, depth int) {
	for _, b := range bs.Children {
		flattenBlock(out, b, depth)
	}
}

func flattenBlock(out *[]node, b doctree.Block, depth int) {
	switch v := b.(type) {
	case *doctree.BlockScope:
		*out = append(*out, node{label: "block scope", depth: depth, span: v.SourceSpan()})
		flattenBlockScope(out, v, depth+1)
	case *doctree.Paragraph:
		*out = append(*out, node{label: "paragraph", depth: depth, span: v.SourceSpan()})
		for _, s := range v.Sentences {
			*out = append(*out, node{label: "sentence", depth: depth + 1, span: s.SourceSpan()})
		}
	default:
		*out = append(*out, node{label: fmt.Sprintf("host-block %T", b), depth: depth, span: b.SourceSpan()})
	}
}
