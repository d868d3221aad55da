package asm

import (
	"regexp"
	"sort"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][\w$?]*$`)

// LabelGraph records which labels reference which other labels through
// `.word`/`.long` directives, e.g. an animation table pointing at frames,
// frames pointing at images and palettes.
type LabelGraph struct {
	parents  map[string][]string
	children map[string][]string
	palettes map[string]bool
}

func NewLabelGraph() *LabelGraph {
	return &LabelGraph{
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		palettes: make(map[string]bool),
	}
}

// BuildLabelGraph scans source files for label references.
func BuildLabelGraph(files []File) *LabelGraph {
	g := NewLabelGraph()
	for _, f := range files {
		g.AddFile(f)
	}
	return g
}

// AddFile adds the references of one file. A reference belongs to the most
// recent label above it.
func (g *LabelGraph) AddFile(f File) {
	current := ""
	for i, text := range f.lines() {
		l := ParseLine(text, f.Name, i+1)
		if l.Label != "" {
			current = l.Label
		}
		if current == "" {
			continue
		}
		switch strings.ToLower(l.Instruction) {
		case ".word", ".long":
		default:
			continue
		}
		for _, tok := range strings.Split(l.Args, ",") {
			tok = strings.TrimSpace(tok)
			if identRe.MatchString(tok) {
				g.AddEdge(current, tok)
			}
		}
	}
}

// AddEdge records that parent references child.
func (g *LabelGraph) AddEdge(parent, child string) {
	for _, c := range g.children[parent] {
		if c == child {
			return
		}
	}
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// MarkPalettes declares which labels are palettes.
func (g *LabelGraph) MarkPalettes(labels ...string) {
	for _, l := range labels {
		g.palettes[l] = true
	}
}

// Parents returns the labels referencing label, sorted.
func (g *LabelGraph) Parents(label string) []string {
	p := append([]string(nil), g.parents[label]...)
	sort.Strings(p)
	return p
}

// PaletteFor walks up from label one generation at a time. At each
// generation it collects the palettes referenced by the ancestors found so
// far; exactly one palette is an answer, more than one is ambiguous and ends
// the walk without an answer. Palettes referenced directly alongside label
// count as the first generation.
func (g *LabelGraph) PaletteFor(label string) (string, bool) {
	seen := map[string]bool{label: true}
	gen := []string{label}
	for len(gen) > 0 {
		var next []string
		for _, l := range gen {
			for _, p := range g.parents[l] {
				if !seen[p] {
					seen[p] = true
					next = append(next, p)
				}
			}
		}
		candidates := map[string]bool{}
		for _, p := range next {
			for _, c := range g.children[p] {
				if g.palettes[c] {
					candidates[c] = true
				}
			}
		}
		switch len(candidates) {
		case 0:
			gen = next
			continue
		case 1:
			for c := range candidates {
				return c, true
			}
		}
		return "", false
	}
	return "", false
}
