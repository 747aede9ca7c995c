// Package io serializes phylogenetic networks to the tool's output formats.
//
// Two plain-text formats use CRLF line separators:
//
//   - Edge list ("el"): one "<parent> <child>" line per edge, in the
//     graph's edge iteration order.
//   - Parent list ("pl"): one "<node> <predecessor>..." line per node,
//     listing zero, one (tree edge), or two (reticulation) predecessors.
//
// A JSON format round-trips the full graph including optional edge
// attributes and metadata, for the render command and the run archive.
// Newick ("nw") is recognized but unimplemented and rejected.
package io

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

// Supported output format names.
const (
	FormatEdgeList   = "el"
	FormatParentList = "pl"
	FormatJSON       = "json"
	FormatNewick     = "nw" // recognized, unimplemented
)

// lineSep separates output lines in the text formats. The formats are
// consumed by tools that expect CRLF regardless of platform.
const lineSep = "\r\n"

// ValidFormats is the set of formats Write accepts.
var ValidFormats = map[string]bool{
	FormatEdgeList:   true,
	FormatParentList: true,
	FormatJSON:       true,
}

// ValidateFormat checks that a format is valid.
// Newick is reported as UNSUPPORTED, anything else unknown as INVALID_FORMAT.
func ValidateFormat(format string) error {
	if format == FormatNewick {
		return errors.New(errors.ErrCodeUnsupported, "newick output is not implemented")
	}
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: el, pl, json)", format)
	}
	return nil
}

// WriteEdgeList writes g as an edge list: one "<parent> <child>" line per
// edge in edge iteration order, CRLF-separated, no trailing separator.
func WriteEdgeList(g *network.Network, w io.Writer) error {
	var b strings.Builder
	for i, e := range g.Edges() {
		if i > 0 {
			b.WriteString(lineSep)
		}
		fmt.Fprintf(&b, "%d %d", e.From, e.To)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteParentList writes g as a parent list: one "<node> <predecessor>..."
// line per node in node insertion order, CRLF-separated. Predecessors
// appear in incoming-edge insertion order; a reticulation node lists two.
func WriteParentList(g *network.Network, w io.Writer) error {
	var b strings.Builder
	for i, id := range g.Nodes() {
		if i > 0 {
			b.WriteString(lineSep)
		}
		fmt.Fprintf(&b, "%d", id)
		for _, p := range g.Predecessors(id) {
			fmt.Fprintf(&b, " %d", p)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Write serializes g to w in the named format.
func Write(g *network.Network, w io.Writer, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	switch format {
	case FormatEdgeList:
		return WriteEdgeList(g, w)
	case FormatParentList:
		return WriteParentList(g, w)
	default:
		return WriteJSON(g, w)
	}
}

// Export writes g to a file at path in the named format.
// This is a convenience wrapper around [Write] for file-based output.
func Export(g *network.Network, path, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, format)
}
