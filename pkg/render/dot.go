// Package render visualizes phylogenetic networks via Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds edge labels showing length and probability attributes.
	// When false, edges are unlabeled.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT format.
// Leaves (tips) are rendered as boxes, internal tree nodes as small
// circles, and reticulation nodes (in-degree 2) as filled diamonds. The
// resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(g *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph N {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %d [%s];\n", id, nodeAttrs(g, id))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if label := edgeLabel(e, opts.Detailed); label != "" {
			fmt.Fprintf(&buf, "  %d -> %d [label=%q];\n", e.From, e.To, label)
		} else {
			fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *network.Network, id int) string {
	switch {
	case g.OutDegree(id) == 0:
		return "shape=box, style=filled, fillcolor=white"
	case g.InDegree(id) >= 2:
		return "shape=diamond, style=filled, fillcolor=lightblue"
	default:
		return "shape=circle, width=0.25, fixedsize=true"
	}
}

func edgeLabel(e network.Edge, detailed bool) string {
	if !detailed {
		return ""
	}
	var label string
	if e.Length.Valid {
		label = fmt.Sprintf("l=%.3g", e.Length.Value)
	}
	if e.Prob.Valid {
		if label != "" {
			label += " "
		}
		label += fmt.Sprintf("p=%.3g", e.Prob.Value)
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
