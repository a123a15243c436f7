// Package visualization renders syntactic trees as SVG, one diagram per
// derivation snapshot.
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pflow-xyz/go-morph/redup"
	"github.com/pflow-xyz/go-morph/syntax"
)

// Visual constants for rendering
const (
	levelHeight  = 72.0 // vertical distance between depth rows
	leafSpacing  = 110.0
	padding      = 48.0
	labelDescent = 5.0  // edge start below the parent label
	labelAscent  = 14.0 // edge end above the child label
	featureDrop  = 15.0 // feature line offset under a leaf label
	phonDrop     = 30.0 // phonology line offset under a leaf label
	minCanvas    = 120.0
)

// point is a node's anchor in the diagram
type point struct {
	x, y float64
}

// RenderSVG generates an SVG diagram of a syntactic tree. Leaves are laid
// out left to right, one row per depth; each internal node is centered
// over its children. Lexicalized leaves stack label, features, and
// phonology.
func RenderSVG(tree *syntax.Node) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("render svg: nil tree")
	}

	positions := make(map[*syntax.Node]point)
	nextLeaf := 0.0
	var place func(n *syntax.Node, depth int) float64
	place = func(n *syntax.Node, depth int) float64 {
		y := float64(depth) * levelHeight
		if n.IsLeaf() {
			x := nextLeaf
			nextLeaf += leafSpacing
			positions[n] = point{x: x, y: y}
			return x
		}
		first, last := 0.0, 0.0
		for i, c := range n.Children {
			cx := place(c, depth+1)
			if i == 0 {
				first = cx
			}
			last = cx
		}
		x := (first + last) / 2
		positions[n] = point{x: x, y: y}
		return x
	}
	place(tree, 0)

	minX, minY, maxX, maxY := bounds(positions)
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding + phonDrop

	width := maxX - minX
	height := maxY - minY
	if width < minCanvas {
		width = minCanvas
	}
	if height < minCanvas {
		height = minCanvas
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`,
		minX, minY, width, height, width, height))
	buf.WriteString("\n")

	// Background rectangle for visibility on dark themes
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f8f9fa" rx="8"/>`,
		minX, minY, width, height))
	buf.WriteString("\n")

	buf.WriteString(`<defs>`)
	buf.WriteString(`<style>`)
	buf.WriteString(`.edge { stroke: #666; stroke-width: 1.5; }`)
	buf.WriteString(`.node-label { font-family: system-ui, Arial; font-size: 13px; fill: #333; text-anchor: middle; }`)
	buf.WriteString(`.node-label-red { font-family: system-ui, Arial; font-size: 13px; fill: #c62828; text-anchor: middle; font-weight: bold; }`)
	buf.WriteString(`.node-features { font-family: system-ui, Arial; font-size: 10px; fill: #7b1fa2; text-anchor: middle; }`)
	buf.WriteString(`.node-phon { font-family: system-ui, Arial; font-size: 12px; font-style: italic; fill: #1976d2; text-anchor: middle; }`)
	buf.WriteString(`</style>`)
	buf.WriteString(`</defs>`)
	buf.WriteString("\n")

	// Edges first so labels sit on top
	tree.Walk(func(n *syntax.Node, _ int) {
		p := positions[n]
		for _, c := range n.Children {
			cp := positions[c]
			buf.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="edge"/>`,
				p.x, p.y+labelDescent, cp.x, cp.y-labelAscent))
			buf.WriteString("\n")
		}
	})

	tree.Walk(func(n *syntax.Node, _ int) {
		p := positions[n]
		class := "node-label"
		if n.Label == redup.Label || n.Label == redup.PhraseLabel {
			class = "node-label-red"
		}
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="%s">%s</text>`,
			p.x, p.y, class, escapeXML(n.Label)))
		buf.WriteString("\n")
		if !n.Lexical {
			return
		}
		if len(n.Features) > 0 {
			buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="node-features">[%s]</text>`,
				p.x, p.y+featureDrop, escapeXML(strings.Join(n.Features, " "))))
			buf.WriteString("\n")
		}
		phon := n.Phon
		if phon == "" {
			phon = "∅"
		}
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="node-phon">%s</text>`,
			p.x, p.y+phonDrop, escapeXML(phon)))
		buf.WriteString("\n")
	})

	buf.WriteString("</svg>\n")

	return buf.String(), nil
}

// SaveSVG renders a tree and writes the diagram to a file.
func SaveSVG(tree *syntax.Node, filename string) error {
	svgString, err := RenderSVG(tree)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(svgString), 0644)
}

// bounds returns the bounding box of all node anchors.
func bounds(positions map[*syntax.Node]point) (minX, minY, maxX, maxY float64) {
	first := true
	for _, p := range positions {
		if first {
			minX, maxX = p.x, p.x
			minY, maxY = p.y, p.y
			first = false
			continue
		}
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}
	return
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
