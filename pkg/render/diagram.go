package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/kbforge/klegen/pkg/kle"
)

// MatrixDOT converts the assigned switch matrix to Graphviz DOT format:
// one node per used row net, one per used column net, and one edge per
// key connecting its row to its column. Render the result with
// [RenderSVG].
func MatrixDOT(kb *kle.Keyboard) string {
	var buf bytes.Buffer
	buf.WriteString("graph matrix {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.15,0.1\"];\n")
	buf.WriteString("\n")

	for i, block := range kb.Rows.Blocks() {
		if len(block) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  \"Row%d\" [fillcolor=lightyellow];\n", i)
	}
	for i, block := range kb.Cols.Blocks() {
		if len(block) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  \"Col%d\" [fillcolor=lightblue];\n", i)
	}

	buf.WriteString("\n")
	for _, k := range kb.Keys {
		fmt.Fprintf(&buf, "  \"Row%d\" -- \"Col%d\" [label=%q, fontsize=10];\n", k.Row, k.Col, k.Legend)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
