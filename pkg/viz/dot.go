// Package viz exports the SUT graph as Graphviz DOT and renders it to
// PNG via the dot binary.
package viz

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/cpt-tools/pathcov/pkg/model"
)

var nonWord = regexp.MustCompile(`\W+`)

// node carries the Graphviz attributes for one vertex.
type node struct {
	id    int64
	dotID string
	attrs []encoding.Attribute
}

func (n *node) ID() int64                        { return n.id }
func (n *node) DOTID() string                    { return n.dotID }
func (n *node) Attributes() []encoding.Attribute { return n.attrs }

// Marshal renders sut as DOT. The start vertex gets fillcolor
// chartreuse4 and is filled unless it also appears in a constraint, in
// which case the constraint style replaces the filled style; vertices
// that appear in a constraint are colored by constraint type (green
// POSITIVE, blue ONCE, red NEGATIVE, orange MAX_ONCE), dashed when the
// vertex is the constraint's from side and solid when it is the to
// side. When several constraints touch one vertex, the last one in
// declaration order wins.
func Marshal(sut *model.SUT) ([]byte, error) {
	g := sut.Graph()
	dg := simple.NewDirectedGraph()

	nodes := make(map[model.Vertex]*node, g.NumVertices())
	for _, v := range g.Vertices() {
		id, _ := g.NodeID(v)
		n := &node{id: id, dotID: nonWord.ReplaceAllString(string(v), "_")}
		n.attrs = append(n.attrs, encoding.Attribute{Key: "label", Value: string(v)})

		var style, fill string
		if start, ok := sut.Start(); ok && v == start {
			style, fill = "filled", "chartreuse4"
		}
		color, constraintStyleVal, hasConstraint := constraintStyle(sut, v)
		if hasConstraint {
			// A constraint marker overrides the start fill style.
			style = constraintStyleVal
		}
		if style != "" {
			n.attrs = append(n.attrs, encoding.Attribute{Key: "style", Value: style})
		}
		if fill != "" {
			n.attrs = append(n.attrs, encoding.Attribute{Key: "fillcolor", Value: fill})
		}
		if hasConstraint {
			n.attrs = append(n.attrs, encoding.Attribute{Key: "color", Value: color})
		}
		nodes[v] = n
		dg.AddNode(n)
	}
	for _, e := range g.Edges() {
		dg.SetEdge(dg.NewEdge(nodes[e.From], nodes[e.To]))
	}

	return dot.Marshal(dg, "sut", "", "  ")
}

func constraintStyle(sut *model.SUT, v model.Vertex) (color, style string, ok bool) {
	colors := map[model.ConstraintType]string{
		model.Positive: "green",
		model.Once:     "blue",
		model.Negative: "red",
		model.MaxOnce:  "orange",
	}
	for _, c := range sut.Constraints() {
		if c.From == v {
			color, style, ok = colors[c.Type], "dashed", true
		}
		if c.To == v {
			color, style, ok = colors[c.Type], "solid", true
		}
	}
	return color, style, ok
}

// WriteDOTFile marshals sut and writes the DOT text to path.
func WriteDOTFile(path string, sut *model.SUT) error {
	data, err := Marshal(sut)
	if err != nil {
		return fmt.Errorf("marshal DOT: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write DOT file: %w", err)
	}
	return nil
}

// RenderPNG runs the Graphviz dot binary to render dotFile into
// pngFile.
func RenderPNG(dotFile, pngFile string) error {
	cmd := exec.Command("dot", "-Tpng", dotFile, "-o", pngFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("graphviz rendering failed: %v: %s", err, out)
	}
	return nil
}
