package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/cpt-tools/pathcov/pkg/model"
)

// Format writes sut in canonical text form: one line per vertex in
// insertion order with its successors in edge insertion order, followed
// by the constraints in insertion order. Parsing the output yields an
// equal SUT, provided every vertex without successors is an end vertex.
// A parsed SUT can break this: a vertex that appears only as a
// successor, is not named END*/end*, and has no line of its own is
// written as "<vertex>:[]" and comes back as an end.
func Format(w io.Writer, sut *model.SUT) error {
	g := sut.Graph()
	for _, v := range g.Vertices() {
		out := g.OutEdges(v)
		succs := make([]string, len(out))
		for i, e := range out {
			succs[i] = string(e.To)
		}
		if _, err := fmt.Fprintf(w, "%s:[%s]\n", v, strings.Join(succs, ",")); err != nil {
			return err
		}
	}
	for _, c := range sut.Constraints() {
		if _, err := fmt.Fprintf(w, "Constraint[%s - %s - %s]\n", c.From, c.To, c.Type); err != nil {
			return err
		}
	}
	return nil
}

// FormatString renders Format into a string.
func FormatString(sut *model.SUT) string {
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = Format(&b, sut)
	return b.String()
}
