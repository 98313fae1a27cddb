package generator

import (
	"github.com/cpt-tools/pathcov/pkg/model"
)

// EdgeGenerator builds one covering path per uncovered edge, ignoring
// constraints entirely.
type EdgeGenerator struct {
	sut *model.SUT
}

// NewEdgeGenerator creates an edge-coverage generator for sut.
func NewEdgeGenerator(sut *model.SUT) *EdgeGenerator {
	return &EdgeGenerator{sut: sut}
}

func (g *EdgeGenerator) Name() string { return "Edge" }

// Generate walks the edge list in insertion order and emits a covering
// path for each edge not yet covered by an earlier path. Edges with no
// start-to-end walk through them are skipped rather than emitted as
// degenerate paths.
func (g *EdgeGenerator) Generate() []model.Path {
	coveredEdges := make(map[model.Edge]bool)
	var paths []model.Path
	for _, e := range g.sut.Graph().Edges() {
		if coveredEdges[e] {
			continue
		}
		p := buildPathCoveringEdge(g.sut, e)
		if p == nil {
			continue
		}
		paths = append(paths, p)
		markEdges(p, g.sut.Graph(), coveredEdges)
	}
	return paths
}
