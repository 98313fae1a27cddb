package generator

import (
	"github.com/cpt-tools/pathcov/pkg/model"
)

// FilterGenerator runs the edge-coverage strategy and then discards
// paths that are inadmissible under the constraints accumulated so far.
// Output order is inherited from the edge generator.
type FilterGenerator struct {
	sut *model.SUT
}

// NewFilterGenerator creates a filtering generator for sut.
func NewFilterGenerator(sut *model.SUT) *FilterGenerator {
	return &FilterGenerator{sut: sut}
}

func (g *FilterGenerator) Name() string { return "Filter" }

func (g *FilterGenerator) Generate() []model.Path {
	cs := g.sut.Constraints()
	coveredConstraints := make(map[model.Constraint]bool)
	var paths []model.Path
	for _, p := range NewEdgeGenerator(g.sut).Generate() {
		if admissible(p, cs, coveredConstraints) {
			markConstraints(p, cs, coveredConstraints)
			paths = append(paths, p)
		}
	}
	return paths
}
