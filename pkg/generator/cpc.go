package generator

import (
	"github.com/cpt-tools/pathcov/pkg/model"
)

// visitLimit caps how many times a single edge may appear in one
// candidate path during the constraint-first search.
const visitLimit = 2

// CPCGenerator satisfies POSITIVE and ONCE constraints first, then tops
// up edge coverage with admissible paths.
type CPCGenerator struct {
	sut *model.SUT
}

// NewCPCGenerator creates a constraint-first generator for sut.
func NewCPCGenerator(sut *model.SUT) *CPCGenerator {
	return &CPCGenerator{sut: sut}
}

func (g *CPCGenerator) Name() string { return "CPC" }

func (g *CPCGenerator) Generate() []model.Path {
	graph := g.sut.Graph()
	cs := g.sut.Constraints()

	var paths []model.Path
	coveredConstraints := make(map[model.Constraint]bool)
	coveredEdges := make(map[model.Edge]bool)

	// Phase 1: for every POSITIVE/ONCE constraint not yet covered, find
	// a start-to-end admissible walk containing it.
	for _, c := range cs {
		if c.Type != model.Positive && c.Type != model.Once {
			continue
		}
		if coveredConstraints[c] {
			continue
		}
		p := g.findAdmissiblePath(c, cs, coveredConstraints)
		if p != nil && !containsPath(paths, p) {
			paths = append(paths, p)
			markEdges(p, graph, coveredEdges)
			markConstraints(p, cs, coveredConstraints)
		}
	}

	// Phase 2: cover the remaining edges, keeping only admissible paths.
	for _, e := range graph.Edges() {
		if coveredEdges[e] {
			continue
		}
		p := buildPathCoveringEdge(g.sut, e)
		if p == nil || containsPath(paths, p) {
			continue
		}
		if admissible(p, cs, coveredConstraints) {
			paths = append(paths, p)
			markEdges(p, graph, coveredEdges)
			markConstraints(p, cs, coveredConstraints)
		}
	}
	return paths
}

// findAdmissiblePath searches for a start-to-end walk containing the
// target constraint, by iterative-deepening BFS on edge reuse: each
// limit from 1 to visitLimit runs an independent BFS from scratch in
// which no edge may appear in a candidate more than limit times.
// Admissibility is checked at expansion time, pruning negative and
// repeat-violating prefixes early. A prefix that reaches an end vertex
// is not extended further. Returns nil when no walk exists within
// visitLimit.
func (g *CPCGenerator) findAdmissiblePath(target model.Constraint,
	cs []model.Constraint, covered map[model.Constraint]bool) model.Path {

	start, ok := g.sut.Start()
	if !ok {
		return nil
	}
	graph := g.sut.Graph()

	for limit := 1; limit <= visitLimit; limit++ {
		var queue []model.Path
		for _, out := range graph.OutEdges(start) {
			queue = append(queue, model.Path{start, out.To})
		}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			last := p[len(p)-1]

			if g.sut.IsEnd(last) {
				if p.Contains(target) {
					return p
				}
				continue
			}

			for _, out := range graph.OutEdges(last) {
				if p.EdgeOccurrences(out) >= limit {
					continue
				}
				next := p.Extend(out.To)
				if admissible(next, cs, covered) {
					queue = append(queue, next)
				}
			}
		}
	}
	return nil
}
