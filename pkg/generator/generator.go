// Package generator produces test paths for a control-flow SUT. Three
// strategies are provided: Edge (cover every edge), Filter (edge
// coverage with inadmissible paths dropped), and CPC (constraint-first
// search with edge-coverage top-up). All three share the path
// construction primitives in path.go.
package generator

import (
	"github.com/cpt-tools/pathcov/pkg/model"
)

// Generator produces a fresh test set per call. The SUT is never
// mutated; coverage bookkeeping lives inside a single Generate call.
type Generator interface {
	// Name returns the algorithm tag used in reports ("CPC", "Filter",
	// "Edge").
	Name() string

	// Generate returns the test paths. Every returned path starts at
	// the SUT start vertex and ends in its end set.
	Generate() []model.Path
}

func containsPath(paths []model.Path, p model.Path) bool {
	for _, q := range paths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}
