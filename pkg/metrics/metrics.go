// Package metrics quantifies a generated test set: validity against the
// constraint list, size and length statistics, and edge/constraint
// coverage ratios.
package metrics

import (
	"math"
	"time"

	"github.com/cpt-tools/pathcov/pkg/model"
)

// Valid returns 1 if every constraint is satisfied by the test set,
// otherwise -k where k is the number of unsatisfied constraints. A
// constraint's occurrence count is the number of paths containing it;
// POSITIVE needs n >= 1, ONCE n == 1, NEGATIVE n == 0, MAX_ONCE n <= 1.
func Valid(sut *model.SUT, tests []model.Path) int {
	unsat := 0
	for _, c := range sut.Constraints() {
		n := containingPaths(tests, c)
		switch c.Type {
		case model.Positive:
			if n < 1 {
				unsat++
			}
		case model.Once:
			if n != 1 {
				unsat++
			}
		case model.Negative:
			if n > 0 {
				unsat++
			}
		case model.MaxOnce:
			if n > 1 {
				unsat++
			}
		}
	}
	if unsat == 0 {
		return 1
	}
	return -unsat
}

// Size returns |T|, the number of paths.
func Size(tests []model.Path) int {
	return len(tests)
}

// TotalEdges returns l(T), the summed edge length over all paths.
func TotalEdges(tests []model.Path) int {
	total := 0
	for _, p := range tests {
		total += p.EdgeLen()
	}
	return total
}

// UniqueEdges returns the number of distinct graph edges traversed by
// at least one path. Consecutive pairs that are not graph edges do not
// count.
func UniqueEdges(sut *model.SUT, tests []model.Path) int {
	g := sut.Graph()
	covered := make(map[model.Edge]bool)
	for _, p := range tests {
		for i := 0; i+1 < len(p); i++ {
			if g.HasEdge(p[i], p[i+1]) {
				covered[model.Edge{From: p[i], To: p[i+1]}] = true
			}
		}
	}
	return len(covered)
}

// AverageLength returns l(T) / |T|, or 0 for an empty test set.
func AverageLength(tests []model.Path) float64 {
	if len(tests) == 0 {
		return 0
	}
	return float64(TotalEdges(tests)) / float64(len(tests))
}

// LengthStdDev returns the sample standard deviation (n-1 denominator)
// of path edge lengths, or -1 when fewer than two paths exist.
func LengthStdDev(tests []model.Path) float64 {
	n := len(tests)
	if n < 2 {
		return -1
	}
	avg := AverageLength(tests)
	sum2 := 0.0
	for _, p := range tests {
		d := float64(p.EdgeLen()) - avg
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n-1))
}

// EdgeEfficiency returns uniqueEdges / l(T), or 0 when l(T) is 0.
func EdgeEfficiency(sut *model.SUT, tests []model.Path) float64 {
	total := TotalEdges(tests)
	if total == 0 {
		return 0
	}
	return float64(UniqueEdges(sut, tests)) / float64(total)
}

// EdgeCoverage returns uniqueEdges / |E|, or 0 for an edgeless graph.
func EdgeCoverage(sut *model.SUT, tests []model.Path) float64 {
	all := sut.Graph().NumEdges()
	if all == 0 {
		return 0
	}
	return float64(UniqueEdges(sut, tests)) / float64(all)
}

// CovPositive returns the fraction of POSITIVE constraints contained in
// at least one path, or -1 when there are none.
func CovPositive(sut *model.SUT, tests []model.Path) float64 {
	return covConstraintType(sut, model.Positive, func(c model.Constraint) bool {
		return containingPaths(tests, c) >= 1
	})
}

// CovOnce returns the fraction of ONCE constraints contained in exactly
// one path, or -1 when there are none. Per-path repetition is the
// admissibility check's concern, not this ratio's.
func CovOnce(sut *model.SUT, tests []model.Path) float64 {
	return covConstraintType(sut, model.Once, func(c model.Constraint) bool {
		return containingPaths(tests, c) == 1
	})
}

// CovNegative returns the fraction of NEGATIVE constraints contained in
// at least one path, or -1 when there are none. Note this is the
// violation rate: lower is better.
func CovNegative(sut *model.SUT, tests []model.Path) float64 {
	return covConstraintType(sut, model.Negative, func(c model.Constraint) bool {
		return containingPaths(tests, c) >= 1
	})
}

// CovMaxOnce returns the fraction of MAX_ONCE constraints contained in
// at most one path, or -1 when there are none.
func CovMaxOnce(sut *model.SUT, tests []model.Path) float64 {
	return covConstraintType(sut, model.MaxOnce, func(c model.Constraint) bool {
		return containingPaths(tests, c) <= 1
	})
}

func containingPaths(tests []model.Path, c model.Constraint) int {
	n := 0
	for _, p := range tests {
		if p.Contains(c) {
			n++
		}
	}
	return n
}

func covConstraintType(sut *model.SUT, t model.ConstraintType,
	sat func(model.Constraint) bool) float64 {

	total, satisfied := 0, 0
	for _, c := range sut.Constraints() {
		if c.Type != t {
			continue
		}
		total++
		if sat(c) {
			satisfied++
		}
	}
	if total == 0 {
		return -1
	}
	return float64(satisfied) / float64(total)
}

// Report bundles every metric for one generator run.
type Report struct {
	Valid          int     `json:"valid"`
	Size           int     `json:"size"`
	TotalEdges     int     `json:"totalEdges"`
	UniqueEdges    int     `json:"uniqueEdges"`
	AverageLength  float64 `json:"averageLength"`
	LengthStdDev   float64 `json:"lengthStdDev"`
	EdgeEfficiency float64 `json:"edgeEfficiency"`
	EdgeCoverage   float64 `json:"edgeCoverage"`
	CovPositive    float64 `json:"covPositive"`
	CovOnce        float64 `json:"covOnce"`
	CovNegative    float64 `json:"covNegative"`
	CovMaxOnce     float64 `json:"covMaxOnce"`
	TimeMS         float64 `json:"timeMs"`
}

// Compute evaluates all metrics for tests against sut. elapsed is the
// wall-clock generation time recorded in the report.
func Compute(sut *model.SUT, tests []model.Path, elapsed time.Duration) Report {
	return Report{
		Valid:          Valid(sut, tests),
		Size:           Size(tests),
		TotalEdges:     TotalEdges(tests),
		UniqueEdges:    UniqueEdges(sut, tests),
		AverageLength:  AverageLength(tests),
		LengthStdDev:   LengthStdDev(tests),
		EdgeEfficiency: EdgeEfficiency(sut, tests),
		EdgeCoverage:   EdgeCoverage(sut, tests),
		CovPositive:    CovPositive(sut, tests),
		CovOnce:        CovOnce(sut, tests),
		CovNegative:    CovNegative(sut, tests),
		CovMaxOnce:     CovMaxOnce(sut, tests),
		TimeMS:         float64(elapsed.Nanoseconds()) / 1e6,
	}
}
