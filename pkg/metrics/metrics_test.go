package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/cpt-tools/pathcov/pkg/model"
)

func chainSUT(cs ...model.Constraint) *model.SUT {
	sut := model.NewSUT()
	sut.SetStart("START")
	sut.AddEdge("START", "A")
	sut.AddEdge("A", "END1")
	sut.AddEnd("END1")
	for _, c := range cs {
		sut.AddConstraint(c)
	}
	return sut
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestValid(t *testing.T) {
	chain := model.Path{"START", "A", "END1"}

	tests := []struct {
		name  string
		cs    []model.Constraint
		tests []model.Path
		want  int
	}{
		{
			name:  "no constraints",
			tests: []model.Path{chain},
			want:  1,
		},
		{
			name:  "positive satisfied",
			cs:    []model.Constraint{{From: "START", To: "A", Type: model.Positive}},
			tests: []model.Path{chain},
			want:  1,
		},
		{
			name:  "positive unsatisfied",
			cs:    []model.Constraint{{From: "A", To: "START", Type: model.Positive}},
			tests: []model.Path{chain},
			want:  -1,
		},
		{
			name: "two unsatisfied",
			cs: []model.Constraint{
				{From: "A", To: "START", Type: model.Positive},
				{From: "START", To: "A", Type: model.Negative},
			},
			tests: []model.Path{chain},
			want:  -2,
		},
		{
			name:  "negative satisfied on empty set",
			cs:    []model.Constraint{{From: "START", To: "A", Type: model.Negative}},
			tests: nil,
			want:  1,
		},
		{
			name:  "once needs exactly one containing path",
			cs:    []model.Constraint{{From: "START", To: "A", Type: model.Once}},
			tests: []model.Path{chain, chain},
			want:  -1,
		},
		{
			name:  "max once tolerates one",
			cs:    []model.Constraint{{From: "START", To: "A", Type: model.MaxOnce}},
			tests: []model.Path{chain},
			want:  1,
		},
		{
			name:  "max once violated by two",
			cs:    []model.Constraint{{From: "START", To: "A", Type: model.MaxOnce}},
			tests: []model.Path{chain, chain},
			want:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut := chainSUT(tt.cs...)
			if got := Valid(sut, tt.tests); got != tt.want {
				t.Errorf("Valid() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSizeAndLengths(t *testing.T) {
	tests := []model.Path{
		{"START", "A", "END1"},          // 2 edges
		{"START", "A", "B", "A", "END1"}, // 4 edges
	}

	if got := Size(tests); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if got := TotalEdges(tests); got != 6 {
		t.Errorf("TotalEdges() = %d, want 6", got)
	}
	if got := AverageLength(tests); !almostEqual(got, 3) {
		t.Errorf("AverageLength() = %g, want 3", got)
	}
	// Sample stddev of {2, 4} is sqrt(2).
	if got := LengthStdDev(tests); !almostEqual(got, math.Sqrt2) {
		t.Errorf("LengthStdDev() = %g, want sqrt(2)", got)
	}
}

func TestUniqueEdges(t *testing.T) {
	sut := chainSUT()
	tests := []model.Path{
		{"START", "A", "END1"},
		{"START", "A", "END1"},
	}
	if got := UniqueEdges(sut, tests); got != 2 {
		t.Errorf("UniqueEdges() = %d, want 2", got)
	}

	// Consecutive pairs that are not graph edges do not count.
	bogus := []model.Path{{"END1", "START"}}
	if got := UniqueEdges(sut, bogus); got != 0 {
		t.Errorf("UniqueEdges(non-edges) = %d, want 0", got)
	}
}

func TestEfficiencyAndCoverage(t *testing.T) {
	sut := chainSUT()
	tests := []model.Path{
		{"START", "A", "END1"},
		{"START", "A", "END1"},
	}
	// 2 unique edges over 4 traversed.
	if got := EdgeEfficiency(sut, tests); !almostEqual(got, 0.5) {
		t.Errorf("EdgeEfficiency() = %g, want 0.5", got)
	}
	if got := EdgeCoverage(sut, tests); !almostEqual(got, 1) {
		t.Errorf("EdgeCoverage() = %g, want 1", got)
	}
}

func TestConstraintCoverage(t *testing.T) {
	pos := model.Constraint{From: "START", To: "A", Type: model.Positive}
	once := model.Constraint{From: "START", To: "A", Type: model.Once}
	neg := model.Constraint{From: "START", To: "A", Type: model.Negative}
	maxOnce := model.Constraint{From: "START", To: "A", Type: model.MaxOnce}

	chain := model.Path{"START", "A", "END1"}

	t.Run("positive", func(t *testing.T) {
		sut := chainSUT(pos)
		if got := CovPositive(sut, []model.Path{chain}); !almostEqual(got, 1) {
			t.Errorf("CovPositive() = %g, want 1", got)
		}
		if got := CovPositive(sut, nil); !almostEqual(got, 0) {
			t.Errorf("CovPositive(empty) = %g, want 0", got)
		}
	})

	t.Run("once", func(t *testing.T) {
		sut := chainSUT(once)
		if got := CovOnce(sut, []model.Path{chain}); !almostEqual(got, 1) {
			t.Errorf("CovOnce() = %g, want 1", got)
		}
		if got := CovOnce(sut, []model.Path{chain, chain}); !almostEqual(got, 0) {
			t.Errorf("CovOnce(two paths) = %g, want 0", got)
		}
	})

	t.Run("negative reports violation rate", func(t *testing.T) {
		sut := chainSUT(neg)
		if got := CovNegative(sut, []model.Path{chain}); !almostEqual(got, 1) {
			t.Errorf("CovNegative() = %g, want 1", got)
		}
		if got := CovNegative(sut, nil); !almostEqual(got, 0) {
			t.Errorf("CovNegative(empty) = %g, want 0", got)
		}
	})

	t.Run("max once", func(t *testing.T) {
		sut := chainSUT(maxOnce)
		if got := CovMaxOnce(sut, []model.Path{chain}); !almostEqual(got, 1) {
			t.Errorf("CovMaxOnce() = %g, want 1", got)
		}
		if got := CovMaxOnce(sut, []model.Path{chain, chain}); !almostEqual(got, 0) {
			t.Errorf("CovMaxOnce(two paths) = %g, want 0", got)
		}
	})

	t.Run("absent types yield -1", func(t *testing.T) {
		sut := chainSUT()
		for name, got := range map[string]float64{
			"CovPositive": CovPositive(sut, []model.Path{chain}),
			"CovOnce":     CovOnce(sut, []model.Path{chain}),
			"CovNegative": CovNegative(sut, []model.Path{chain}),
			"CovMaxOnce":  CovMaxOnce(sut, []model.Path{chain}),
		} {
			if !almostEqual(got, -1) {
				t.Errorf("%s = %g, want -1", name, got)
			}
		}
	})
}

func TestEmptyTestSet(t *testing.T) {
	sut := chainSUT(model.Constraint{From: "START", To: "A", Type: model.Positive})

	if got := AverageLength(nil); got != 0 {
		t.Errorf("AverageLength(empty) = %g, want 0", got)
	}
	if got := LengthStdDev(nil); got != -1 {
		t.Errorf("LengthStdDev(empty) = %g, want -1", got)
	}
	if got := EdgeEfficiency(sut, nil); got != 0 {
		t.Errorf("EdgeEfficiency(empty) = %g, want 0", got)
	}
	if got := EdgeCoverage(sut, nil); got != 0 {
		t.Errorf("EdgeCoverage(empty) = %g, want 0", got)
	}
	if got := CovPositive(sut, nil); got != 0 {
		t.Errorf("CovPositive(empty) = %g, want 0", got)
	}
}

func TestCompute(t *testing.T) {
	sut := chainSUT()
	tests := []model.Path{{"START", "A", "END1"}}

	report := Compute(sut, tests, 1500*time.Microsecond)

	if report.Valid != 1 {
		t.Errorf("report.Valid = %d, want 1", report.Valid)
	}
	if report.Size != 1 {
		t.Errorf("report.Size = %d, want 1", report.Size)
	}
	if report.UniqueEdges != 2 {
		t.Errorf("report.UniqueEdges = %d, want 2", report.UniqueEdges)
	}
	if !almostEqual(report.EdgeCoverage, 1) {
		t.Errorf("report.EdgeCoverage = %g, want 1", report.EdgeCoverage)
	}
	if !almostEqual(report.TimeMS, 1.5) {
		t.Errorf("report.TimeMS = %g, want 1.5", report.TimeMS)
	}
	if report.LengthStdDev != -1 {
		t.Errorf("report.LengthStdDev = %g, want -1", report.LengthStdDev)
	}
}
