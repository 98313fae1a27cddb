package generator

import (
	"testing"

	"github.com/cpt-tools/pathcov/pkg/model"
)

// buildSUT assembles a SUT from edge pairs in declaration order.
func buildSUT(start model.Vertex, ends []model.Vertex, edges [][2]model.Vertex, cs []model.Constraint) *model.SUT {
	sut := model.NewSUT()
	sut.SetStart(start)
	for _, e := range edges {
		sut.AddEdge(e[0], e[1])
	}
	for _, v := range ends {
		sut.AddEnd(v)
	}
	for _, c := range cs {
		sut.AddConstraint(c)
	}
	return sut
}

func chainSUT() *model.SUT {
	return buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "END1"}}, nil)
}

func TestFindPathToEdge(t *testing.T) {
	sut := chainSUT()

	tests := []struct {
		name string
		edge model.Edge
		want model.Path
	}{
		{
			name: "edge source is start",
			edge: model.Edge{From: "START", To: "A"},
			want: model.Path{"START"},
		},
		{
			name: "one hop back to start",
			edge: model.Edge{From: "A", To: "END1"},
			want: model.Path{"START", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findPathToEdge(sut, tt.edge)
			if !got.Equal(tt.want) {
				t.Errorf("findPathToEdge(%v) = %v, want %v", tt.edge, got, tt.want)
			}
		})
	}
}

func TestFindPathToEdgeUnreachable(t *testing.T) {
	sut := buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "END1"}, {"B", "C"}, {"C", "END1"}}, nil)

	if got := findPathToEdge(sut, model.Edge{From: "B", To: "C"}); got != nil {
		t.Errorf("findPathToEdge(B->C) = %v, want nil", got)
	}
}

func TestFindPathFromEdge(t *testing.T) {
	sut := chainSUT()

	tests := []struct {
		name string
		edge model.Edge
		want model.Path
	}{
		{
			name: "edge target is an end",
			edge: model.Edge{From: "A", To: "END1"},
			want: model.Path{"END1"},
		},
		{
			name: "one hop to an end",
			edge: model.Edge{From: "START", To: "A"},
			want: model.Path{"A", "END1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findPathFromEdge(sut, tt.edge)
			if !got.Equal(tt.want) {
				t.Errorf("findPathFromEdge(%v) = %v, want %v", tt.edge, got, tt.want)
			}
		})
	}
}

func TestFindPathFromEdgeNoEndReachable(t *testing.T) {
	sut := buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "END1"}, {"A", "B"}, {"B", "C"}}, nil)

	// From C there is no outgoing edge at all.
	if got := findPathFromEdge(sut, model.Edge{From: "B", To: "C"}); got != nil {
		t.Errorf("findPathFromEdge(B->C) = %v, want nil", got)
	}
}

func TestFindPathToEdgeAvoidsCycleBlowup(t *testing.T) {
	// A cycle behind the target edge must not loop the search.
	sut := buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "B"}, {"B", "A"}, {"B", "END1"}}, nil)

	got := findPathToEdge(sut, model.Edge{From: "B", To: "END1"})
	want := model.Path{"START", "A", "B"}
	if !got.Equal(want) {
		t.Errorf("findPathToEdge(B->END1) = %v, want %v", got, want)
	}
}

func TestBuildPathCoveringEdge(t *testing.T) {
	sut := buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "B"}, {"B", "END1"}}, nil)

	got := buildPathCoveringEdge(sut, model.Edge{From: "A", To: "B"})
	want := model.Path{"START", "A", "B", "END1"}
	if !got.Equal(want) {
		t.Errorf("buildPathCoveringEdge(A->B) = %v, want %v", got, want)
	}
}

func TestBuildPathCoveringEdgeUnreachable(t *testing.T) {
	sut := buildSUT("START", []model.Vertex{"END1"},
		[][2]model.Vertex{{"START", "A"}, {"A", "END1"}, {"B", "C"}, {"C", "END1"}}, nil)

	if got := buildPathCoveringEdge(sut, model.Edge{From: "B", To: "C"}); got != nil {
		t.Errorf("buildPathCoveringEdge(B->C) = %v, want nil", got)
	}
}

func TestAdmissible(t *testing.T) {
	negative := model.Constraint{From: "A", To: "B", Type: model.Negative}
	once := model.Constraint{From: "A", To: "B", Type: model.Once}
	maxOnce := model.Constraint{From: "A", To: "B", Type: model.MaxOnce}
	positive := model.Constraint{From: "A", To: "B", Type: model.Positive}

	tests := []struct {
		name    string
		path    model.Path
		cs      []model.Constraint
		covered []model.Constraint
		want    bool
	}{
		{
			name: "no constraints",
			path: model.Path{"S", "A", "B", "E"},
			want: true,
		},
		{
			name: "negative violated",
			path: model.Path{"S", "A", "B", "E"},
			cs:   []model.Constraint{negative},
			want: false,
		},
		{
			name: "negative not contained",
			path: model.Path{"S", "B", "A", "E"},
			cs:   []model.Constraint{negative},
			want: true,
		},
		{
			name: "once repeated in one path",
			path: model.Path{"S", "A", "B", "A", "B", "E"},
			cs:   []model.Constraint{once},
			want: false,
		},
		{
			name: "max once repeated in one path",
			path: model.Path{"S", "A", "B", "A", "B", "E"},
			cs:   []model.Constraint{maxOnce},
			want: false,
		},
		{
			name:    "once already covered elsewhere",
			path:    model.Path{"S", "A", "B", "E"},
			cs:      []model.Constraint{once},
			covered: []model.Constraint{once},
			want:    false,
		},
		{
			name:    "once covered but not contained",
			path:    model.Path{"S", "E"},
			cs:      []model.Constraint{once},
			covered: []model.Constraint{once},
			want:    true,
		},
		{
			name: "positive never blocks",
			path: model.Path{"S", "E"},
			cs:   []model.Constraint{positive},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			covered := make(map[model.Constraint]bool)
			for _, c := range tt.covered {
				covered[c] = true
			}
			if got := admissible(tt.path, tt.cs, covered); got != tt.want {
				t.Errorf("admissible(%v) = %t, want %t", tt.path, got, tt.want)
			}
		})
	}
}

func TestMarkEdges(t *testing.T) {
	sut := chainSUT()
	covered := make(map[model.Edge]bool)

	markEdges(model.Path{"START", "A", "END1"}, sut.Graph(), covered)

	if len(covered) != 2 {
		t.Fatalf("covered %d edges, want 2", len(covered))
	}
	if !covered[model.Edge{From: "START", To: "A"}] || !covered[model.Edge{From: "A", To: "END1"}] {
		t.Errorf("covered set = %v, missing edges", covered)
	}

	// Idempotent.
	markEdges(model.Path{"START", "A", "END1"}, sut.Graph(), covered)
	if len(covered) != 2 {
		t.Errorf("covered %d edges after re-mark, want 2", len(covered))
	}
}

func TestMarkConstraints(t *testing.T) {
	c1 := model.Constraint{From: "START", To: "A", Type: model.Positive}
	c2 := model.Constraint{From: "A", To: "START", Type: model.Positive}
	covered := make(map[model.Constraint]bool)

	markConstraints(model.Path{"START", "A", "END1"}, []model.Constraint{c1, c2}, covered)

	if !covered[c1] {
		t.Error("contained constraint not marked")
	}
	if covered[c2] {
		t.Error("uncontained constraint marked")
	}
}
