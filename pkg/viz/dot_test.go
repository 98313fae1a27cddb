package viz

import (
	"strings"
	"testing"

	"github.com/cpt-tools/pathcov/pkg/model"
)

func TestMarshal(t *testing.T) {
	sut := model.NewSUT()
	sut.SetStart("START")
	sut.AddEdge("START", "A")
	sut.AddEdge("A", "END-1")
	sut.AddEnd("END-1")
	sut.AddConstraint(model.Constraint{From: "START", To: "A", Type: model.Negative})

	data, err := Marshal(sut)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"digraph",
		`label="END-1"`,      // label keeps the raw name
		"END_1",              // node ID is sanitized
		"fillcolor=chartreuse4",
		"color=red",          // NEGATIVE endpoints
		"START -> A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}
}

func TestConstraintStyleLastWins(t *testing.T) {
	sut := model.NewSUT()
	sut.AddEdge("A", "B")
	sut.AddConstraint(model.Constraint{From: "A", To: "B", Type: model.Positive})
	sut.AddConstraint(model.Constraint{From: "B", To: "A", Type: model.Once})

	// B is the to-side of the first constraint and the from-side of the
	// second; the later declaration wins.
	color, style, ok := constraintStyle(sut, "B")
	if !ok {
		t.Fatal("constraintStyle(B) ok = false, want true")
	}
	if color != "blue" || style != "dashed" {
		t.Errorf("constraintStyle(B) = %s, %s, want blue, dashed", color, style)
	}
}
