package generator

import (
	"github.com/cpt-tools/pathcov/pkg/model"
)

// admissible reports whether path p violates no constraint given the
// set already covered by previously accepted paths:
//
//   - a NEGATIVE constraint contained in p fails it;
//   - a ONCE or MAX_ONCE constraint matched twice within p fails it;
//   - a ONCE or MAX_ONCE constraint contained in p fails it if that
//     constraint is already covered elsewhere.
func admissible(p model.Path, cs []model.Constraint, covered map[model.Constraint]bool) bool {
	for _, c := range cs {
		switch c.Type {
		case model.Negative:
			if p.Contains(c) {
				return false
			}
		case model.Once, model.MaxOnce:
			if p.Repeats(c) {
				return false
			}
			if p.Contains(c) && covered[c] {
				return false
			}
		}
	}
	return true
}

// markEdges records every edge traversed by p into covered.
func markEdges(p model.Path, g *model.Graph, covered map[model.Edge]bool) {
	for i := 0; i+1 < len(p); i++ {
		e := model.Edge{From: p[i], To: p[i+1]}
		if g.HasEdge(e.From, e.To) {
			covered[e] = true
		}
	}
}

// markConstraints records every constraint contained in p into covered.
func markConstraints(p model.Path, cs []model.Constraint, covered map[model.Constraint]bool) {
	for _, c := range cs {
		if p.Contains(c) {
			covered[c] = true
		}
	}
}

// findPathToEdge searches backwards over incoming edges from the source
// of e until the start vertex is reached. The result runs
// [start, ..., src(e)], or is the single vertex [src(e)] when that is
// the start. Returns nil if the start cannot reach src(e).
//
// Frontier items are whole prefixes; an edge already present in a
// prefix is not traversed again, which keeps every prefix simple and
// the search finite. Ties resolve by BFS discovery order, which follows
// edge insertion order.
func findPathToEdge(sut *model.SUT, e model.Edge) model.Path {
	start, ok := sut.Start()
	if !ok {
		return nil
	}
	g := sut.Graph()
	if start == e.From {
		return model.Path{e.From}
	}

	var queue []model.Path
	for _, in := range g.InEdges(e.From) {
		queue = append(queue, model.Path{in.From, e.From})
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		first := p[0]
		if first == start {
			return p
		}
		for _, in := range g.InEdges(first) {
			if in.From == start {
				return prepend(p, in.From)
			}
			if p.EdgeOccurrences(in) == 0 {
				queue = append(queue, prepend(p, in.From))
			}
		}
	}
	return nil
}

// findPathFromEdge searches forwards over outgoing edges from the
// target of e until some end vertex is reached. The result runs
// [dst(e), ..., end], or is the single vertex [dst(e)] when that is
// already an end. Returns nil if no end is reachable.
func findPathFromEdge(sut *model.SUT, e model.Edge) model.Path {
	g := sut.Graph()
	if sut.IsEnd(e.To) {
		return model.Path{e.To}
	}

	var queue []model.Path
	for _, out := range g.OutEdges(e.To) {
		queue = append(queue, model.Path{e.To, out.To})
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		last := p[len(p)-1]
		if sut.IsEnd(last) {
			return p
		}
		for _, out := range g.OutEdges(last) {
			if sut.IsEnd(out.To) {
				return p.Extend(out.To)
			}
			if p.EdgeOccurrences(out) == 0 {
				queue = append(queue, p.Extend(out.To))
			}
		}
	}
	return nil
}

// buildPathCoveringEdge joins the backward and forward searches around
// e into a full start-to-end walk. The prefix ends with src(e) and the
// suffix begins with dst(e), so the junction traverses e itself.
// Returns nil if either half is missing or the joined walk does not run
// start-to-end.
func buildPathCoveringEdge(sut *model.SUT, e model.Edge) model.Path {
	ps := findPathToEdge(sut, e)
	pe := findPathFromEdge(sut, e)
	if ps == nil || pe == nil {
		return nil
	}
	path := make(model.Path, 0, len(ps)+len(pe))
	path = append(path, ps...)
	path = append(path, pe...)

	start, ok := sut.Start()
	if !ok || path[0] != start || !sut.IsEnd(path[len(path)-1]) {
		return nil
	}
	return path
}

func prepend(p model.Path, v model.Vertex) model.Path {
	q := make(model.Path, 0, len(p)+1)
	q = append(q, v)
	return append(q, p...)
}
