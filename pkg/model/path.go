package model

import "strings"

// Path is a walk through the graph, stored as its vertex sequence. A
// valid test path starts at the SUT start vertex and ends in the end
// set. Paths are owned sequences: BFS extension must go through Extend,
// which copies, so queued candidates never share a tail.
type Path []Vertex

// EdgeLen returns the number of edges in the path.
func (p Path) EdgeLen() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Extend returns a copy of p with v appended. p itself is not modified.
func (p Path) Extend(v Vertex) Path {
	q := make(Path, len(p), len(p)+1)
	copy(q, p)
	return append(q, v)
}

// Equal reports element-wise equality.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Contains reports whether the constraint pair occurs in order: some
// occurrence of c.From followed (not necessarily adjacently) by a
// strictly later occurrence of c.To. A single latch on c.From is kept,
// so this is a monotone ordered-pair test, not a substring match. The
// To check precedes the From latch within one position, so a pair with
// From == To needs two occurrences of the vertex.
func (p Path) Contains(c Constraint) bool {
	from, to := false, false
	for _, v := range p {
		if v == c.To && from {
			to = true
		}
		if v == c.From {
			from = true
		}
	}
	return from && to
}

// Occurrences counts matched (From, To) pairs under greedy left-to-right
// matching: each From opens at most one pending match and the next To
// closes it.
func (p Path) Occurrences(c Constraint) int {
	from, to := 0, 0
	for _, v := range p {
		if v == c.To && from > to {
			to++
		}
		if v == c.From {
			from++
		}
	}
	return to
}

// Repeats reports whether the constraint pair is matched at least twice
// within the path.
func (p Path) Repeats(c Constraint) bool {
	from, to := 0, 0
	for _, v := range p {
		if v == c.To && from > to {
			to++
		}
		if v == c.From {
			from++
		}
	}
	return from > 1 && to > 1
}

// EdgeOccurrences counts how many times the edge appears as a
// consecutive pair in the path.
func (p Path) EdgeOccurrences(e Edge) int {
	n := 0
	for i := 0; i+1 < len(p); i++ {
		if p[i] == e.From && p[i+1] == e.To {
			n++
		}
	}
	return n
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = string(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
