package model

import (
	"gonum.org/v1/gonum/graph/simple"
)

// Vertex identifies a node in the control-flow model. In practice these
// are the text labels from the SUT file.
type Vertex string

// Edge is an ordered vertex pair. The graph stores at most one edge per
// pair and no self-loops.
type Edge struct {
	From Vertex
	To   Vertex
}

// Graph is a simple directed graph with deterministic enumeration:
// vertices, edges, and the in/out edge lists of each vertex are returned
// in insertion order. The structure is mirrored into a gonum
// simple.DirectedGraph so exporters can reuse the gonum encoders.
type Graph struct {
	directed *simple.DirectedGraph

	vertices []Vertex
	ids      map[Vertex]int64
	nextID   int64

	edges   []Edge
	edgeSet map[Edge]bool
	out     map[Vertex][]Edge
	in      map[Vertex][]Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		directed: simple.NewDirectedGraph(),
		ids:      make(map[Vertex]int64),
		edgeSet:  make(map[Edge]bool),
		out:      make(map[Vertex][]Edge),
		in:       make(map[Vertex][]Edge),
	}
}

// AddVertex inserts v. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(v Vertex) {
	if _, ok := g.ids[v]; ok {
		return
	}
	g.ids[v] = g.nextID
	g.vertices = append(g.vertices, v)
	g.directed.AddNode(simple.Node(g.nextID))
	g.nextID++
}

// AddEdge inserts the edge (from, to), adding both endpoints if needed.
// It returns false without modifying the graph if the edge already
// exists or if from == to (self-loops are not representable).
func (g *Graph) AddEdge(from, to Vertex) bool {
	if from == to {
		return false
	}
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return false
	}
	g.AddVertex(from)
	g.AddVertex(to)

	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)

	g.directed.SetEdge(g.directed.NewEdge(
		simple.Node(g.ids[from]), simple.Node(g.ids[to])))
	return true
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v Vertex) bool {
	_, ok := g.ids[v]
	return ok
}

// HasEdge reports whether the edge (from, to) is in the graph.
func (g *Graph) HasEdge(from, to Vertex) bool {
	return g.edgeSet[Edge{From: from, To: to}]
}

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []Vertex {
	return g.vertices
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// OutEdges returns the outgoing edges of v in insertion order.
func (g *Graph) OutEdges(v Vertex) []Edge {
	return g.out[v]
}

// InEdges returns the incoming edges of v in insertion order.
func (g *Graph) InEdges(v Vertex) []Edge {
	return g.in[v]
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// NodeID returns the gonum node ID assigned to v.
func (g *Graph) NodeID(v Vertex) (int64, bool) {
	id, ok := g.ids[v]
	return id, ok
}

// Directed exposes the underlying gonum graph for encoders.
func (g *Graph) Directed() *simple.DirectedGraph {
	return g.directed
}
