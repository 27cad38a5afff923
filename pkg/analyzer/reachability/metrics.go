package reachability

import (
	"gonum.org/v1/gonum/graph/simple"
)

// metrics mirrors the import graph into a gonum directed graph and
// derives shape statistics from it.
func (g *importGraph) metrics() GraphMetrics {
	dg := simple.NewDirectedGraph()
	for id := range g.paths {
		dg.AddNode(simple.Node(id))
	}
	for from, targets := range g.edges {
		for _, to := range targets {
			if from == to {
				continue
			}
			dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	nodes := dg.Nodes().Len()
	edges := dg.Edges().Len()

	m := GraphMetrics{Nodes: nodes, Edges: edges}
	if nodes > 1 {
		m.Density = float64(edges) / float64(nodes*(nodes-1))
	}
	if nodes > 0 {
		m.AvgDegree = float64(edges) / float64(nodes)
	}
	return m
}
