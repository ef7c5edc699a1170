package plan

import (
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// Snapshot returns a serializable copy of the plan. Edges are listed in the
// order they were added.
func (p *Plan) Snapshot() *model.GraphSnapshot {
	s := &model.GraphSnapshot{
		CurrentRepo: p.current,
		Nodes:       p.Repos(),
		Edges:       make([]*model.GraphEdge, len(p.edges)),
		NodeCount:   len(p.nodes),
		EdgeCount:   len(p.edges),
	}
	for i, e := range p.edges {
		s.Edges[i] = &model.GraphEdge{Source: p.nodes[e.from].repo, Target: p.nodes[e.to].repo}
	}
	return s
}

// Graph copies the plan into a dominikbraun graph keyed by "owner/name".
// Nodes sharing a Repo value and repeated edges collapse into one.
func (p *Plan) Graph() (graph.Graph[string, model.Repo], error) {
	g := graph.New(model.Repo.String, graph.Directed())
	for _, n := range p.nodes {
		attrs := []func(*graph.VertexProperties){graph.VertexAttribute("label", n.repo.Name)}
		if n.repo == p.current {
			attrs = append(attrs, graph.VertexAttribute("style", "bold"))
		}
		if err := g.AddVertex(n.repo, attrs...); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("adding vertex %s: %w", n.repo, err)
		}
	}
	for _, e := range p.edges {
		from, to := p.nodes[e.from].repo.String(), p.nodes[e.to].repo.String()
		if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("adding edge %s -> %s: %w", from, to, err)
		}
	}
	return g, nil
}

// WriteDOT renders the plan in Graphviz DOT format.
func (p *Plan) WriteDOT(w io.Writer) error {
	g, err := p.Graph()
	if err != nil {
		return err
	}
	return draw.DOT(g, w)
}
