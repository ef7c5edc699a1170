// Package plan builds the dependency graph between repositories and answers
// reachability queries over it.
//
// An edge from node a to node b means b depends on a: anything that happens
// in a must be reported to b.
package plan

import (
	"errors"

	"github.com/alfredjeanlab/releasy/internal/manifest"
	"github.com/alfredjeanlab/releasy/internal/model"
)

// noEdge terminates an adjacency list.
const noEdge = -1

type node struct {
	repo     model.Repo
	firstOut int // head of the outgoing edge list
	firstIn  int // head of the incoming edge list
}

type edge struct {
	from, to int
	nextOut  int // next edge leaving from
	nextIn   int // next edge entering to
}

// Plan is the frozen dependency graph built from a manifest. It has no
// mutating methods and is safe for concurrent readers.
type Plan struct {
	nodes      []node
	edges      []edge
	repoToNode map[model.Repo]int
	current    model.Repo
}

// Build converts a manifest into a Plan. Entries are visited in ascending key
// order. If any dependency key has no entry, Build returns a
// *MissingDependencyError and no plan.
func Build(m *manifest.Manifest) (*Plan, error) {
	if m == nil {
		return nil, errors.New("building plan: nil manifest")
	}
	keys := m.Keys()
	p := &Plan{
		nodes:      make([]node, 0, len(keys)),
		repoToNode: make(map[model.Repo]int, len(keys)),
		current:    m.CurrentRepo,
	}

	// Node identity comes from the key; the repo index keeps the last key
	// when two keys share a Repo value.
	keyToNode := make(map[string]int, len(keys))
	for _, key := range keys {
		entry := m.Repos[key]
		ix := p.addNode(entry.Details)
		keyToNode[key] = ix
		p.repoToNode[entry.Details] = ix
	}

	for _, key := range keys {
		entry := m.Repos[key]
		dependent := keyToNode[key]
		for _, depKey := range entry.Dependencies {
			dependency, ok := keyToNode[depKey]
			if !ok {
				return nil, &MissingDependencyError{Repo: entry.Details.Name, Key: depKey}
			}
			p.addEdge(dependency, dependent)
		}
	}

	return p, nil
}

func (p *Plan) addNode(r model.Repo) int {
	p.nodes = append(p.nodes, node{repo: r, firstOut: noEdge, firstIn: noEdge})
	return len(p.nodes) - 1
}

// addEdge links from -> to. The new edge becomes the head of both adjacency
// lists, so iteration visits the most recently added edge first.
func (p *Plan) addEdge(from, to int) {
	ix := len(p.edges)
	p.edges = append(p.edges, edge{
		from:    from,
		to:      to,
		nextOut: p.nodes[from].firstOut,
		nextIn:  p.nodes[to].firstIn,
	})
	p.nodes[from].firstOut = ix
	p.nodes[to].firstIn = ix
}

// CurrentRepo returns the repo named as current by the manifest.
func (p *Plan) CurrentRepo() model.Repo {
	return p.current
}

// NodeCount returns the number of nodes, one per manifest key.
func (p *Plan) NodeCount() int {
	return len(p.nodes)
}

// EdgeCount returns the number of dependency edges.
func (p *Plan) EdgeCount() int {
	return len(p.edges)
}

// Contains reports whether repo is indexed in the plan.
func (p *Plan) Contains(repo model.Repo) bool {
	_, ok := p.repoToNode[repo]
	return ok
}

// Repos returns the repo of every node in node order.
func (p *Plan) Repos() []model.Repo {
	out := make([]model.Repo, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.repo
	}
	return out
}

func (p *Plan) lookup(repo model.Repo) (int, error) {
	ix, ok := p.repoToNode[repo]
	if !ok {
		return 0, &RepoNotFoundError{Repo: repo}
	}
	return ix, nil
}
