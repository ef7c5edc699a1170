package plan

import (
	"slices"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// Neighbors returns the repos that directly depend on repo, i.e. the repos
// that must be notified when repo changes. The order is the plan's edge order
// and is stable for a given manifest.
func (p *Plan) Neighbors(repo model.Repo) ([]model.Repo, error) {
	ix, err := p.lookup(repo)
	if err != nil {
		return nil, err
	}
	out := []model.Repo{}
	for e := p.nodes[ix].firstOut; e != noEdge; e = p.edges[e].nextOut {
		out = append(out, p.nodes[p.edges[e].to].repo)
	}
	return out, nil
}

// Upstream returns every repo that repo depends on, directly or transitively.
// repo itself is never part of the result, even when a cycle leads back to
// it. Each repo appears once and the result is sorted with model.CompareRepos.
func (p *Plan) Upstream(repo model.Repo) ([]model.Repo, error) {
	start, err := p.lookup(repo)
	if err != nil {
		return nil, err
	}

	visited := make([]bool, len(p.nodes))
	visited[start] = true
	queue := []int{start}
	seen := map[model.Repo]bool{repo: true}
	out := []model.Repo{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for e := p.nodes[cur].firstIn; e != noEdge; e = p.edges[e].nextIn {
			from := p.edges[e].from
			if visited[from] {
				continue
			}
			visited[from] = true
			queue = append(queue, from)
			if r := p.nodes[from].repo; !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}

	slices.SortFunc(out, model.CompareRepos)
	return out, nil
}

// Downstream returns every repo that transitively depends on repo, sorted with
// model.CompareRepos. It is the forward counterpart of Upstream.
func (p *Plan) Downstream(repo model.Repo) ([]model.Repo, error) {
	start, err := p.lookup(repo)
	if err != nil {
		return nil, err
	}

	visited := make([]bool, len(p.nodes))
	visited[start] = true
	stack := []int{start}
	seen := map[model.Repo]bool{repo: true}
	out := []model.Repo{}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for e := p.nodes[cur].firstOut; e != noEdge; e = p.edges[e].nextOut {
			to := p.edges[e].to
			if visited[to] {
				continue
			}
			visited[to] = true
			stack = append(stack, to)
			if r := p.nodes[to].repo; !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}

	slices.SortFunc(out, model.CompareRepos)
	return out, nil
}
