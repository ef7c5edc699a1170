// Package dispatch routes releasy events to the repositories that should
// receive them and delivers them as GitHub repository_dispatch events.
package dispatch

import (
	"fmt"

	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/alfredjeanlab/releasy/internal/plan"
)

// Targets returns the repos an event of type t, emitted by the current repo of
// p, is delivered to. Commits to self go to the current repo only; commits and
// releases seen as a dependency go to every direct dependent.
func Targets(p *plan.Plan, t model.EventType) ([]model.Repo, error) {
	current := p.CurrentRepo()
	switch t {
	case model.EventNewCommitToSelf:
		return []model.Repo{current}, nil
	case model.EventNewCommitToDependency, model.EventNewRelease:
		return p.Neighbors(current)
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
}
