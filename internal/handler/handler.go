// Package handler reacts to dispatch events received by the current repo by
// keeping its tracking branches in step with the dependency graph.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/alfredjeanlab/releasy/internal/events"
	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/alfredjeanlab/releasy/internal/plan"
)

// Automation manipulates tracking branches in a clone of the current repo.
// *gitops.Workspace implements it.
type Automation interface {
	RebaseTrackingBranch(ctx context.Context, upstream model.Repo) (string, error)
	UpdateTrackingBranch(ctx context.Context, dependency model.Repo, details model.EventDetails) (string, error)
}

// Outcome describes what handling an event did.
type Outcome struct {
	Event    *model.Event `json:"event"`
	Current  model.Repo   `json:"current"`
	Branches []string     `json:"branches,omitempty"` // tracking branches pushed
	Skipped  bool         `json:"skipped,omitempty"`
	Reason   string       `json:"reason,omitempty"`
}

// Handler applies received events to the current repo of a plan.
type Handler struct {
	plan      *plan.Plan
	auto      Automation
	publisher events.Publisher
	logger    *slog.Logger
}

// New creates a handler. A nil publisher disables the event bus mirror.
func New(p *plan.Plan, auto Automation, publisher events.Publisher, logger *slog.Logger) *Handler {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &Handler{plan: p, auto: auto, publisher: publisher, logger: logger}
}

// Handle validates event and applies it. The returned Outcome is non-nil
// whenever the event was valid, including when some branch operations failed.
func (h *Handler) Handle(ctx context.Context, event *model.Event) (*Outcome, error) {
	if err := model.ValidateEvent(event); err != nil {
		return nil, err
	}

	current := h.plan.CurrentRepo()
	out := &Outcome{Event: event, Current: current}
	h.logger.Info("handling event", "event", event.Type, "repo", event.Repo().String(), "current", current.String())

	var err error
	switch event.Type {
	case model.EventNewCommitToSelf:
		err = h.handleSelf(ctx, event, out)
	case model.EventNewCommitToDependency:
		err = h.handleDependency(ctx, event, out)
	case model.EventNewRelease:
		h.logger.Info("release recorded", "repo", event.Repo().String(), "tag", event.ClientPayload.Details.Ref())
	default:
		err = fmt.Errorf("unknown event type %q", event.Type)
	}

	handled := events.EventHandled{Event: event, Current: current, Skipped: out.Skipped}
	if err != nil {
		handled.Error = err.Error()
	}
	h.publish(ctx, events.TopicEventHandled, handled)
	return out, err
}

// handleSelf rebases the tracking branch of every upstream repo onto the new
// tip of the current repo. Every branch is attempted before failures are
// reported.
func (h *Handler) handleSelf(ctx context.Context, event *model.Event, out *Outcome) error {
	current := h.plan.CurrentRepo()
	if event.Repo() != current {
		return fmt.Errorf("%s event from %s received by %s", event.Type, event.Repo(), current)
	}
	upstream, err := h.plan.Upstream(current)
	if err != nil {
		return err
	}

	var errs []error
	for _, up := range upstream {
		branch, err := h.auto.RebaseTrackingBranch(ctx, up)
		if err != nil {
			h.logger.Error("failed to rebase tracking branch", "upstream", up.String(), "err", err)
			errs = append(errs, fmt.Errorf("rebasing tracking branch of %s: %w", up, err))
			continue
		}
		out.Branches = append(out.Branches, branch)
		h.publish(ctx, events.TopicBranchRebased, events.BranchRebased{Repo: current, Branch: branch, Upstream: up})
	}
	return errors.Join(errs...)
}

// handleDependency records a new commit of an upstream repo on its tracking
// branch. Events from repos the current repo does not depend on are skipped.
func (h *Handler) handleDependency(ctx context.Context, event *model.Event, out *Outcome) error {
	current := h.plan.CurrentRepo()
	dep := event.Repo()
	upstream, err := h.plan.Upstream(current)
	if err != nil {
		return err
	}
	if !slices.Contains(upstream, dep) {
		out.Skipped = true
		out.Reason = fmt.Sprintf("%s is not upstream of %s", dep, current)
		h.logger.Warn("skipping event from unrelated repo", "repo", dep.String(), "current", current.String())
		return nil
	}

	details := event.ClientPayload.Details
	branch, err := h.auto.UpdateTrackingBranch(ctx, dep, details)
	if err != nil {
		return fmt.Errorf("updating tracking branch of %s: %w", dep, err)
	}
	out.Branches = append(out.Branches, branch)
	h.publish(ctx, events.TopicBranchUpdated, events.BranchUpdated{
		Repo:       current,
		Branch:     branch,
		Dependency: dep,
		Ref:        details.Ref(),
	})
	return nil
}

func (h *Handler) publish(ctx context.Context, topic string, event any) {
	if err := h.publisher.Publish(ctx, topic, event); err != nil {
		h.logger.Warn("failed to publish event", "topic", topic, "err", err)
	}
}
