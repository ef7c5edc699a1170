// Package events mirrors releasy activity onto an event bus so dashboards and
// other automation can follow dispatches and branch updates as they happen.
package events

import (
	"context"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// Event topic constants
const (
	TopicDispatchSent   = "releasy.dispatch.sent"
	TopicDispatchFailed = "releasy.dispatch.failed"
	TopicEventHandled   = "releasy.event.handled"
	TopicBranchRebased  = "releasy.branch.rebased"
	TopicBranchUpdated  = "releasy.branch.updated"

	// TopicAll matches every releasy topic.
	TopicAll = "releasy.>"
)

// Event types

type DispatchSent struct {
	DeliveryID string       `json:"delivery_id"`
	Target     model.Repo   `json:"target"`
	Event      *model.Event `json:"event"`
}

type DispatchFailed struct {
	DeliveryID string       `json:"delivery_id"`
	Target     model.Repo   `json:"target"`
	Event      *model.Event `json:"event"`
	Error      string       `json:"error"`
}

type EventHandled struct {
	Event   *model.Event `json:"event"`
	Current model.Repo   `json:"current"`
	Skipped bool         `json:"skipped,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type BranchRebased struct {
	Repo     model.Repo `json:"repo"`
	Branch   string     `json:"branch"`
	Upstream model.Repo `json:"upstream"`
}

type BranchUpdated struct {
	Repo       model.Repo `json:"repo"`
	Branch     string     `json:"branch"`
	Dependency model.Repo `json:"dependency"`
	Ref        string     `json:"ref"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Message is a raw payload received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
