package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/releasy/internal/events"
	"github.com/alfredjeanlab/releasy/internal/idgen"
	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/alfredjeanlab/releasy/internal/plan"
)

// Sender delivers a single event to a single repo.
type Sender interface {
	Dispatch(ctx context.Context, target model.Repo, event *model.Event) error
}

// Delivery records one event sent to one target.
type Delivery struct {
	ID     string     `json:"delivery_id"`
	Target model.Repo `json:"target"`
}

// Dispatcher sends events to their targets and mirrors the outcome onto the
// event bus.
type Dispatcher struct {
	sender    Sender
	publisher events.Publisher
	newID     idgen.Func
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil publisher disables the event bus
// mirror and a nil newID uses idgen.DeliveryID.
func NewDispatcher(sender Sender, publisher events.Publisher, newID idgen.Func, logger *slog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if newID == nil {
		newID = idgen.DeliveryID
	}
	return &Dispatcher{sender: sender, publisher: publisher, newID: newID, logger: logger}
}

// Route sends event to the targets the plan selects for it.
func (d *Dispatcher) Route(ctx context.Context, p *plan.Plan, event *model.Event) ([]Delivery, error) {
	targets, err := Targets(p, event.Type)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		d.logger.Info("no dependents to notify", "event", event.Type, "repo", p.CurrentRepo().String())
		return nil, nil
	}
	return d.Emit(ctx, event, targets)
}

// Emit sends event to each target in order. It stops at the first failure
// and returns the deliveries completed before it.
func (d *Dispatcher) Emit(ctx context.Context, event *model.Event, targets []model.Repo) ([]Delivery, error) {
	var done []Delivery
	for _, target := range targets {
		id, err := d.newID()
		if err != nil {
			return done, fmt.Errorf("generating delivery id: %w", err)
		}
		stamped := event.WithDeliveryID(id)

		if err := d.sender.Dispatch(ctx, target, stamped); err != nil {
			d.publish(ctx, events.TopicDispatchFailed, events.DispatchFailed{
				DeliveryID: id,
				Target:     target,
				Event:      stamped,
				Error:      err.Error(),
			})
			return done, fmt.Errorf("dispatching %s to %s: %w", event.Type, target, err)
		}

		d.logger.Info("event dispatched", "event", event.Type, "target", target.String(), "delivery_id", id)
		d.publish(ctx, events.TopicDispatchSent, events.DispatchSent{
			DeliveryID: id,
			Target:     target,
			Event:      stamped,
		})
		done = append(done, Delivery{ID: id, Target: target})
	}
	return done, nil
}

func (d *Dispatcher) publish(ctx context.Context, topic string, event any) {
	if err := d.publisher.Publish(ctx, topic, event); err != nil {
		d.logger.Warn("failed to publish event", "topic", topic, "err", err)
	}
}
