package model

import (
	"encoding/json"
	"fmt"
)

// EventType is the kind of a dispatch event. The set is closed: every switch
// over an EventType must handle all three values.
type EventType string

const (
	// EventNewCommitToSelf is delivered to a repo when its own default branch moves.
	EventNewCommitToSelf EventType = "new-commit-to-self"
	// EventNewCommitToDependency is delivered to dependents of a repo whose default branch moved.
	EventNewCommitToDependency EventType = "new-commit-to-dependency"
	// EventNewRelease is delivered to dependents of a repo that published a release.
	EventNewRelease EventType = "new-release"
)

// legacyNewCommit is the event name used before commit events were split into
// self and dependency variants.
const legacyNewCommit = "new-commit"

// EventTypes lists every event type in a stable order.
var EventTypes = []EventType{EventNewCommitToSelf, EventNewCommitToDependency, EventNewRelease}

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known event types.
func (t EventType) IsValid() bool {
	switch t {
	case EventNewCommitToSelf, EventNewCommitToDependency, EventNewRelease:
		return true
	}
	return false
}

// ParseEventType converts s into an EventType.
func ParseEventType(s string) (EventType, error) {
	if s == legacyNewCommit {
		return EventNewCommitToDependency, nil
	}
	t := EventType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown event type %q, possible values are: %v", s, EventTypes)
	}
	return t, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON payloads with an
// unknown event type fail to decode.
func (t *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// EventDetails carries the commit or release the event refers to.
type EventDetails struct {
	CommitHash *string `json:"commit_hash"`
	ReleaseTag *string `json:"release_tag"`
}

// NewCommitDetails returns details pointing at a commit.
func NewCommitDetails(hash string) EventDetails {
	return EventDetails{CommitHash: &hash}
}

// NewReleaseDetails returns details pointing at a release tag.
func NewReleaseDetails(tag string) EventDetails {
	return EventDetails{ReleaseTag: &tag}
}

// Ref returns the commit hash, or the release tag when no hash is set.
func (d EventDetails) Ref() string {
	if d.CommitHash != nil {
		return *d.CommitHash
	}
	if d.ReleaseTag != nil {
		return *d.ReleaseTag
	}
	return ""
}

// ClientPayload is the repository_dispatch client payload.
type ClientPayload struct {
	Repo       Repo         `json:"repo"`
	Details    EventDetails `json:"details"`
	DeliveryID string       `json:"delivery_id,omitempty"`
}

// Event is a dispatch event as sent to, and received from, GitHub.
type Event struct {
	Type          EventType     `json:"event_type"`
	ClientPayload ClientPayload `json:"client_payload"`
}

// NewEvent builds an event originating from repo.
func NewEvent(t EventType, repo Repo, details EventDetails) *Event {
	return &Event{
		Type:          t,
		ClientPayload: ClientPayload{Repo: repo, Details: details},
	}
}

// ParseEvent decodes a JSON event and validates it. Both the dispatch request
// body (event_type) and the repository_dispatch webhook payload that GitHub
// writes to GITHUB_EVENT_PATH (action) are accepted; other webhook fields are
// ignored.
func ParseEvent(data []byte) (*Event, error) {
	var w struct {
		Type          *EventType    `json:"event_type"`
		Action        *string       `json:"action"`
		ClientPayload ClientPayload `json:"client_payload"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}

	e := Event{ClientPayload: w.ClientPayload}
	switch {
	case w.Type != nil:
		e.Type = *w.Type
	case w.Action != nil:
		t, err := ParseEventType(*w.Action)
		if err != nil {
			return nil, fmt.Errorf("decoding event action: %w", err)
		}
		e.Type = t
	}
	if err := ValidateEvent(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Repo returns the repo the event originates from.
func (e *Event) Repo() Repo {
	return e.ClientPayload.Repo
}

// WithDeliveryID returns a copy of e carrying the given delivery ID.
func (e *Event) WithDeliveryID(id string) *Event {
	c := *e
	c.ClientPayload.DeliveryID = id
	return &c
}
