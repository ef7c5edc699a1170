package model

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestRepo_String(t *testing.T) {
	r := NewRepo("sway", "FuelLabs")
	if got := r.String(); got != "FuelLabs/sway" {
		t.Errorf("String() = %q, want %q", got, "FuelLabs/sway")
	}
	if got := r.GitHubURL(); got != "git@github.com:FuelLabs/sway.git" {
		t.Errorf("GitHubURL() = %q", got)
	}
}

func TestParseRepo(t *testing.T) {
	r, err := ParseRepo("FuelLabs/fuels-rs")
	if err != nil {
		t.Fatalf("ParseRepo: %v", err)
	}
	if r != NewRepo("fuels-rs", "FuelLabs") {
		t.Errorf("ParseRepo = %+v", r)
	}
	for _, bad := range []string{"", "sway", "/sway", "FuelLabs/", "a/b/c", "Fuel Labs/sway"} {
		if _, err := ParseRepo(bad); err == nil {
			t.Errorf("ParseRepo(%q): expected error", bad)
		}
	}
}

func TestRepo_MapKeyIsStructural(t *testing.T) {
	m := map[Repo]int{NewRepo("sway", "FuelLabs"): 1}
	if _, ok := m[Repo{Name: "sway", Owner: "FuelLabs"}]; !ok {
		t.Error("expected lookup with an equal Repo value to succeed")
	}
	if _, ok := m[NewRepo("sway", "fuellabs")]; ok {
		t.Error("owner comparison must be case sensitive")
	}
}

func TestCompareRepos(t *testing.T) {
	repos := []Repo{
		NewRepo("sway", "FuelLabs"),
		NewRepo("fuels-rs", "FuelLabs"),
		NewRepo("forc-wallet", "FuelLabs"),
		NewRepo("fuels-rs", "Acme"),
	}
	slices.SortFunc(repos, CompareRepos)
	want := []Repo{
		NewRepo("forc-wallet", "FuelLabs"),
		NewRepo("fuels-rs", "Acme"),
		NewRepo("fuels-rs", "FuelLabs"),
		NewRepo("sway", "FuelLabs"),
	}
	if !slices.Equal(repos, want) {
		t.Errorf("sorted = %v, want %v", repos, want)
	}
	if CompareRepos(want[0], want[0]) != 0 {
		t.Error("CompareRepos of equal repos should be 0")
	}
}

func TestParseEventType(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    EventType
		wantErr bool
	}{
		{"new-commit-to-self", EventNewCommitToSelf, false},
		{"new-commit-to-dependency", EventNewCommitToDependency, false},
		{"new-release", EventNewRelease, false},
		{"new-commit", EventNewCommitToDependency, false},
		{"", "", true},
		{"deleted", "", true},
	} {
		got, err := ParseEventType(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseEventType(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEventType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEvent_JSONShape(t *testing.T) {
	e := NewEvent(EventNewCommitToDependency, NewRepo("fuels-rs", "FuelLabs"),
		NewCommitDetails("337d0eaa130dd18e9e347f83ab4fab76b3a6bd2a"))

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"event_type":"new-commit-to-dependency","client_payload":{"repo":{"name":"fuels-rs","owner":"FuelLabs"},"details":{"commit_hash":"337d0eaa130dd18e9e347f83ab4fab76b3a6bd2a","release_tag":null}}}`
	if string(data) != want {
		t.Errorf("json =\n%s\nwant\n%s", data, want)
	}
}

func TestParseEvent_WebhookPayload(t *testing.T) {
	data := []byte(`{
		"action": "new-commit-to-dependency",
		"branch": "master",
		"client_payload": {
			"repo": {"name": "fuels-rs", "owner": "FuelLabs"},
			"details": {"commit_hash": "abc", "release_tag": null}
		},
		"repository": {"full_name": "FuelLabs/sway"},
		"sender": {"login": "releasy-bot"}
	}`)
	e, err := ParseEvent(data)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if e.Type != EventNewCommitToDependency {
		t.Errorf("Type = %q, want %q", e.Type, EventNewCommitToDependency)
	}
	if e.Repo() != NewRepo("fuels-rs", "FuelLabs") || e.ClientPayload.Details.Ref() != "abc" {
		t.Errorf("unexpected payload %+v", e.ClientPayload)
	}

	if _, err := ParseEvent([]byte(`{"action":"created","client_payload":{}}`)); err == nil {
		t.Error("expected error for unknown webhook action")
	}
	if _, err := ParseEvent([]byte(`{"client_payload":{"repo":{"name":"a","owner":"b"},"details":{"commit_hash":"c"}}}`)); err == nil {
		t.Error("expected error when neither event_type nor action is set")
	}
}

func TestParseEvent(t *testing.T) {
	data := []byte(`{
		"event_type": "new-release",
		"client_payload": {
			"repo": {"name": "fuels-rs", "owner": "FuelLabs"},
			"details": {"commit_hash": null, "release_tag": "v0.40.0"}
		}
	}`)
	e, err := ParseEvent(data)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if e.Type != EventNewRelease {
		t.Errorf("Type = %q, want %q", e.Type, EventNewRelease)
	}
	if e.Repo() != NewRepo("fuels-rs", "FuelLabs") {
		t.Errorf("Repo() = %v", e.Repo())
	}
	if got := e.ClientPayload.Details.Ref(); got != "v0.40.0" {
		t.Errorf("Ref() = %q, want %q", got, "v0.40.0")
	}
}

func TestParseEvent_UnknownType(t *testing.T) {
	_, err := ParseEvent([]byte(`{"event_type":"force-push","client_payload":{"repo":{"name":"a","owner":"b"}}}`))
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if !strings.Contains(err.Error(), "force-push") {
		t.Errorf("error %q should mention the bad value", err)
	}
}

func TestEvent_WithDeliveryID(t *testing.T) {
	e := NewEvent(EventNewCommitToSelf, NewRepo("sway", "FuelLabs"), NewCommitDetails("abc"))
	c := e.WithDeliveryID("rly-1")
	if c.ClientPayload.DeliveryID != "rly-1" {
		t.Errorf("DeliveryID = %q", c.ClientPayload.DeliveryID)
	}
	if e.ClientPayload.DeliveryID != "" {
		t.Error("WithDeliveryID must not modify the receiver")
	}
}
