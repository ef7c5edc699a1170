package idgen

import (
	"regexp"
	"strings"
	"testing"
)

var deliveryPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(DeliveryPrefix) + `[a-z0-9]{12}$`)

func TestDeliveryID_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := DeliveryID()
		if err != nil {
			t.Fatalf("DeliveryID() error on iteration %d: %v", i, err)
		}
		if !deliveryPattern.MatchString(id) {
			t.Fatalf("DeliveryID() = %q, does not match %s", id, deliveryPattern)
		}
	}
}

func TestDeliveryID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := DeliveryID()
		if err != nil {
			t.Fatalf("DeliveryID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestWithPrefix(t *testing.T) {
	id, err := WithPrefix("test-")
	if err != nil {
		t.Fatalf("WithPrefix error: %v", err)
	}
	if !strings.HasPrefix(id, "test-") {
		t.Errorf("WithPrefix = %q, want prefix test-", id)
	}
	if len(id) != len("test-")+Length {
		t.Errorf("WithPrefix length = %d, want %d", len(id), len("test-")+Length)
	}
}

func TestSequence(t *testing.T) {
	next := Sequence("d-")
	for _, want := range []string{"d-1", "d-2", "d-3"} {
		got, err := next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("next() = %q, want %q", got, want)
		}
	}
}
