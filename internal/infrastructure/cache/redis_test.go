package cache

import (
	"context"
	"testing"
	"time"
)

// A Redis with no client is the bypass state NewRedis falls into when the
// server is unreachable: reads miss, writes are dropped, and nothing blocks.
func TestBypassSemantics(t *testing.T) {
	r := &Redis{}
	ctx := context.Background()

	var out map[string]string
	hit, err := r.GetJSON(ctx, "search:jobs:x", &out)
	if err != nil || hit {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}

	if err := r.SetJSON(ctx, "search:jobs:x", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("expected dropped write, got %v", err)
	}

	if err := r.Delete(ctx, "search:jobs:x"); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}

	ok, err := r.SetIfNotExists(ctx, "search:lock:x", "1", time.Minute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ok {
		t.Fatalf("bypass must report the lock as acquired so callers do not wait")
	}

	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping to report unavailability")
	}
}

func TestBypassSemanticsNilReceiver(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	hit, err := r.GetJSON(ctx, "k", nil)
	if err != nil || hit {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}
	ok, err := r.SetIfNotExists(ctx, "k", "1", 0)
	if err != nil || !ok {
		t.Fatalf("expected acquired lock from bypass, got ok=%v err=%v", ok, err)
	}
}
