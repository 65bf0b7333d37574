package utils

import (
	"context"
	"testing"
	"time"
)

func TestHead(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c"}

	if got := Head(items, 2); len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected head: %v", got)
	}
	if got := Head(items, 10); len(got) != 3 {
		t.Fatalf("expected all items, got %v", got)
	}
	if got := Head(items, 0); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	got := Head(items, 1)
	got[0] = "z"
	if items[0] != "a" {
		t.Fatalf("head must not alias the input")
	}
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForNonPositive(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForElapses(t *testing.T) {
	t.Parallel()

	start := time.Now()
	if err := WaitFor(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("returned before the delay elapsed")
	}
}
