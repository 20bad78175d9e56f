package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakePinger struct {
	failures int
	calls    int
}

func (f *fakePinger) Ping(ctx context.Context) *redis.StatusCmd {
	f.calls++
	if f.calls <= f.failures {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	return redis.NewStatusResult("PONG", nil)
}

func noWait(int) time.Duration { return 0 }

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}

	for _, tt := range tests {
		if got := Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestPing_RetriesUntilSuccess(t *testing.T) {
	client := &fakePinger{failures: 2}

	if err := ping(context.Background(), client, 5, noWait); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
}

func TestPing_GivesUp(t *testing.T) {
	client := &fakePinger{failures: 10}

	err := ping(context.Background(), client, 3, noWait)
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
}

func TestPing_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakePinger{failures: 10}
	err := ping(ctx, client, 3, func(int) time.Duration { return time.Hour })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("expected a single attempt, got %d", client.calls)
	}
}
