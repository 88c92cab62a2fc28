package pixelwalker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAttempts_Budget(t *testing.T) {
	a := newAttempts(3, time.Second)
	for i := 1; i <= 3; i++ {
		if !a.next() {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if a.next() {
		t.Error("fourth attempt should be refused")
	}
	if a.used != 3 {
		t.Errorf("used = %d, want 3", a.used)
	}
}

func TestAttempts_FailedDialWaitsOutDeadline(t *testing.T) {
	a := newAttempts(1, 80*time.Millisecond)
	refused := errors.New("refused")
	dial := func(ctx context.Context, url string) (transport, error) { return nil, refused }

	start := time.Now()
	_, err := a.try(context.Background(), dial, "ws://x")
	if !errors.Is(err, refused) {
		t.Fatalf("try() error = %v, want refused", err)
	}
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("try() returned after %s, want it to wait out the deadline", elapsed)
	}
}

func TestAttempts_DialSeesDeadline(t *testing.T) {
	a := newAttempts(1, 50*time.Millisecond)
	dial := func(ctx context.Context, url string) (transport, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := a.try(context.Background(), dial, "ws://x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("try() error = %v, want deadline exceeded", err)
	}
}

func TestAttempts_ParentCanceled(t *testing.T) {
	a := newAttempts(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	dial := func(ctx context.Context, url string) (transport, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := a.try(ctx, dial, "ws://x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("try() error = %v, want canceled", err)
	}
}
