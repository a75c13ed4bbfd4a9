package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewInFlight_Defaults(t *testing.T) {
	f := NewInFlight(InFlightConfig{})

	if f.config.MaxCalls != 10 {
		t.Errorf("MaxCalls = %d, want 10", f.config.MaxCalls)
	}
}

func TestInFlight_AllowsUpToCap(t *testing.T) {
	f := NewInFlight(InFlightConfig{MaxCalls: 2})

	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.Execute(context.Background(), func(ctx context.Context) error {
				started.Done()
				<-release
				return nil
			})
		}()
	}
	started.Wait()

	// Third call is rejected immediately
	err := f.Execute(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrTooManyInFlight) {
		t.Errorf("Execute() over cap = %v, want ErrTooManyInFlight", err)
	}

	close(release)
	wg.Wait()

	m := f.Metrics()
	if m.Active != 0 {
		t.Errorf("Active = %d, want 0", m.Active)
	}
	if m.Peak != 2 {
		t.Errorf("Peak = %d, want 2", m.Peak)
	}
	if m.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", m.Rejected)
	}
}

func TestInFlight_WaitsForSlot(t *testing.T) {
	f := NewInFlight(InFlightConfig{MaxCalls: 1, MaxWait: time.Second})

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = f.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	// Blocks until the first call releases its slot
	err := f.Execute(context.Background(), func(ctx context.Context) error { return nil })
	if err != nil {
		t.Errorf("Execute() = %v, want nil after waiting", err)
	}
}

func TestInFlight_WaitTimesOut(t *testing.T) {
	f := NewInFlight(InFlightConfig{MaxCalls: 1, MaxWait: 20 * time.Millisecond})

	release := make(chan struct{})
	started := make(chan struct{})
	defer close(release)

	go func() {
		_ = f.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := f.Execute(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrTooManyInFlight) {
		t.Errorf("Execute() = %v, want ErrTooManyInFlight after wait timeout", err)
	}
}

func TestInFlight_ParentCancellationWins(t *testing.T) {
	f := NewInFlight(InFlightConfig{MaxCalls: 1, MaxWait: time.Second})

	release := make(chan struct{})
	started := make(chan struct{})
	defer close(release)

	go func() {
		_ = f.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := f.Execute(ctx, func(ctx context.Context) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestInFlight_OperationErrorPassesThrough(t *testing.T) {
	f := NewInFlight(InFlightConfig{MaxCalls: 1})

	testErr := errors.New("upstream failure")
	err := f.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})
	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}

	// Slot released despite the failure
	if err := f.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("Execute() after failure = %v", err)
	}
}
