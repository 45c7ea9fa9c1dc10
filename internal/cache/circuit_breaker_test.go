package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(maxFailures, halfOpen int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      maxFailures,
		Timeout:          time.Second,
		HalfOpenMaxCalls: halfOpen,
	})
	cb.now = clock.Now
	return cb, clock
}

func failing() error { return fmt.Errorf("operation failed") }

func succeeding() error { return nil }

func TestCircuitBreakerBasicFlow(t *testing.T) {
	cb, _ := newTestBreaker(3, 2)

	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected initial state to be Closed, got %v", cb.GetState())
	}

	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected state to remain Closed after success, got %v", cb.GetState())
	}
}

func TestCircuitBreakerFailureTransition(t *testing.T) {
	cb, _ := newTestBreaker(2, 2)

	if err := cb.Execute(failing); err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected state to be Closed after first failure, got %v", cb.GetState())
	}

	if err := cb.Execute(failing); err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.GetState() != CircuitBreakerOpen {
		t.Errorf("Expected state to be Open after reaching failure threshold, got %v", cb.GetState())
	}
}

func TestCircuitBreakerCacheMissIsNotAFailure(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)

	err := cb.Execute(func() error { return ErrCacheMiss })
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss to pass through, got %v", err)
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected breaker to stay Closed on a miss, got %v", cb.GetState())
	}
}

func TestCircuitBreakerOpenState(t *testing.T) {
	cb, _ := newTestBreaker(1, 2)

	cb.Execute(failing)

	if cb.GetState() != CircuitBreakerOpen {
		t.Errorf("Expected state to be Open, got %v", cb.GetState())
	}

	err := cb.Execute(func() error {
		t.Error("Operation should not be executed when circuit is open")
		return nil
	})

	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("Expected ErrCircuitBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenCloses(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)

	cb.Execute(failing)
	clock.Advance(1100 * time.Millisecond)

	executed := false
	err := cb.Execute(func() error {
		executed = true
		return nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if !executed {
		t.Error("Expected operation to be executed in half-open state")
	}
	if cb.GetState() != CircuitBreakerHalfOpen {
		t.Errorf("Expected HalfOpen after one probe, got %v", cb.GetState())
	}

	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("Expected second probe to succeed, got %v", err)
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected Closed after enough successful probes, got %v", cb.GetState())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 3)

	cb.Execute(failing)
	clock.Advance(2 * time.Second)

	if err := cb.Execute(failing); err == nil {
		t.Error("Expected probe failure to be returned")
	}
	if cb.GetState() != CircuitBreakerOpen {
		t.Errorf("Expected Open after failed probe, got %v", cb.GetState())
	}

	if err := cb.Execute(succeeding); !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("Expected calls to be rejected again, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(1, 1)

	cb.Execute(failing)
	clock.Advance(2 * time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	go cb.Execute(func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	if err := cb.Execute(succeeding); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Expected ErrTooManyRequests while a probe is in flight, got %v", err)
	}
	close(release)
}

func TestCircuitBreakerStats(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)
	cb.Execute(failing)

	stats := cb.GetStats()
	if stats["state"] != "open" {
		t.Errorf("Expected state open in stats, got %v", stats["state"])
	}
	if stats["failure_count"] != 1 {
		t.Errorf("Expected failure_count 1, got %v", stats["failure_count"])
	}
}

func TestCircuitBreakerConcurrency(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      5,
		Timeout:          100 * time.Millisecond,
		HalfOpenMaxCalls: 3,
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				cb.Execute(func() error {
					if (id+j)%3 == 0 {
						return fmt.Errorf("failure %d-%d", id, j)
					}
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	err := cb.Execute(succeeding)
	if err != nil && !errors.Is(err, ErrCircuitBreakerOpen) && !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Unexpected error after concurrent operations: %v", err)
	}
}
