package circuitbreaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestBreaker(settings Settings) *CircuitBreaker {
	return New(settings, zap.NewNop())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(Settings{Name: "test", FailureThreshold: 3})
	ctx := context.Background()
	failing := errors.New("boom")

	for i := 0; i < 3; i++ {
		if cb.State() != StateClosed {
			t.Fatalf("breaker opened too early after %d failures", i)
		}
		cb.Execute(ctx, func(ctx context.Context) (interface{}, error) {
			return nil, failing
		})
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", cb.State())
	}

	_, err := cb.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		t.Fatal("open breaker must not execute the call")
		return nil, nil
	})
	if !IsCircuitOpen(err) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	cb := newTestBreaker(Settings{Name: "test", FailureThreshold: 3})
	ctx := context.Background()
	failing := errors.New("boom")

	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, failing })
	}
	cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, nil })
	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, failing })
	}

	if cb.State() != StateClosed {
		t.Errorf("interleaved success should reset the streak, got %s", cb.State())
	}
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	var transitions []string
	cb := newTestBreaker(Settings{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})
	ctx := context.Background()

	cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, errors.New("boom") })
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	time.Sleep(20 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", cb.State())
	}

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, nil }); err != nil {
			t.Fatalf("probe %d rejected: %v", i, err)
		}
	}
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after 2 successes, got %s", cb.State())
	}

	want := []string{"closed>open", "open>half-open", "half-open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(Settings{
		Name:             "test",
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})
	ctx := context.Background()

	cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, errors.New("still broken") })
	if cb.State() != StateOpen {
		t.Errorf("half-open failure should reopen, got %s", cb.State())
	}
}

func TestBreakerHalfOpenLimitsProbes(t *testing.T) {
	cb := newTestBreaker(Settings{
		Name:             "test",
		FailureThreshold: 1,
		MaxRequests:      1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
	})
	ctx := context.Background()

	cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	blocked := make(chan struct{})
	release := make(chan struct{})
	go cb.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		close(blocked)
		<-release
		return nil, nil
	})
	<-blocked

	_, err := cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, nil })
	if !IsTooManyRequests(err) {
		t.Errorf("expected ErrTooManyRequests while probe in flight, got %v", err)
	}
	close(release)
}

func TestBreakerReturnsResultAlongsideError(t *testing.T) {
	cb := newTestBreaker(Settings{Name: "test"})

	result, err := cb.Execute(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "body", errors.New("server error: 500")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if result != "body" {
		t.Errorf("result must survive a failed call, got %v", result)
	}
}

func TestBreakerCustomIsSuccessful(t *testing.T) {
	tolerated := errors.New("not found")
	cb := newTestBreaker(Settings{
		Name:             "test",
		FailureThreshold: 1,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, tolerated)
		},
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cb.Execute(ctx, func(ctx context.Context) (interface{}, error) { return nil, tolerated })
	}
	if cb.State() != StateClosed {
		t.Errorf("tolerated errors must not open the breaker, got %s", cb.State())
	}
}

func TestHTTPClientCountsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer server.Close()

	settings := DefaultHTTPClientSettings("test")
	settings.FailureThreshold = 2
	client := NewHTTPClientWithSettings(settings, zap.NewNop())

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err == nil {
			t.Fatal("5xx should surface as an error")
		}
		if resp == nil {
			t.Fatal("5xx response body must stay readable")
		}
		resp.Body.Close()
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if !IsCircuitOpen(err) {
		t.Errorf("expected open circuit after repeated 5xx, got %v", err)
	}
	if resp != nil {
		resp.Body.Close()
		t.Error("blocked request should have no response")
	}
}

func TestHTTPClientPassesThroughClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	settings := DefaultHTTPClientSettings("test")
	settings.FailureThreshold = 1
	client := NewHTTPClientWithSettings(settings, zap.NewNop())

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("4xx is not a breaker failure: %v", err)
		}
		resp.Body.Close()
	}
}
