package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection. 5xx
// responses count as breaker failures but are still returned to the caller
// together with the error, so the response body stays readable.
type HTTPClient struct {
	client  *http.Client
	breaker *CircuitBreaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes an HTTP request with circuit breaker protection
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(req.Context(), func(ctx context.Context) (interface{}, error) {
		resp, doErr := c.client.Do(req.WithContext(ctx))
		if doErr != nil {
			return nil, doErr
		}

		if resp.StatusCode >= 500 {
			return resp, fmt.Errorf("server error: %d", resp.StatusCode)
		}

		return resp, nil
	})

	if IsCircuitOpen(err) {
		c.log.Warn("Circuit breaker open, request blocked",
			zap.String("url", req.URL.String()),
			zap.String("breaker", c.breaker.Name()),
		)
	}

	resp, _ := result.(*http.Response)
	return resp, err
}

// HTTPClientSettings configures the HTTP client with circuit breaker
type HTTPClientSettings struct {
	Timeout time.Duration

	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// DefaultHTTPClientSettings returns default settings
func DefaultHTTPClientSettings(name string) HTTPClientSettings {
	return HTTPClientSettings{
		Name:             name,
		Timeout:          30 * time.Second,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		BreakerTimeout:   30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}
}

// NewHTTPClientWithSettings creates a new HTTP client with the given settings
func NewHTTPClientWithSettings(settings HTTPClientSettings, log *zap.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: settings.Timeout,
	}

	breaker := New(Settings{
		Name:             settings.Name,
		MaxRequests:      settings.MaxRequests,
		Interval:         settings.Interval,
		Timeout:          settings.BreakerTimeout,
		FailureThreshold: settings.FailureThreshold,
		SuccessThreshold: settings.SuccessThreshold,
		OnStateChange: func(name string, from State, to State) {
			log.Info("HTTP client circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}, log)

	return NewHTTPClient(client, breaker, log)
}
