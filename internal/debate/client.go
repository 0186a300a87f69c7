package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// TextBackend is the generative-text collaborator that enriches debate
// transcripts. It is optional: the provider never fails because the backend
// is down.
type TextBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client wraps a TextBackend with a circuit breaker, a rate limiter and a
// bounded per-call timeout so a slow or failing backend degrades the
// provider instead of blocking it.
type Client struct {
	backend TextBackend
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
}

// ClientConfig tunes the enrichment guardrails.
type ClientConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// DefaultClientConfig allows 30 calls a minute with a 5s ceiling per call.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Timeout: 5 * time.Second, RequestsPerMinute: 30}
}

// NewClient builds the guarded client. A nil backend is allowed and makes
// every Generate call fail fast into the caller's fallback path.
func NewClient(backend TextBackend, cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultClientConfig().RequestsPerMinute
	}

	st := gobreaker.Settings{Name: "debate-enrichment"}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}

	return &Client{
		backend: backend,
		breaker: gobreaker.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		timeout: cfg.Timeout,
	}
}

// Generate runs one enrichment call through the guardrails.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.backend == nil {
		return "", fmt.Errorf("no enrichment backend configured")
	}
	if !c.limiter.Allow() {
		return "", fmt.Errorf("enrichment rate limit exceeded")
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.backend.Generate(callCtx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
