package geocode

import (
	"context"

	"github.com/sells-group/player-enrich/internal/resilience"
)

// Resilient retries transient provider failures and fails fast while the
// shared circuit breaker is open.
type Resilient struct {
	name    string
	next    Client
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewResilient wraps next. A nil breaker disables circuit breaking.
func NewResilient(name string, next Client, retry resilience.RetryConfig, breaker *resilience.CircuitBreaker) *Resilient {
	return &Resilient{name: name, next: next, retry: retry, breaker: breaker}
}

// Geocode implements Client.
func (r *Resilient) Geocode(ctx context.Context, address string) (*Result, error) {
	cfg := r.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(r.name, address)
	}
	call := func(ctx context.Context) (*Result, error) {
		return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*Result, error) {
			return r.next.Geocode(ctx, address)
		})
	}
	if r.breaker == nil {
		return call(ctx)
	}
	return resilience.ExecuteVal(ctx, r.breaker, call)
}

// Stack assembles the client every worker of a run shares: the provider behind
// the throttle, behind retries and the circuit breaker. Retries pass through
// the throttle too.
func Stack(p Provider, throttle *Throttle, retry resilience.RetryConfig, breaker *resilience.CircuitBreaker) Client {
	var c Client = p
	if throttle != nil {
		c = throttle.Wrap(c)
	}
	return NewResilient(p.Name(), c, retry, breaker)
}
