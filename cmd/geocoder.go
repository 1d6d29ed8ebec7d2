package main

import (
	"go.uber.org/zap"

	"github.com/sells-group/player-enrich/internal/config"
	"github.com/sells-group/player-enrich/internal/resilience"
	"github.com/sells-group/player-enrich/pkg/geocode"
)

// newGeocoder builds the client every worker of a run shares: the configured
// provider behind one throttle, one retry policy and one circuit breaker.
func newGeocoder(gc config.GeocodeConfig) (geocode.Client, error) {
	opts := []geocode.Option{geocode.WithTimeout(gc.Timeout())}
	if gc.APIKey != "" {
		opts = append(opts, geocode.WithAPIKey(gc.APIKey))
	}
	if gc.BaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(gc.BaseURL))
	}
	if gc.UserAgent != "" {
		opts = append(opts, geocode.WithUserAgent(gc.UserAgent))
	}

	provider, err := geocode.NewProvider(gc.Provider, opts...)
	if err != nil {
		return nil, err
	}

	throttle := geocode.NewThrottle(gc.MinDelay())
	retry := resilience.NewRetryConfig(gc.Retry.MaxAttempts, gc.Retry.InitialBackoffMs, gc.Retry.MaxBackoffMs)
	breaker := resilience.NewCircuitBreaker(
		resilience.NewCircuitBreakerConfig(provider.Name(), gc.Circuit.Threshold, gc.Circuit.ResetTimeoutSecs),
	)

	zap.L().Debug("geocoder ready",
		zap.String("provider", provider.Name()),
		zap.Duration("min_delay", throttle.MinDelay()),
		zap.Int("max_attempts", retry.MaxAttempts),
	)
	return geocode.Stack(provider, throttle, retry, breaker), nil
}
