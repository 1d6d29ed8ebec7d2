package geocode

import (
	"context"
	"sync"
	"time"
)

// fakeClient returns canned results and records every call.
type fakeClient struct {
	mu    sync.Mutex
	calls []fakeCall
	fn    func(call int, address string) (*Result, error)
}

type fakeCall struct {
	address string
	at      time.Time
}

func (f *fakeClient) Geocode(_ context.Context, address string) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{address: address, at: time.Now()})
	n := len(f.calls)
	f.mu.Unlock()
	if f.fn == nil {
		return &Result{Latitude: 1, Longitude: 2, Source: "fake", Matched: true}, nil
	}
	return f.fn(n, address)
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) callTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.at
	}
	return out
}
