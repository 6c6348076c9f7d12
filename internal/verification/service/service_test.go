package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fnsgate/internal/verification/cache"
	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/models"
	"fnsgate/internal/verification/provider"
	audit "fnsgate/pkg/platform/audit"
)

// stubLookup counts upstream calls and serves a canned response. An optional
// gate blocks Fetch until released so tests can hold a lookup in flight.
type stubLookup struct {
	mu    sync.Mutex
	calls int
	resp  provider.Response
	err   error
	gate  chan struct{}
}

func (s *stubLookup) Fetch(ctx context.Context, _ inn.INN) (provider.Response, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	// A real HTTP client fails once its context is cancelled.
	if err := ctx.Err(); err != nil {
		return provider.Response{}, &provider.TransportError{Op: "request", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resp, s.err
}

func (s *stubLookup) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingSink captures published audit events.
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingSink) Publish(event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Event, len(r.events))
	copy(out, r.events)
	return out
}

func activeResponse(name string) provider.Response {
	return provider.Response{Suggestions: []provider.Suggestion{{
		Data: provider.Data{
			Name:    provider.Name{FullWithOPF: name},
			OGRN:    "1027700000000",
			OKVED:   "62.01",
			Address: provider.Address{Value: "г Москва"},
			State:   provider.State{Status: "ACTIVE"},
		},
	}}}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newService(t *testing.T, lookup *stubLookup, store cache.Store) *Service {
	t.Helper()
	svc, err := New(lookup, store, nil, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	store := cache.NewMemory(10, time.Hour)

	t.Run("nil lookup returns error", func(t *testing.T) {
		_, err := New(nil, store, nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lookup client is required")
	})

	t.Run("nil cache returns error", func(t *testing.T) {
		_, err := New(&stubLookup{}, nil, nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache store is required")
	})
}

func TestVerify_InvalidInput(t *testing.T) {
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка")}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))

	_, err := svc.Verify(context.Background(), "123")

	var invalidErr *inn.InvalidError
	require.ErrorAs(t, err, &invalidErr)
	assert.Zero(t, lookup.Calls(), "invalid input must not reach the provider")
}

func TestVerify_SecondCallIsACacheHit(t *testing.T) {
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка")}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))
	ctx := context.Background()

	first, err := svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, first.Status)

	second, err := svc.Verify(ctx, "7700000000")
	require.NoError(t, err)

	assert.Equal(t, 1, lookup.Calls(), "second call within TTL must not hit the provider")
	assert.Equal(t, first, second, "cached result must be identical to the original")
}

func TestVerify_ExpiredEntryTriggersNewLookup(t *testing.T) {
	clk := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка")}
	svc := newService(t, lookup, cache.NewMemoryWithClock(10, time.Hour, clk.Now))
	ctx := context.Background()

	_, err := svc.Verify(ctx, "7700000000")
	require.NoError(t, err)

	clk.Advance(time.Hour)

	_, err = svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.Calls(), "a stale entry must trigger a fresh upstream call")
}

func TestVerify_NotFoundOutcomeIsCached(t *testing.T) {
	lookup := &stubLookup{resp: provider.Response{}}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))
	ctx := context.Background()

	result, err := svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, result.Status)

	_, err = svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.Calls(), "negative outcomes are cached like positive ones")
}

func TestVerify_TransportFailureIsNotCached(t *testing.T) {
	lookup := &stubLookup{err: &provider.TransportError{Op: "status", StatusCode: 502, Detail: "bad gateway"}}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))
	ctx := context.Background()

	_, err := svc.Verify(ctx, "7700000000")
	var transportErr *provider.TransportError
	require.ErrorAs(t, err, &transportErr)

	// Upstream recovers; the next call must go out again instead of serving
	// a cached failure.
	lookup.mu.Lock()
	lookup.err = nil
	lookup.resp = activeResponse("ООО Ромашка")
	lookup.mu.Unlock()

	result, err := svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 2, lookup.Calls())
}

func TestVerify_ConcurrentMissesShareOneUpstreamCall(t *testing.T) {
	gate := make(chan struct{})
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка"), gate: gate}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]models.Result, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Verify(ctx, "7700000000")
		}()
	}

	// Give every goroutine time to reach the in-flight lookup, then release it.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, models.StatusSuccess, results[i].Status)
	}
	assert.Equal(t, 1, lookup.Calls(), "concurrent misses for one identifier share a single upstream call")
}

func TestVerify_CallerCancellationDoesNotFailSharedFlight(t *testing.T) {
	gate := make(chan struct{})
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка"), gate: gate}
	svc := newService(t, lookup, cache.NewMemory(10, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var result models.Result
	var err error
	go func() {
		defer close(done)
		result, err = svc.Verify(ctx, "7700000000")
	}()

	// Cancel the initiating caller while its lookup is held in flight, then
	// let the lookup complete.
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(gate)
	<-done

	require.NoError(t, err, "a disconnecting caller must not fail the in-flight lookup")
	assert.Equal(t, models.StatusSuccess, result.Status)

	// The outcome still reached the cache.
	cached, err := svc.Verify(context.Background(), "7700000000")
	require.NoError(t, err)
	assert.Equal(t, result, cached)
	assert.Equal(t, 1, lookup.Calls())
}

func TestVerify_PublishesAuditEvents(t *testing.T) {
	lookup := &stubLookup{resp: activeResponse("ООО Ромашка")}
	sink := &recordingSink{}
	svc, err := New(lookup, cache.NewMemory(10, time.Hour), nil, nil, sink)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Verify(ctx, "7700000000")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, "7700000000")
	require.NoError(t, err)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionVerified, events[0].Action)
	assert.False(t, events[0].CacheHit)
	assert.True(t, events[1].CacheHit)
	assert.Equal(t, "success", events[0].Decision)
	assert.Equal(t, audit.HashSubject("7700000000"), events[0].SubjectHash)
	assert.NotEqual(t, "7700000000", events[0].SubjectHash, "raw identifier must not appear in the trail")
}
