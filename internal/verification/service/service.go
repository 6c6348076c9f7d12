// Package service orchestrates a verification request: validate the
// identifier, consult the cache, and on a miss call the registry provider,
// normalize the response, and cache the outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fnsgate/internal/verification/cache"
	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/metrics"
	"fnsgate/internal/verification/models"
	"fnsgate/internal/verification/provider"
	audit "fnsgate/pkg/platform/audit"
	"fnsgate/pkg/platform/sentinel"
	"fnsgate/pkg/requestcontext"
)

// LookupClient performs one outbound registry query per call.
type LookupClient interface {
	Fetch(ctx context.Context, id inn.INN) (provider.Response, error)
}

// AuditSink receives verification audit events without blocking the request.
type AuditSink interface {
	Publish(event audit.Event)
}

// Service is the public verification entry point. It owns the cache
// instance; nothing else reads or writes it.
type Service struct {
	lookup  LookupClient
	cache   cache.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditSink

	// flight de-duplicates concurrent misses for the same identifier so only
	// one upstream call is in flight per key. This is stronger than the
	// source behavior, which allowed concurrent identical-key lookups to each
	// hit the provider.
	flight singleflight.Group
}

// New constructs the verification service. Lookup client and cache are
// required; metrics and audit sink may be nil.
func New(lookup LookupClient, cacheStore cache.Store, logger *slog.Logger, m *metrics.Metrics, sink AuditSink) (*Service, error) {
	if lookup == nil {
		return nil, errors.New("lookup client is required")
	}
	if cacheStore == nil {
		return nil, errors.New("cache store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		lookup:  lookup,
		cache:   cacheStore,
		logger:  logger,
		metrics: m,
		audit:   sink,
	}, nil
}

// Verify resolves a raw identifier to a verification result. It fails with
// *inn.InvalidError on malformed input and *provider.TransportError when the
// upstream call does not complete; transport failures are never cached.
func (s *Service) Verify(ctx context.Context, raw string) (models.Result, error) {
	id, err := inn.Parse(raw)
	if err != nil {
		return models.Result{}, err
	}

	if cached, err := s.cache.Get(ctx, id); err == nil {
		s.metrics.IncrementCacheHit()
		s.metrics.IncrementOutcome(string(cached.Status))
		s.publishOutcome(ctx, id, cached, true)
		return cached, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		// A broken cache backend degrades to a plain miss.
		s.logger.WarnContext(ctx, "verification cache read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	s.metrics.IncrementCacheMiss()

	// The flight runs detached from the initiating caller's cancellation so
	// one disconnecting client cannot fail the peers sharing it. The provider
	// client's own timeout still bounds the call.
	v, err, shared := s.flight.Do(string(id), func() (any, error) {
		return s.lookupAndCache(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "registry lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"shared", shared,
			"error", err,
		)
		if s.audit != nil {
			s.audit.Publish(audit.Event{
				Timestamp:   requestcontext.Now(ctx),
				Action:      audit.ActionProviderFailed,
				SubjectHash: audit.HashSubject(id.String()),
				Reason:      err.Error(),
				RequestID:   requestcontext.RequestID(ctx),
			})
		}
		return models.Result{}, err
	}

	result, ok := v.(models.Result)
	if !ok {
		return models.Result{}, fmt.Errorf("unexpected lookup result type %T", v)
	}
	s.metrics.IncrementOutcome(string(result.Status))
	s.publishOutcome(ctx, id, result, false)
	return result, nil
}

// lookupAndCache performs the upstream call, normalizes the response, and
// stores the outcome. Every normalized result is cached unconditionally,
// negative ones included.
func (s *Service) lookupAndCache(ctx context.Context, id inn.INN) (models.Result, error) {
	start := time.Now()
	resp, err := s.lookup.Fetch(ctx, id)
	s.metrics.ObserveProviderLatency(time.Since(start))
	if err != nil {
		return models.Result{}, err
	}

	result := provider.Normalize(resp)
	if err := s.cache.Put(ctx, id, result); err != nil {
		// Cache population is best effort; the caller still gets the result.
		s.logger.WarnContext(ctx, "verification cache write failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return result, nil
}

func (s *Service) publishOutcome(ctx context.Context, id inn.INN, result models.Result, cacheHit bool) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		Action:      audit.ActionVerified,
		SubjectHash: audit.HashSubject(id.String()),
		Decision:    string(result.Status),
		Reason:      result.Message,
		RequestID:   requestcontext.RequestID(ctx),
		CacheHit:    cacheHit,
	})
}
