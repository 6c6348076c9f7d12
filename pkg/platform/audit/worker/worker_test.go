package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "fnsgate/pkg/platform/audit"
	"fnsgate/pkg/platform/audit/publisher"
	"fnsgate/pkg/platform/audit/store/memory"
)

func TestWorker_PersistsPublishedEvents(t *testing.T) {
	store := memory.New()
	pub := publisher.New(8, nil)
	worker := NewWorker(store, pub.Inbox())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	pub.Publish(audit.Event{Action: audit.ActionVerified, Decision: "success"})
	pub.Publish(audit.Event{Action: audit.ActionProviderFailed, Reason: "timeout"})

	require.Eventually(t, func() bool {
		return len(store.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	events := store.Events()
	assert.Equal(t, audit.ActionVerified, events[0].Action)
	assert.Equal(t, audit.ActionProviderFailed, events[1].Action)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	pub := publisher.New(1, nil)
	worker := NewWorker(memory.New(), pub.Inbox())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, worker.Run(ctx), context.Canceled)
}

func TestWorker_DrainsInboxOnShutdown(t *testing.T) {
	store := memory.New()
	pub := publisher.New(8, nil)
	worker := NewWorker(store, pub.Inbox())

	// Events accepted before the worker ever runs must still be persisted
	// when it shuts down immediately.
	pub.Publish(audit.Event{Action: audit.ActionVerified, Decision: "success"})
	pub.Publish(audit.Event{Action: audit.ActionVerified, Decision: "warning"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, worker.Run(ctx), context.Canceled)

	events := store.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "success", events[0].Decision)
	assert.Equal(t, "warning", events[1].Decision)
}
