//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "fnsgate/pkg/platform/audit"
	"fnsgate/pkg/testutil/containers"
)

func TestStore_Append(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, pc.DB))

	store := New(pc.DB)
	event := audit.Event{
		Timestamp:   time.Now().UTC(),
		Action:      audit.ActionVerified,
		SubjectHash: audit.HashSubject("7700000000"),
		Decision:    "success",
		Reason:      "organization is registered and active",
		RequestID:   "req-123",
		CacheHit:    true,
	}

	require.NoError(t, store.Append(ctx, event))

	var count int
	var decision string
	var cacheHit bool
	row := pc.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) OVER (), decision, cache_hit FROM audit_events WHERE subject_hash = $1`,
		event.SubjectHash,
	)
	require.NoError(t, row.Scan(&count, &decision, &cacheHit))
	assert.Equal(t, 1, count)
	assert.Equal(t, "success", decision)
	assert.True(t, cacheHit)
}

func TestMigrate_Idempotent(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pc.DB))
	require.NoError(t, Migrate(ctx, pc.DB))
}
