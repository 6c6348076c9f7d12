package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fnsgate/internal/platform/config"
)

func TestNew_NotConfigured(t *testing.T) {
	client, err := New(config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client, "no URL means redis stays off")
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "not-a-redis-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}
