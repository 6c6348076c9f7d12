package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSubject(t *testing.T) {
	hash := HashSubject("7700000000")

	assert.Len(t, hash, 64, "sha-256 hex digest")
	assert.NotContains(t, hash, "7700000000")
	assert.Equal(t, hash, HashSubject("7700000000"), "hashing is deterministic")
	assert.NotEqual(t, hash, HashSubject("7700000001"))
}
