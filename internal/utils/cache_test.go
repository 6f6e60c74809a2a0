package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_NilClientIsDisabled(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, nil, "coins:user:1", map[string]int{"coins": 15}, CacheTTL))

	var dest map[string]int
	found, err := GetCache(ctx, nil, "coins:user:1", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)

	assert.NoError(t, DeleteCache(ctx, nil, "coins:user:1"))
	assert.NoError(t, DeleteCachePrefix(ctx, nil, "coinhistory:user:1"))
}
