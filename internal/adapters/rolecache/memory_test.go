package rolecache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
)

func TestMemory_SetGetDelete(t *testing.T) {
	cache := NewMemory()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "u1", domainauth.RoleBronze))

	role, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleBronze, role)

	require.NoError(t, cache.Delete(ctx, "u1"))

	_, ok, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	cache := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.Set(ctx, "u1", domainauth.RoleGold)
			_, _, _ = cache.Get(ctx, "u1")
			_ = cache.Delete(ctx, "u1")
		}()
	}
	wg.Wait()
}
