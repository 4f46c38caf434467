package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemory_MissReturnsNilNil(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	defer m.Close()

	got, err := m.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_EntriesExpire(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, m.Delete(ctx, "k"))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
