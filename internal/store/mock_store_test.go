// ABOUTME: Tests for the in-memory store
// ABOUTME: Covers copy semantics and buffered transactional writes

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/host"
)

func TestMemoryStore_GetSet(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.Get([]byte("k"))
	assert.ErrorIs(t, err, host.ErrKeyNotFound)

	value := []byte("v")
	require.NoError(t, m.Set([]byte("k"), value))
	value[0] = 'x'

	got, err := m.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got, "stored value must not alias caller slice")
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStore_Update_DiscardsOnError(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	err := m.Update(ctx, "c", func(s host.Storage) error {
		require.NoError(t, s.Set([]byte("k"), []byte("v")))
		got, err := s.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
		return errors.New("fail")
	})
	require.Error(t, err)

	err = m.View(ctx, "c", func(s host.ReadonlyStorage) error {
		_, err := s.Get([]byte("k"))
		return err
	})
	assert.ErrorIs(t, err, host.ErrKeyNotFound)
}

func TestMemoryStore_Update_Commits(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, "c", func(s host.Storage) error {
		return s.Set([]byte("k"), []byte("v"))
	}))

	require.NoError(t, m.View(ctx, "c", func(s host.ReadonlyStorage) error {
		got, err := s.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
		return nil
	}))
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	m := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Update(ctx, "c", func(host.Storage) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
