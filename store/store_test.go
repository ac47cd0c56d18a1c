package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	_, err := kv.Get(ctx, SlotUsers)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, SlotUsers, []byte(`[{"username":"admin"}]`)))
	value, err := kv.Get(ctx, SlotUsers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"username":"admin"}]`, string(value))

	require.NoError(t, kv.Delete(ctx, SlotUsers))
	_, err = kv.Get(ctx, SlotUsers)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	original := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", original))
	original[0] = 'x'

	value, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := NewSQL("sqlite", ":memory:")
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, SlotRecords)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, SlotRecords, []byte("[]")))
	require.NoError(t, kv.Set(ctx, SlotRecords, []byte(`[{"hc_number":"111"}]`)))

	value, err := kv.Get(ctx, SlotRecords)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"hc_number":"111"}]`, string(value))

	require.NoError(t, kv.Delete(ctx, SlotRecords))
	_, err = kv.Get(ctx, SlotRecords)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "bogus"})
	assert.Error(t, err)
}

func TestOpenDefaultsToMemory(t *testing.T) {
	kv, err := Open(Options{})
	require.NoError(t, err)
	_, ok := kv.(*Memory)
	assert.True(t, ok)
}
