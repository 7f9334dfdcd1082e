package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

func sampleSnapshot() Snapshot {
	candidates := models.NewTable(models.ColCliente, models.ColCloserAsignado)
	candidates.AppendRow(models.TextCell("Acme"), models.EmptyCell())
	store := models.NewTable(models.StoreColumns...)
	store.AppendRow()
	store.Set(0, models.ColCliente, models.TextCell("Acme"))
	store.Set(0, models.ColCloser, models.TextCell("Ana"))
	return Snapshot{
		Candidates: &candidates,
		Store:      &store,
		StoreToken: NewToken(),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	snap := sampleSnapshot()
	require.NoError(t, s.Put(ctx, "sid", snap))

	got, ok, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.StoreToken, got.StoreToken)
	assert.Equal(t, "Acme", got.Candidates.Get(0, models.ColCliente).String())

	require.NoError(t, s.Delete(ctx, "sid"))
	_, ok, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	s := NewRedis(mr.Addr(), time.Hour)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))

	snap := sampleSnapshot()
	require.NoError(t, s.Put(ctx, "sid", snap))

	got, ok, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.StoreToken, got.StoreToken)
	require.NotNil(t, got.Store)
	assert.Equal(t, "Ana", got.Store.Get(0, models.ColCloser).String())
	assert.Equal(t, models.KindText, got.Store.Get(0, models.ColCloser).Kind)

	require.NoError(t, s.Delete(ctx, "sid"))
	_, ok, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	s := NewRedis(mr.Addr(), time.Minute)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "sid", sampleSnapshot()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok, "expired session must read as absent")
}
