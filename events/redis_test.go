package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedisBus(t *testing.T) *RedisBus {
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	bus := NewRedisBus(client, "", zap.NewNop())
	t.Cleanup(func() { bus.Close() })
	return bus
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	bus := setupRedisBus(t)
	ctx := context.Background()
	require.NoError(t, bus.Ping(ctx))

	ch, cancel, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	change := Change{
		Collection:  Medications,
		Op:          OpUpdate,
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		At:          time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, bus.Publish(ctx, change))

	select {
	case got := <-ch:
		assert.Equal(t, change.Collection, got.Collection)
		assert.Equal(t, change.Op, got.Op)
		assert.Equal(t, change.ID, got.ID)
		assert.Equal(t, change.OwnerUserID, got.OwnerUserID)
		assert.True(t, change.At.Equal(got.At))
	case <-time.After(2 * time.Second):
		t.Fatal("change not delivered")
	}
}

func TestRedisBus_UsesDefaultChannel(t *testing.T) {
	bus := setupRedisBus(t)
	assert.Equal(t, DefaultChannel, bus.channel)
}
