package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()

	a, cancelA, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancelA()
	b, cancelB, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancelB()

	change := Change{Collection: Customers, Op: OpCreate, ID: uuid.New(), OwnerUserID: uuid.New(), At: time.Now()}
	require.NoError(t, bus.Publish(context.Background(), change))

	assert.Equal(t, change, <-a)
	assert.Equal(t, change, <-b)
}

func TestLocalBus_CancelClosesChannel(t *testing.T) {
	bus := NewLocalBus()
	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.NoError(t, bus.Publish(context.Background(), Change{Collection: ScanOuts}))
}

func TestLocalBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewLocalBus()
	defer bus.Close()
	_, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, bus.Publish(context.Background(), Change{Collection: PackChecks}))
	}
}

func TestLocalBus_SubscribeAfterClose(t *testing.T) {
	bus := NewLocalBus()
	require.NoError(t, bus.Close())

	_, _, err := bus.Subscribe(context.Background())
	assert.Error(t, err)
}
