package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-ticketing/internal/models"
)

func event(movie, seat string) models.TicketIssuedEvent {
	return models.TicketIssuedEvent{MovieTitle: movie, SeatIdentifier: seat}
}

func TestSubscribersReceiveMatchingEvents(t *testing.T) {
	e := NewTicketEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all := e.Subscribe(ctx, "")
	frozen := e.Subscribe(ctx, "Frozen")

	require.NoError(t, e.PublishTicketIssued(ctx, event("Batman", "A1")))
	require.NoError(t, e.PublishTicketIssued(ctx, event("Frozen", "A2")))

	assert.Equal(t, "A1", (<-all).SeatIdentifier)
	assert.Equal(t, "A2", (<-all).SeatIdentifier)
	assert.Equal(t, "A2", (<-frozen).SeatIdentifier)
	assert.Empty(t, frozen)
}

func TestFullBufferDropsEvents(t *testing.T) {
	e := NewTicketEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := e.Subscribe(ctx, "")
	for i := 0; i < clientBuffer+5; i++ {
		require.NoError(t, e.PublishTicketIssued(ctx, event("Frozen", "A1")))
	}
	assert.Len(t, ch, clientBuffer)
}

func TestCancelUnsubscribes(t *testing.T) {
	e := NewTicketEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())

	ch := e.Subscribe(ctx, "Batman")
	assert.Equal(t, 1, e.ClientCount("Batman"))

	cancel()
	assert.Eventually(t, func() bool { return e.ClientCount("Batman") == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, e.PublishTicketIssued(context.Background(), event("Batman", "A3")))
}
