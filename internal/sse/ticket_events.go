package sse

import (
	"context"
	"sync"

	"cinema-ticketing/internal/models"
)

const clientBuffer = 10

// TicketEventEmitter broadcasts TicketIssued events to connected stream
// clients. Clients subscribe to one movie, or to every movie with "".
type TicketEventEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.TicketIssuedEvent
}

func NewTicketEventEmitter() *TicketEventEmitter {
	return &TicketEventEmitter{
		clients: make(map[string][]chan models.TicketIssuedEvent),
	}
}

// Subscribe registers a client until ctx is done, after which the returned
// channel is closed.
func (e *TicketEventEmitter) Subscribe(ctx context.Context, movie string) <-chan models.TicketIssuedEvent {
	ch := make(chan models.TicketIssuedEvent, clientBuffer)

	e.mu.Lock()
	e.clients[movie] = append(e.clients[movie], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(movie, ch)
	}()

	return ch
}

// PublishTicketIssued never blocks: a client whose buffer is full misses
// the event.
func (e *TicketEventEmitter) PublishTicketIssued(_ context.Context, event models.TicketIssuedEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, key := range []string{"", event.MovieTitle} {
		for _, ch := range e.clients[key] {
			select {
			case ch <- event:
			default:
			}
		}
	}
	return nil
}

func (e *TicketEventEmitter) remove(movie string, ch chan models.TicketIssuedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[movie]
	for i, c := range clients {
		if c == ch {
			e.clients[movie] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[movie]) == 0 {
		delete(e.clients, movie)
	}
}

// ClientCount reports subscribers for movie ("" counts the catch-all ones).
func (e *TicketEventEmitter) ClientCount(movie string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[movie])
}
