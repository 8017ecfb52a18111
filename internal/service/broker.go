package service

import (
	"context"
	"log/slog"
	"sync"

	"rag-chat/frontend/internal/model"
)

const subscriberBuffer = 64

// broker fans published updates out to subscribers. Publish never blocks:
// a subscriber whose buffer is full misses the update.
type broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan model.Update
}

func newBroker() *broker {
	return &broker{subs: make(map[int]chan model.Update)}
}

// subscribe registers a subscriber until ctx is done, then closes its channel.
func (b *broker) subscribe(ctx context.Context) <-chan model.Update {
	ch := make(chan model.Update, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *broker) publish(u model.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- u:
		default:
			slog.Warn("Subscriber is too slow, dropping update", "subscriber", id, "kind", u.Kind, "conversation_id", u.ConversationID)
		}
	}
}
