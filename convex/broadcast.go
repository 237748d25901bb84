package convex

import (
	"context"
	"sync"
)

// stateBroadcast is a replay-latest broadcast cell: it always holds a
// current value, every new listener receives that value first, and
// subsequent values are fanned out to all listeners in order. A listener
// that falls behind loses the oldest buffered value, never the newest,
// so the writer is never blocked by a slow reader.
type stateBroadcast[T any] struct {
	mu        sync.Mutex
	current   T
	listeners map[int]chan T
	nextID    int
}

const listenerBuffer = 16

func newStateBroadcast[T any](initial T) *stateBroadcast[T] {
	return &stateBroadcast[T]{
		current:   initial,
		listeners: make(map[int]chan T),
	}
}

// Current returns the most recently set value.
func (b *stateBroadcast[T]) Current() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Set replaces the current value and fans it out to every listener.
func (b *stateBroadcast[T]) Set(value T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = value
	for _, ch := range b.listeners {
		send(ch, value)
	}
}

// Listen registers a new listener whose lifetime is bound to ctx. The
// channel immediately carries the current value, then every subsequent
// Set in order. The channel is closed when ctx is cancelled; with a
// non-cancellable ctx the listener lives as long as the broadcast.
func (b *stateBroadcast[T]) Listen(ctx context.Context) <-chan T {
	ch := make(chan T, listenerBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = ch
	ch <- b.current
	b.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			b.mu.Lock()
			delete(b.listeners, id)
			close(ch)
			b.mu.Unlock()
		}()
	}

	return ch
}

// send delivers latest-wins: when the listener's buffer is full the
// oldest entry is dropped to make room.
func send[T any](ch chan T, value T) {
	for {
		select {
		case ch <- value:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
