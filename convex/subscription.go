// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package convex

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Subscription is a live, typed stream of results for one query. It is
// bound to exactly one remote subscription: cancelling and subscribing
// again are two independent lifecycles.
//
// Values arrive on Updates in the order the deployment produced them,
// one at a time; the next value is not dispatched until the consumer has
// received the previous one. The channel is closed when the stream ends,
// after which Err reports the terminal failure (nil when the consumer
// cancelled).
//
// Always release the subscription with Cancel, typically via defer.
// Cancel is idempotent and safe to call after the stream has already
// ended.
type Subscription[T any] struct {
	name    string
	updates chan T
	done    chan struct{}

	mu              sync.Mutex
	handle          SubscriptionHandle
	handleCancelled bool
	cancelled       bool
	ended           bool
	err             error

	doneOnce sync.Once
}

// Subscribe opens a live subscription to the named query and decodes
// every result from its JSON form into T. Arguments may be nil.
//
// The call returns immediately; the remote subscription is established
// asynchronously. Initialization failures surface as a terminal
// [InternalError] on the stream. Cancelling ctx cancels the
// subscription.
func Subscribe[T any](ctx context.Context, c *Client, name string, args map[string]any) *Subscription[T] {
	return SubscribeWith(ctx, c, name, args, decodeJSON[T])
}

// SubscribeWith is like [Subscribe] but decodes each raw serialized
// result with the supplied decode function. A decode failure terminates
// the stream with an [InternalError]; the remote subscription itself is
// released through the usual Cancel path.
func SubscribeWith[T any](ctx context.Context, c *Client, name string, args map[string]any, decode func(raw string) (T, error)) *Subscription[T] {
	s := &Subscription[T]{
		name:    name,
		updates: make(chan T),
		done:    make(chan struct{}),
	}

	go s.open(ctx, c, args, decode)

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Cancel()
			case <-s.done:
			}
		}()
	}

	return s
}

// Updates returns the stream of decoded query results. The channel is
// closed when the stream ends; consult Err afterwards.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Err returns the terminal error of the stream: a [ConvexError] or
// [ServerError] reported by the deployment, an [InternalError] for a
// local failure, or nil while the stream is live or after a
// consumer-driven cancel.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel ends the stream and tears down the remote subscription. The
// remote handle is cancelled exactly once even when Cancel races the
// in-flight initialization: a cancel that arrives first is recorded and
// honoured as soon as the open resolves.
func (s *Subscription[T]) Cancel() {
	// Unblock a delivery in flight before taking the lock; the delivering
	// callback holds it while waiting for the consumer.
	s.closeDone()

	s.mu.Lock()
	s.cancelled = true
	if !s.ended {
		s.ended = true
		close(s.updates)
	}
	handle := s.handle
	cancelNow := handle != nil && !s.handleCancelled
	if cancelNow {
		s.handleCancelled = true
	}
	s.mu.Unlock()

	if cancelNow {
		handle.Cancel()
	}
}

// open serializes the arguments and establishes the remote subscription.
// Runs on its own goroutine so the Subscribe call never blocks.
func (s *Subscription[T]) open(ctx context.Context, c *Client, args map[string]any, decode func(raw string) (T, error)) {
	encoded, err := encodeArgs(args)
	if err != nil {
		s.mu.Lock()
		s.terminateLocked(&InternalError{Message: fmt.Sprintf("error encoding arguments for %q", s.name), Cause: err})
		s.mu.Unlock()
		return
	}

	handle, err := c.remote.Subscribe(ctx, s.name, encoded, &querySubscriber[T]{sub: s, decode: decode})
	if err != nil {
		c.log.Err(err).Str("query", s.name).Msg("error opening subscription")
		s.mu.Lock()
		s.terminateLocked(&InternalError{Message: fmt.Sprintf("error opening subscription to %q", s.name), Cause: err})
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.handle = handle
	cancelNow := s.cancelled && !s.handleCancelled
	if cancelNow {
		s.handleCancelled = true
	}
	s.mu.Unlock()

	if cancelNow {
		handle.Cancel()
	}
}

// terminateLocked ends the stream with a terminal error. The remote
// handle is deliberately left alone: teardown is always driven by the
// Cancel path. Caller must hold s.mu.
func (s *Subscription[T]) terminateLocked(err error) {
	if s.ended {
		return
	}
	s.ended = true
	s.err = err
	close(s.updates)
	s.closeDone()
}

func (s *Subscription[T]) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// querySubscriber adapts the remote callback pair onto one subscription.
// The subscription mutex is held for the duration of each callback, so
// updates and errors arriving from arbitrary goroutines are serialized
// and delivered without reordering or overlap.
type querySubscriber[T any] struct {
	sub    *Subscription[T]
	decode func(raw string) (T, error)
}

func (q *querySubscriber[T]) OnUpdate(raw string) {
	s := q.sub
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	value, err := q.decode(raw)
	if err != nil {
		s.terminateLocked(&InternalError{Message: fmt.Sprintf("error decoding update for %q", s.name), Cause: err})
		return
	}

	// Blocks until the consumer takes the value or the stream ends;
	// this is what makes delivery at-most-one-in-flight.
	select {
	case s.updates <- value:
	case <-s.done:
	}
}

func (q *querySubscriber[T]) OnError(message string, errorData *string) {
	s := q.sub
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	if errorData != nil {
		s.terminateLocked(&ConvexError{Data: *errorData})
		return
	}
	s.terminateLocked(&ServerError{Message: message})
}

// encodeArgs serializes each argument value independently so an encode
// failure is attributable to the argument that caused it.
func encodeArgs(args map[string]any) (map[string]string, error) {
	encoded := make(map[string]string, len(args))
	for name, value := range args {
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("error encoding argument %q: %w", name, err)
		}
		encoded[name] = string(payload)
	}
	return encoded, nil
}
