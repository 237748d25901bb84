// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package remote

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/internal/logger"
	"github.com/MKhiriev/convex-go/models"
)

// Subscribe opens a live subscription to the named query on the shared
// sync connection, dialing it first if necessary.
func (c *Client) Subscribe(ctx context.Context, name string, args map[string]string, sub convex.QuerySubscriber) (convex.SubscriptionHandle, error) {
	conn, err := c.ensureConn(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	conn.addSubscriber(id, sub)

	if err := conn.writeMessage(models.ClientMessage{
		Type:           models.MessageSubscribe,
		SubscriptionID: id,
		Path:           name,
		Args:           args,
	}); err != nil {
		conn.removeSubscriber(id)
		return nil, fmt.Errorf("subscribe frame: %w", err)
	}

	c.log.Debug().Str("query", name).Str("subscription_id", id).Msg("subscription opened")

	return &remoteHandle{conn: conn, id: id, log: c.log}, nil
}

// ensureConn returns the live sync connection, dialing a new one when
// none exists or the previous one has failed.
func (c *Client) ensureConn(ctx context.Context) (*syncConn, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil && !c.conn.isClosed() {
		return c.conn, nil
	}

	wsURL, err := syncURL(c.baseURL)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	conn := &syncConn{
		ws:   ws,
		log:  c.log,
		subs: make(map[string]convex.QuerySubscriber),
	}

	// A fresh connection carries the credential set before it was dialed.
	if token := c.authToken(); token != nil {
		if err := conn.writeMessage(models.ClientMessage{
			Type:  models.MessageAuthenticate,
			Token: token,
		}); err != nil {
			_ = ws.Close()
			return nil, fmt.Errorf("authenticate frame: %w", err)
		}
	}

	go conn.readLoop()

	c.conn = conn
	return conn, nil
}

// syncURL derives the websocket endpoint from the deployment base URL.
func syncURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse deployment URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported deployment URL scheme %q", u.Scheme)
	}
	u.Path = "/api/sync"
	return u.String(), nil
}

// syncConn is one websocket connection to /api/sync shared by all live
// subscriptions of a Client.
type syncConn struct {
	ws  *websocket.Conn
	log *logger.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	subs   map[string]convex.QuerySubscriber
	closed bool
}

func (s *syncConn) addSubscriber(id string, sub convex.QuerySubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id] = sub
}

// removeSubscriber detaches the subscriber and reports whether it was
// still registered.
func (s *syncConn) removeSubscriber(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[id]
	delete(s.subs, id)
	return ok
}

func (s *syncConn) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *syncConn) writeMessage(msg models.ClientMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ws.WriteJSON(msg)
}

func (s *syncConn) close() error {
	return s.ws.Close()
}

// readLoop dispatches server frames to their subscribers. It runs until
// the connection fails, then reports the loss to every remaining
// subscriber. Running on a single goroutine keeps callbacks of one
// subscription serial.
func (s *syncConn) readLoop() {
	for {
		var msg models.ServerMessage
		if err := s.ws.ReadJSON(&msg); err != nil {
			s.fail(err)
			return
		}

		switch msg.Type {
		case models.MessageUpdate:
			s.mu.Lock()
			sub := s.subs[msg.SubscriptionID]
			s.mu.Unlock()
			if sub != nil {
				sub.OnUpdate(msg.Value)
			}

		case models.MessageError:
			s.mu.Lock()
			sub := s.subs[msg.SubscriptionID]
			delete(s.subs, msg.SubscriptionID)
			s.mu.Unlock()
			if sub != nil {
				sub.OnError(msg.Message, msg.ErrorData)
			}

		default:
			s.log.Warn().Str("type", msg.Type).Msg("unknown sync frame")
		}
	}
}

// fail marks the connection dead and ends every remaining subscription
// with a connection-loss error.
func (s *syncConn) fail(cause error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	failed := s.subs
	s.subs = make(map[string]convex.QuerySubscriber)
	s.mu.Unlock()

	_ = s.ws.Close()

	if len(failed) > 0 {
		s.log.Warn().Err(cause).Int("subscriptions", len(failed)).Msg("sync connection lost")
	}
	for _, sub := range failed {
		sub.OnError(fmt.Sprintf("connection lost: %v", cause), nil)
	}
}

// remoteHandle owns one remote subscription on a syncConn.
type remoteHandle struct {
	conn *syncConn
	id   string
	log  *logger.Logger

	once sync.Once
}

// Cancel detaches the subscriber and tells the deployment to stop the
// query. Idempotent; a handle whose subscription already ended remotely
// skips the unsubscribe frame.
func (h *remoteHandle) Cancel() {
	h.once.Do(func() {
		if !h.conn.removeSubscriber(h.id) {
			return
		}
		if err := h.conn.writeMessage(models.ClientMessage{
			Type:           models.MessageUnsubscribe,
			SubscriptionID: h.id,
		}); err != nil {
			h.log.Debug().Err(err).Str("subscription_id", h.id).Msg("unsubscribe frame failed")
		}
	})
}
