// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package convextest provides an in-process fake Convex deployment for
// tests. It serves the HTTP function API and the sync websocket on a
// httptest server, with handlers registered per function name.
package convextest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/models"
)

// HandlerFunc implements one fake Convex function. It receives the
// serialized argument map and returns the serialized result. Returning a
// [convex.ConvexError] produces a structured application error on the
// wire; any other error produces a plain server error.
type HandlerFunc func(args map[string]string) (string, error)

// Deployment is a fake Convex deployment running on an in-process HTTP
// server. Safe for concurrent use.
type Deployment struct {
	// URL is the deployment base URL to point clients at.
	URL string

	server   *httptest.Server
	upgrader websocket.Upgrader

	mu        sync.Mutex
	functions map[models.FunctionKind]map[string]HandlerFunc
	sessions  map[*wsSession]struct{}

	lastToken      *string
	lastAuthHeader string
}

// NewDeployment starts a fake deployment. Call Close when done.
func NewDeployment() *Deployment {
	d := &Deployment{
		functions: map[models.FunctionKind]map[string]HandlerFunc{
			models.Query:    {},
			models.Mutation: {},
			models.Action:   {},
		},
		sessions: make(map[*wsSession]struct{}),
	}

	r := chi.NewRouter()
	r.Post("/api/query", d.functionHandler(models.Query))
	r.Post("/api/mutation", d.functionHandler(models.Mutation))
	r.Post("/api/action", d.functionHandler(models.Action))
	r.Get("/api/sync", d.syncHandler)

	d.server = httptest.NewServer(r)
	d.URL = d.server.URL
	return d
}

// Close shuts the deployment down, dropping all sync connections.
func (d *Deployment) Close() {
	d.mu.Lock()
	for s := range d.sessions {
		_ = s.conn.Close()
	}
	d.mu.Unlock()

	d.server.Close()
}

// HandleQuery registers the handler backing the named query for both
// one-shot calls and subscriptions.
func (d *Deployment) HandleQuery(name string, fn HandlerFunc) {
	d.register(models.Query, name, fn)
}

// HandleMutation registers the handler backing the named mutation.
func (d *Deployment) HandleMutation(name string, fn HandlerFunc) {
	d.register(models.Mutation, name, fn)
}

// HandleAction registers the handler backing the named action.
func (d *Deployment) HandleAction(name string, fn HandlerFunc) {
	d.register(models.Action, name, fn)
}

func (d *Deployment) register(kind models.FunctionKind, name string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.functions[kind][name] = fn
}

// Publish pushes a new serialized value to every live subscription of the
// named query.
func (d *Deployment) Publish(name, value string) {
	for _, target := range d.subscriptionsOf(name) {
		target.session.send(models.ServerMessage{
			Type:           models.MessageUpdate,
			SubscriptionID: target.id,
			Value:          value,
		})
	}
}

// FailSubscriptions ends every live subscription of the named query with
// an error frame.
func (d *Deployment) FailSubscriptions(name, message string, errorData *string) {
	for _, target := range d.subscriptionsOf(name) {
		target.session.end(target.id)
		target.session.send(models.ServerMessage{
			Type:           models.MessageError,
			SubscriptionID: target.id,
			Message:        message,
			ErrorData:      errorData,
		})
	}
}

// ActiveSubscriptions reports how many live subscriptions the named query
// currently has.
func (d *Deployment) ActiveSubscriptions(name string) int {
	return len(d.subscriptionsOf(name))
}

// LastToken returns the token carried by the most recent authenticate
// frame, or nil if none arrived (or the last frame cleared it).
func (d *Deployment) LastToken() *string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastToken
}

// LastAuthHeader returns the Authorization header of the most recent
// function call, empty if the call carried none.
func (d *Deployment) LastAuthHeader() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAuthHeader
}

type subscriptionTarget struct {
	session *wsSession
	id      string
}

func (d *Deployment) subscriptionsOf(name string) []subscriptionTarget {
	d.mu.Lock()
	defer d.mu.Unlock()

	var targets []subscriptionTarget
	for s := range d.sessions {
		for _, id := range s.subscriptionIDs(name) {
			targets = append(targets, subscriptionTarget{session: s, id: id})
		}
	}
	return targets
}

func (d *Deployment) functionHandler(kind models.FunctionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.lastAuthHeader = r.Header.Get("Authorization")
		d.mu.Unlock()

		var req models.FunctionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		d.mu.Lock()
		fn := d.functions[kind][req.Path]
		d.mu.Unlock()

		var resp models.FunctionResponse
		switch {
		case fn == nil:
			resp = models.FunctionResponse{
				Status:       models.StatusError,
				ErrorMessage: "no such function: " + req.Path,
			}
		default:
			value, err := fn(req.Args)
			resp = functionResponse(value, err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func functionResponse(value string, err error) models.FunctionResponse {
	if err == nil {
		return models.FunctionResponse{
			Status: models.StatusSuccess,
			Value:  json.RawMessage(value),
		}
	}

	var appErr *convex.ConvexError
	if errors.As(err, &appErr) {
		data := appErr.Data
		return models.FunctionResponse{
			Status:       models.StatusError,
			ErrorMessage: "application error",
			ErrorData:    &data,
		}
	}
	return models.FunctionResponse{
		Status:       models.StatusError,
		ErrorMessage: err.Error(),
	}
}

func (d *Deployment) syncHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	session := &wsSession{
		conn: conn,
		subs: make(map[string]string),
	}

	d.mu.Lock()
	d.sessions[session] = struct{}{}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.sessions, session)
		d.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		var msg models.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case models.MessageSubscribe:
			session.open(msg.SubscriptionID, msg.Path)
			d.deliverInitial(session, msg)

		case models.MessageUnsubscribe:
			session.end(msg.SubscriptionID)

		case models.MessageAuthenticate:
			d.mu.Lock()
			d.lastToken = msg.Token
			d.mu.Unlock()
		}
	}
}

// deliverInitial runs the subscribed query once and pushes the result,
// mirroring the initial snapshot a real deployment sends.
func (d *Deployment) deliverInitial(session *wsSession, msg models.ClientMessage) {
	d.mu.Lock()
	fn := d.functions[models.Query][msg.Path]
	d.mu.Unlock()

	if fn == nil {
		session.end(msg.SubscriptionID)
		session.send(models.ServerMessage{
			Type:           models.MessageError,
			SubscriptionID: msg.SubscriptionID,
			Message:        "no such query: " + msg.Path,
		})
		return
	}

	value, err := fn(msg.Args)
	if err != nil {
		resp := functionResponse(value, err)
		session.end(msg.SubscriptionID)
		session.send(models.ServerMessage{
			Type:           models.MessageError,
			SubscriptionID: msg.SubscriptionID,
			Message:        resp.ErrorMessage,
			ErrorData:      resp.ErrorData,
		})
		return
	}

	session.send(models.ServerMessage{
		Type:           models.MessageUpdate,
		SubscriptionID: msg.SubscriptionID,
		Value:          value,
	})
}

// wsSession is one sync websocket connection from a client.
type wsSession struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu   sync.Mutex
	subs map[string]string // subscription ID -> query path
}

func (s *wsSession) open(id, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[id] = path
}

func (s *wsSession) end(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *wsSession) subscriptionIDs(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, p := range s.subs {
		if p == path {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *wsSession) send(msg models.ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.WriteJSON(msg)
}
