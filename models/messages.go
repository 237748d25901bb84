// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Message types sent by the client over the sync websocket.
const (
	// MessageSubscribe opens a live subscription to a query.
	MessageSubscribe = "subscribe"

	// MessageUnsubscribe closes a previously opened subscription.
	MessageUnsubscribe = "unsubscribe"

	// MessageAuthenticate attaches or clears the bearer token for the
	// connection. It does not affect subscriptions that are already open.
	MessageAuthenticate = "authenticate"
)

// Message types sent by the deployment over the sync websocket.
const (
	// MessageUpdate carries a fresh serialized query result.
	MessageUpdate = "update"

	// MessageError terminates a subscription with a failure.
	MessageError = "error"
)

// ClientMessage is a single frame sent from the SDK to the deployment on
// the sync websocket. Type selects which of the remaining fields are
// meaningful.
type ClientMessage struct {
	// Type is one of MessageSubscribe, MessageUnsubscribe,
	// MessageAuthenticate.
	Type string `json:"type"`

	// SubscriptionID identifies the logical subscription the frame refers
	// to. Set for subscribe and unsubscribe frames.
	SubscriptionID string `json:"subscriptionId,omitempty"`

	// Path is the full name of the query being subscribed to,
	// e.g. "todos:list". Set only for subscribe frames.
	Path string `json:"path,omitempty"`

	// Args carries the query arguments, each value already serialized to
	// its JSON string form. Set only for subscribe frames.
	Args map[string]string `json:"args,omitempty"`

	// Token is the bearer token for authenticate frames. A nil token
	// clears the connection credential.
	Token *string `json:"token,omitempty"`
}

// ServerMessage is a single frame sent from the deployment to the SDK on
// the sync websocket.
type ServerMessage struct {
	// Type is one of MessageUpdate, MessageError.
	Type string `json:"type"`

	// SubscriptionID identifies the subscription the frame belongs to.
	SubscriptionID string `json:"subscriptionId,omitempty"`

	// Value is the serialized query result for update frames.
	Value string `json:"value,omitempty"`

	// Message is a human-readable description for error frames.
	Message string `json:"message,omitempty"`

	// ErrorData carries the serialized application error payload for
	// error frames raised by a ConvexError on the deployment. Nil when
	// the failure has no structured payload.
	ErrorData *string `json:"errorData,omitempty"`
}

// Function call statuses returned by the HTTP function API.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FunctionRequest is the body of POST /api/query, /api/mutation and
// /api/action.
type FunctionRequest struct {
	// Path is the full function name, e.g. "todos:add".
	Path string `json:"path"`

	// Args maps argument names to their serialized JSON values.
	Args map[string]string `json:"args"`

	// Format selects the result encoding. The SDK always requests "json".
	Format string `json:"format,omitempty"`
}

// FunctionResponse is the body returned by the HTTP function API.
type FunctionResponse struct {
	// Status is StatusSuccess or StatusError.
	Status string `json:"status"`

	// Value is the raw serialized function result. Present only on
	// success.
	Value json.RawMessage `json:"value,omitempty"`

	// ErrorMessage describes the failure. Present only on error.
	ErrorMessage string `json:"errorMessage,omitempty"`

	// ErrorData is the serialized application error payload when the
	// function raised a structured error, nil otherwise.
	ErrorData *string `json:"errorData,omitempty"`
}
