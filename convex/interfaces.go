// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package convex

import (
	"context"

	"github.com/MKhiriev/convex-go/models"
)

//go:generate mockgen -source=interfaces.go -destination=../internal/mock/convex_mock.go -package=mock

// RemoteClient defines the transport boundary of the SDK. Implementations
// are responsible for the wire protocol, connection management, and retry
// policy; the SDK never retries on its own.
//
// A single RemoteClient instance is shared by all subscriptions opened
// through it and by the auth state machine. Implementations must be safe
// for concurrent use.
type RemoteClient interface {
	// Subscribe opens a live subscription to the named query with the
	// given pre-serialized arguments. Updates and failures are delivered
	// through sub; delivery may happen on any goroutine. Returns a handle
	// owning the remote subscription, or an error if the subscription
	// could not be established (unknown name, malformed args, transport
	// failure).
	Subscribe(ctx context.Context, name string, args map[string]string, sub QuerySubscriber) (SubscriptionHandle, error)

	// CallFunction executes the named function of the given kind exactly
	// once and returns the raw serialized result. Returns an error if the
	// call could not be delivered or the function failed.
	CallFunction(ctx context.Context, kind models.FunctionKind, name string, args map[string]string) (string, error)

	// SetAuthToken attaches the bearer token to all subsequent calls made
	// through this client, or clears it when token is nil. Subscriptions
	// that are already open keep the credential context they were opened
	// with.
	SetAuthToken(ctx context.Context, token *string) error
}

// QuerySubscriber receives the updates of one remote subscription.
// OnUpdate and OnError are never invoked concurrently for the same
// subscription, but may be invoked from any goroutine.
type QuerySubscriber interface {
	// OnUpdate delivers a fresh serialized query result.
	OnUpdate(raw string)

	// OnError reports a remote-side failure and ends the subscription.
	// errorData carries the serialized application error payload when the
	// query raised a structured error, and is nil otherwise. No further
	// callbacks follow an OnError.
	OnError(message string, errorData *string)
}

// SubscriptionHandle represents one live remote subscription. It is owned
// exclusively by the subscription that created it.
type SubscriptionHandle interface {
	// Cancel tears down the remote subscription. It is idempotent and
	// safe to call after the subscription has already ended naturally.
	Cancel()
}

// AuthProvider supplies the credential operations of one authentication
// backend. T is the provider's credential payload (e.g. token claims plus
// profile data); the SDK treats it as opaque except for extracting the ID
// token.
//
// Implementations backed by different identity services are selected by
// constructing the matching provider, not by subclassing; see the
// authcache package for a caching decorator.
type AuthProvider[T any] interface {
	// Login performs an interactive authentication attempt and returns
	// the credential payload.
	Login(ctx context.Context) (T, error)

	// LoginFromCache re-establishes a previous session without user
	// interaction, e.g. from tokens stored on the device. Returns an
	// error if no reusable session exists.
	LoginFromCache(ctx context.Context) (T, error)

	// Logout terminates the provider-side session.
	Logout(ctx context.Context) error

	// ExtractIDToken returns the compact identity token carried inside
	// the credential payload, ready to be attached to the transport.
	ExtractIDToken(credentials T) (string, error)
}
