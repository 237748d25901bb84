// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package convex

import (
	"context"
	"fmt"
	"sync"
)

// AuthStateKind discriminates the members of [AuthState].
type AuthStateKind int

const (
	// StateUnauthenticated means no credential is attached. This is the
	// initial state and the guaranteed final state after Logout.
	StateUnauthenticated AuthStateKind = 1

	// StateLoading means a login attempt is in flight.
	StateLoading AuthStateKind = 2

	// StateAuthenticated means a credential is attached; Credentials
	// carries the provider payload.
	StateAuthenticated AuthStateKind = 3
)

// String returns a human-readable name for the kind.
func (k AuthStateKind) String() string {
	switch k {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthState is the tagged authentication state published by
// [ClientWithAuth]. Exactly one state is current at any time.
// Credentials is meaningful only when Kind is StateAuthenticated.
type AuthState[T any] struct {
	Kind        AuthStateKind
	Credentials T
}

// Unauthenticated returns the state with no credential attached.
func Unauthenticated[T any]() AuthState[T] {
	return AuthState[T]{Kind: StateUnauthenticated}
}

// Loading returns the state of an in-flight login attempt.
func Loading[T any]() AuthState[T] {
	return AuthState[T]{Kind: StateLoading}
}

// Authenticated returns the state carrying the given credentials.
func Authenticated[T any](credentials T) AuthState[T] {
	return AuthState[T]{Kind: StateAuthenticated, Credentials: credentials}
}

// ClientWithAuth layers an authentication state machine over a [Client].
// It is the single writer of the current [AuthState] and the only
// component that mutates the RemoteClient's credential.
//
// Login, LoginFromCache and Logout are mutually exclusive: an overlapping
// call waits for the one in flight, so listeners always observe complete
// Loading → terminal sequences, never interleaved ones. Auth operations
// are not individually cancellable; ctx is forwarded to the provider and
// the transport.
type ClientWithAuth[T any] struct {
	*Client
	provider AuthProvider[T]

	opMu   sync.Mutex
	states *stateBroadcast[AuthState[T]]
}

// NewClientWithAuth pairs the client with an auth provider. The machine
// starts in StateUnauthenticated.
func NewClientWithAuth[T any](c *Client, provider AuthProvider[T]) *ClientWithAuth[T] {
	return &ClientWithAuth[T]{
		Client:   c,
		provider: provider,
		states:   newStateBroadcast(Unauthenticated[T]()),
	}
}

// Login authenticates interactively through the provider, forwards the
// extracted ID token to the transport, and publishes
// StateAuthenticated. On any failure the machine publishes
// StateUnauthenticated and returns the failure.
func (a *ClientWithAuth[T]) Login(ctx context.Context) (T, error) {
	return a.authenticate(ctx, a.provider.Login)
}

// LoginFromCache is like [ClientWithAuth.Login] but re-establishes a
// previous session without user interaction.
func (a *ClientWithAuth[T]) LoginFromCache(ctx context.Context) (T, error) {
	return a.authenticate(ctx, a.provider.LoginFromCache)
}

func (a *ClientWithAuth[T]) authenticate(ctx context.Context, strategy func(context.Context) (T, error)) (T, error) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	var zero T
	a.states.Set(Loading[T]())

	credentials, err := strategy(ctx)
	if err != nil {
		a.log.Err(err).Msg("login failed")
		a.states.Set(Unauthenticated[T]())
		return zero, fmt.Errorf("error logging in: %w", err)
	}

	token, err := a.provider.ExtractIDToken(credentials)
	if err != nil {
		a.log.Err(err).Msg("error extracting id token")
		a.states.Set(Unauthenticated[T]())
		return zero, fmt.Errorf("error extracting id token: %w", err)
	}

	if err = a.remote.SetAuthToken(ctx, &token); err != nil {
		a.log.Err(err).Msg("error forwarding auth token")
		a.states.Set(Unauthenticated[T]())
		return zero, fmt.Errorf("error forwarding auth token: %w", err)
	}

	// Only after the credential reached the transport is the state
	// allowed to become Authenticated.
	a.states.Set(Authenticated(credentials))
	return credentials, nil
}

// Logout ends the provider session, clears the transport credential, and
// publishes StateUnauthenticated. Logout is best-effort: failures of
// either step are logged but never reported back, and the machine always
// ends unauthenticated.
func (a *ClientWithAuth[T]) Logout(ctx context.Context) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.provider.Logout(ctx); err != nil {
		a.log.Err(err).Msg("error logging out of auth provider")
	}
	if err := a.remote.SetAuthToken(ctx, nil); err != nil {
		a.log.Err(err).Msg("error clearing auth token")
	}

	a.states.Set(Unauthenticated[T]())
}

// AuthStates returns a replay-latest stream of auth states: the current
// state is delivered first, then every transition in order. The channel
// closes when ctx is cancelled.
func (a *ClientWithAuth[T]) AuthStates(ctx context.Context) <-chan AuthState[T] {
	return a.states.Listen(ctx)
}

// CurrentAuthState returns the state the machine is in right now.
func (a *ClientWithAuth[T]) CurrentAuthState() AuthState[T] {
	return a.states.Current()
}
