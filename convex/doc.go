// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package convex is the core of the Convex client SDK: it turns the
// callback-driven subscription primitive of a [RemoteClient] into
// cancellable typed streams, drives one-shot mutation and action calls,
// and owns the authentication state machine.
//
// The package is transport-agnostic. A [RemoteClient] implementation
// (see the remote package for the default one) is constructed by the
// application and passed to [NewClient]; the same instance may be shared
// by any number of subscriptions and by the auth machine.
//
// Live queries are consumed through [Subscribe] or [SubscribeWith]:
//
//	sub := convex.Subscribe[[]Todo](ctx, client, "todos:list", nil)
//	defer sub.Cancel()
//	for todos := range sub.Updates() {
//	    render(todos)
//	}
//	if err := sub.Err(); err != nil {
//	    // stream ended with a terminal failure
//	}
//
// One-shot calls go through [Mutation], [Action] and their no-result
// variants. Authentication is layered on top with [NewClientWithAuth]
// and a caller-supplied [AuthProvider].
//
// Every failure surfaced by this package is one of the three error kinds
// defined in errors.go: [ConvexError], [ServerError], [InternalError].
package convex
