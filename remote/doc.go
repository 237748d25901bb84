// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package remote provides the default transport implementation of
// [convex.RemoteClient] for Convex deployments.
//
// One-shot function calls go over HTTP (POST /api/query, /api/mutation,
// /api/action). Live query subscriptions go over a single websocket
// connection to /api/sync that is dialed lazily on the first Subscribe
// and shared by all subsequent subscriptions.
//
// Remote failures reported by the function API are mapped to the error
// taxonomy of the convex package: structured application errors become
// [convex.ConvexError], everything else surfaces as a plain error that
// the SDK classifies as [convex.ServerError].
package remote
