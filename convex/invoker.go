// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package convex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/convex-go/models"
)

// Mutation executes the named mutation exactly once and decodes its JSON
// result into T. There are no hidden retries; retry policy belongs to
// the RemoteClient. Returns one of the [ClientError] kinds on failure.
func Mutation[T any](ctx context.Context, c *Client, name string, args map[string]any) (T, error) {
	return invoke[T](ctx, c, models.Mutation, name, args, decodeJSON[T])
}

// MutationVoid executes the named mutation and discards its result. Use
// it for mutations whose return value is a textual placeholder.
func MutationVoid(ctx context.Context, c *Client, name string, args map[string]any) error {
	_, err := invoke[struct{}](ctx, c, models.Mutation, name, args, discardResult)
	return err
}

// Action executes the named action exactly once and decodes its JSON
// result into T. Returns one of the [ClientError] kinds on failure.
func Action[T any](ctx context.Context, c *Client, name string, args map[string]any) (T, error) {
	return invoke[T](ctx, c, models.Action, name, args, decodeJSON[T])
}

// ActionVoid executes the named action and discards its result.
func ActionVoid(ctx context.Context, c *Client, name string, args map[string]any) error {
	_, err := invoke[struct{}](ctx, c, models.Action, name, args, discardResult)
	return err
}

// invoke is the single sequencing path for one-shot calls: serialize the
// arguments, call the remote, decode the raw result.
func invoke[T any](ctx context.Context, c *Client, kind models.FunctionKind, name string, args map[string]any, decode func(raw string) (T, error)) (T, error) {
	var zero T

	encoded, err := encodeArgs(args)
	if err != nil {
		return zero, &InternalError{Message: fmt.Sprintf("error encoding arguments for %q", name), Cause: err}
	}

	raw, err := c.remote.CallFunction(ctx, kind, name, encoded)
	if err != nil {
		c.log.Err(err).Str("function", name).Str("kind", kind.String()).Msg("remote call failed")
		return zero, classifyRemoteError(err)
	}

	result, err := decode(raw)
	if err != nil {
		return zero, &InternalError{Message: fmt.Sprintf("error decoding %s result for %q", kind, name), Cause: err}
	}

	return result, nil
}

func decodeJSON[T any](raw string) (T, error) {
	var value T
	err := json.Unmarshal([]byte(raw), &value)
	return value, err
}

func discardResult(string) (struct{}, error) {
	return struct{}{}, nil
}
