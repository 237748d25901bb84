package convex

import (
	"errors"
	"fmt"
)

// ClientError is the closed set of failures surfaced by the SDK. Every
// terminal subscription error and every invocation failure is one of
// [ConvexError], [ServerError] or [InternalError]; callers match the
// concrete kind with [errors.As].
type ClientError interface {
	error
	clientError()
}

// ConvexError reports that the remote function explicitly raised a
// structured application-level error. Data carries the serialized error
// payload exactly as produced by the function.
type ConvexError struct {
	Data string
}

// Error implements the error interface.
func (e *ConvexError) Error() string {
	return fmt.Sprintf("convex error: %s", e.Data)
}

func (e *ConvexError) clientError() {}

// ServerError reports a remote-side failure without a structured payload:
// the function threw an unclassified error, or the transport could not
// complete the call.
type ServerError struct {
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) clientError() {}

// InternalError reports a local failure inside the SDK: a decode failure,
// an argument that could not be encoded, or a subscription that could not
// be initialized before any remote classification was possible.
type InternalError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *InternalError) Unwrap() error {
	return e.Cause
}

func (e *InternalError) clientError() {}

// classifyRemoteError coerces an error returned by a RemoteClient call
// into the ClientError taxonomy. Errors that are already classified pass
// through unchanged; anything else becomes a ServerError.
func classifyRemoteError(err error) error {
	if err == nil {
		return nil
	}
	var classified ClientError
	if errors.As(err, &classified) {
		return err
	}
	return &ServerError{Message: err.Error()}
}
