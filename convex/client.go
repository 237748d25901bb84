package convex

import (
	"errors"

	"github.com/MKhiriev/convex-go/internal/logger"
)

// Client is the entry point of the SDK. It holds the shared RemoteClient
// every subscription and invocation goes through. Construct one Client
// per deployment and share it freely; all methods are safe for
// concurrent use.
type Client struct {
	remote RemoteClient
	log    *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithLogger routes the SDK's diagnostics to the given logger. Without
// this option the SDK is silent.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient wraps the given RemoteClient. The remote is constructed and
// owned by the caller so that several independent clients can coexist,
// e.g. in tests.
func NewClient(remote RemoteClient, opts ...Option) (*Client, error) {
	if remote == nil {
		return nil, errors.New("remote client is required")
	}

	c := &Client{
		remote: remote,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}
