// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/internal/logger"
	"github.com/MKhiriev/convex-go/models"
)

// Config holds the settings of one deployment connection.
type Config struct {
	// DeploymentURL is the deployment base URL,
	// e.g. "https://happy-otter-123.convex.cloud".
	DeploymentURL string

	// RequestTimeout bounds a single one-shot function call. Defaults to
	// 15 seconds when zero.
	RequestTimeout time.Duration

	// Logger receives transport-level diagnostics. Defaults to a no-op
	// logger when nil.
	Logger *logger.Logger
}

// Client is the default [convex.RemoteClient]. It is safe for concurrent
// use by any number of subscriptions and function calls.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *logger.Logger

	mu    sync.RWMutex
	token *string

	connMu sync.Mutex
	conn   *syncConn
}

var _ convex.RemoteClient = (*Client)(nil)

// NewClient builds a Client for the deployment described by cfg. Returns
// an error if the deployment URL is empty.
func NewClient(cfg Config) (*Client, error) {
	if cfg.DeploymentURL == "" {
		return nil, fmt.Errorf("remote: deployment URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	baseURL := strings.TrimRight(cfg.DeploymentURL, "/")
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &Client{
		http:    cli,
		baseURL: baseURL,
		log:     log,
	}, nil
}

// CallFunction executes one function over the HTTP function API and
// returns the raw serialized result.
func (c *Client) CallFunction(ctx context.Context, kind models.FunctionKind, name string, args map[string]string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid function kind %d", int(kind))
	}

	body := models.FunctionRequest{
		Path:   name,
		Args:   args,
		Format: "json",
	}

	resp, err := c.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/" + kind.String())
	if err != nil {
		return "", fmt.Errorf("%s request: %w", kind, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var fr models.FunctionResponse
	if err = json.Unmarshal(resp.Body(), &fr); err != nil {
		return "", fmt.Errorf("decode %s response: %w", kind, err)
	}

	if fr.Status == models.StatusError {
		if fr.ErrorData != nil {
			return "", &convex.ConvexError{Data: *fr.ErrorData}
		}
		return "", &convex.ServerError{Message: fr.ErrorMessage}
	}

	return string(fr.Value), nil
}

// SetAuthToken stores the bearer token for all subsequent HTTP calls and,
// when the sync connection is open, pushes an authenticate frame so that
// new subscriptions carry the new credential. Subscriptions that are
// already open are not re-authenticated.
func (c *Client) SetAuthToken(ctx context.Context, token *string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return nil
	}

	if err := conn.writeMessage(models.ClientMessage{
		Type:  models.MessageAuthenticate,
		Token: token,
	}); err != nil {
		return fmt.Errorf("authenticate frame: %w", err)
	}
	return nil
}

// Close tears down the sync connection, if any. Open subscriptions
// observe a connection-loss error. One-shot calls remain usable.
func (c *Client) Close() error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.close()
}

func (c *Client) authedRequest(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.authToken(); token != nil {
		req.SetHeader("Authorization", "Bearer "+*token)
	}
	return req
}

func (c *Client) authToken() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
