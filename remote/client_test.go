// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/convextest"
	"github.com/MKhiriev/convex-go/models"
)

func newTestClient(t *testing.T, deploymentURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{DeploymentURL: deploymentURL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// recordingSubscriber captures callbacks for assertions.
type recordingSubscriber struct {
	updates chan string
	errs    chan subscriberError
}

type subscriberError struct {
	message   string
	errorData *string
}

func newRecordingSubscriber() *recordingSubscriber {
	return &recordingSubscriber{
		updates: make(chan string, 16),
		errs:    make(chan subscriberError, 16),
	}
}

func (r *recordingSubscriber) OnUpdate(raw string) {
	r.updates <- raw
}

func (r *recordingSubscriber) OnError(message string, errorData *string) {
	r.errs <- subscriberError{message: message, errorData: errorData}
}

func (r *recordingSubscriber) waitUpdate(t *testing.T) string {
	t.Helper()
	select {
	case v := <-r.updates:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return ""
	}
}

func (r *recordingSubscriber) waitError(t *testing.T) subscriberError {
	t.Helper()
	select {
	case e := <-r.errs:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
		return subscriberError{}
	}
}

// ── NewClient ───────────────────────────────────────────────────────────────

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

// ── CallFunction ────────────────────────────────────────────────────────────

func TestCallFunction_Success(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleMutation("todos:add", func(args map[string]string) (string, error) {
		assert.Equal(t, `"buy milk"`, args["text"])
		return `"ok"`, nil
	})

	c := newTestClient(t, d.URL)
	got, err := c.CallFunction(context.Background(), models.Mutation, "todos:add", map[string]string{"text": `"buy milk"`})

	require.NoError(t, err)
	assert.Equal(t, `"ok"`, got)
}

func TestCallFunction_ApplicationError(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleMutation("todos:add", func(args map[string]string) (string, error) {
		return "", &convex.ConvexError{Data: `{"code":"DUPLICATE"}`}
	})

	c := newTestClient(t, d.URL)
	_, err := c.CallFunction(context.Background(), models.Mutation, "todos:add", nil)

	var appErr *convex.ConvexError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, `{"code":"DUPLICATE"}`, appErr.Data)
}

func TestCallFunction_ServerError(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleAction("mail:send", func(args map[string]string) (string, error) {
		return "", errors.New("smtp unreachable")
	})

	c := newTestClient(t, d.URL)
	_, err := c.CallFunction(context.Background(), models.Action, "mail:send", nil)

	var srvErr *convex.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "smtp unreachable", srvErr.Message)
}

func TestCallFunction_UnknownFunction(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	c := newTestClient(t, d.URL)
	_, err := c.CallFunction(context.Background(), models.Query, "missing:fn", nil)

	var srvErr *convex.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Contains(t, srvErr.Message, "missing:fn")
}

func TestCallFunction_InvalidKind(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	c := newTestClient(t, d.URL)
	_, err := c.CallFunction(context.Background(), models.FunctionKind(0), "todos:add", nil)

	require.Error(t, err)
}

func TestCallFunction_AuthHeader(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("me:profile", func(args map[string]string) (string, error) {
		return `{"name":"alice"}`, nil
	})

	c := newTestClient(t, d.URL)

	token := "id-token-123"
	require.NoError(t, c.SetAuthToken(context.Background(), &token))

	_, err := c.CallFunction(context.Background(), models.Query, "me:profile", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer id-token-123", d.LastAuthHeader())

	// Clearing the token drops the header again.
	require.NoError(t, c.SetAuthToken(context.Background(), nil))
	_, err = c.CallFunction(context.Background(), models.Query, "me:profile", nil)
	require.NoError(t, err)
	assert.Empty(t, d.LastAuthHeader())
}

// ── Subscribe ───────────────────────────────────────────────────────────────

func TestSubscribe_InitialAndPublishedUpdates(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "todos:list", nil, sub)
	require.NoError(t, err)
	defer handle.Cancel()

	assert.Equal(t, `[]`, sub.waitUpdate(t))

	d.Publish("todos:list", `[{"text":"buy milk"}]`)
	assert.Equal(t, `[{"text":"buy milk"}]`, sub.waitUpdate(t))
}

func TestSubscribe_ErrorFrame(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "todos:list", nil, sub)
	require.NoError(t, err)
	defer handle.Cancel()

	sub.waitUpdate(t)

	data := `{"code":"GONE"}`
	d.FailSubscriptions("todos:list", "query failed", &data)

	got := sub.waitError(t)
	assert.Equal(t, "query failed", got.message)
	require.NotNil(t, got.errorData)
	assert.Equal(t, data, *got.errorData)
}

func TestSubscribe_SharedConnection(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})
	d.HandleQuery("me:profile", func(args map[string]string) (string, error) {
		return `{"name":"alice"}`, nil
	})

	c := newTestClient(t, d.URL)

	first := newRecordingSubscriber()
	h1, err := c.Subscribe(context.Background(), "todos:list", nil, first)
	require.NoError(t, err)
	defer h1.Cancel()

	second := newRecordingSubscriber()
	h2, err := c.Subscribe(context.Background(), "me:profile", nil, second)
	require.NoError(t, err)
	defer h2.Cancel()

	assert.Equal(t, `[]`, first.waitUpdate(t))
	assert.Equal(t, `{"name":"alice"}`, second.waitUpdate(t))

	d.Publish("todos:list", `["a"]`)
	assert.Equal(t, `["a"]`, first.waitUpdate(t))
}

func TestSubscribe_CancelUnsubscribes(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "todos:list", nil, sub)
	require.NoError(t, err)

	sub.waitUpdate(t)
	require.Equal(t, 1, d.ActiveSubscriptions("todos:list"))

	handle.Cancel()
	handle.Cancel() // idempotent

	assert.Eventually(t, func() bool {
		return d.ActiveSubscriptions("todos:list") == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Updates published after cancellation are not delivered.
	d.Publish("todos:list", `["late"]`)
	select {
	case v := <-sub.updates:
		t.Fatalf("unexpected update after cancel: %s", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribe_ConnectionLossFailsSubscribers(t *testing.T) {
	d := convextest.NewDeployment()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "todos:list", nil, sub)
	require.NoError(t, err)
	defer handle.Cancel()

	sub.waitUpdate(t)

	d.Close()

	got := sub.waitError(t)
	assert.Contains(t, got.message, "connection lost")
	assert.Nil(t, got.errorData)
}

func TestSubscribe_UnknownQuery(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "missing:query", nil, sub)
	require.NoError(t, err)
	defer handle.Cancel()

	got := sub.waitError(t)
	assert.Contains(t, got.message, "missing:query")
}

// ── SetAuthToken over the sync connection ───────────────────────────────────

func TestSetAuthToken_SyncConnection(t *testing.T) {
	d := convextest.NewDeployment()
	defer d.Close()

	d.HandleQuery("todos:list", func(args map[string]string) (string, error) {
		return `[]`, nil
	})

	c := newTestClient(t, d.URL)
	sub := newRecordingSubscriber()

	handle, err := c.Subscribe(context.Background(), "todos:list", nil, sub)
	require.NoError(t, err)
	defer handle.Cancel()

	sub.waitUpdate(t)

	token := "id-token-456"
	require.NoError(t, c.SetAuthToken(context.Background(), &token))

	assert.Eventually(t, func() bool {
		got := d.LastToken()
		return got != nil && *got == token
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.SetAuthToken(context.Background(), nil))
	assert.Eventually(t, func() bool {
		return d.LastToken() == nil
	}, 2*time.Second, 10*time.Millisecond)
}

// ── syncURL ─────────────────────────────────────────────────────────────────

func TestSyncURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://127.0.0.1:8000", want: "ws://127.0.0.1:8000/api/sync"},
		{base: "https://happy-otter-123.convex.cloud", want: "wss://happy-otter-123.convex.cloud/api/sync"},
		{base: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := syncURL(tt.base)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
