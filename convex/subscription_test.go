// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package convex_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/internal/mock"
)

type todo struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func newTestClient(t *testing.T) (*convex.Client, *mock.MockRemoteClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)
	c, err := convex.NewClient(remote)
	require.NoError(t, err)
	return c, remote
}

// expectSubscribe wires the remote mock to hand the captured subscriber
// back to the test and return the given handle.
func expectSubscribe(remote *mock.MockRemoteClient, name string, handle convex.SubscriptionHandle) <-chan convex.QuerySubscriber {
	subCh := make(chan convex.QuerySubscriber, 1)
	remote.EXPECT().
		Subscribe(gomock.Any(), name, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, sub convex.QuerySubscriber) (convex.SubscriptionHandle, error) {
			subCh <- sub
			return handle, nil
		})
	return subCh
}

func waitSubscriber(t *testing.T, subCh <-chan convex.QuerySubscriber) convex.QuerySubscriber {
	t.Helper()
	select {
	case sub := <-subCh:
		return sub
	case <-time.After(2 * time.Second):
		t.Fatal("remote Subscribe was never called")
		return nil
	}
}

func waitValue[T any](t *testing.T, ch <-chan T) (T, bool) {
	t.Helper()
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream value")
		var zero T
		return zero, false
	}
}

func waitClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	_, ok := waitValue(t, ch)
	require.False(t, ok, "expected closed stream")
}

// expectCancel asserts exactly one remote cancel and reports when it
// happened, since the cancel may run on the open goroutine.
func expectCancel(handle *mock.MockSubscriptionHandle) <-chan struct{} {
	cancelled := make(chan struct{})
	handle.EXPECT().Cancel().Do(func() { close(cancelled) }).Times(1)
	return cancelled
}

func waitCancelled(t *testing.T, cancelled <-chan struct{}) {
	t.Helper()
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("remote subscription was never cancelled")
	}
}

// ── delivery ────────────────────────────────────────────────────────────────

func TestSubscribe_DeliversUpdatesInOrder(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	go remoteSub.OnUpdate(`[{"text":"buy milk","completed":false}]`)

	first, ok := waitValue(t, s.Updates())
	require.True(t, ok)
	assert.Equal(t, []todo{{Text: "buy milk"}}, first)

	go remoteSub.OnUpdate(`[{"text":"buy milk","completed":true}]`)

	second, ok := waitValue(t, s.Updates())
	require.True(t, ok)
	assert.Equal(t, []todo{{Text: "buy milk", Completed: true}}, second)

	s.Cancel()
	waitCancelled(t, cancelled)
	waitClosed(t, s.Updates())
	assert.NoError(t, s.Err())
}

func TestSubscribe_AtMostOneUpdateInFlight(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	subCh := expectSubscribe(remote, "counter:value", handle)

	s := convex.Subscribe[int](context.Background(), c, "counter:value", nil)
	remoteSub := waitSubscriber(t, subCh)

	delivered := make(chan int, 2)
	go func() {
		remoteSub.OnUpdate(`1`)
		delivered <- 1
		remoteSub.OnUpdate(`2`)
		delivered <- 2
	}()

	// The second dispatch must not complete before the consumer takes
	// the first value.
	v, _ := waitValue(t, s.Updates())
	assert.Equal(t, 1, v)
	<-delivered

	v, _ = waitValue(t, s.Updates())
	assert.Equal(t, 2, v)
	<-delivered

	s.Cancel()
}

func TestSubscribeWith_CustomDecoder(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	subCh := expectSubscribe(remote, "stats:raw", handle)

	s := convex.SubscribeWith(context.Background(), c, "stats:raw", nil, func(raw string) (int, error) {
		return len(raw), nil
	})
	remoteSub := waitSubscriber(t, subCh)

	go remoteSub.OnUpdate("12345")

	v, _ := waitValue(t, s.Updates())
	assert.Equal(t, 5, v)

	s.Cancel()
}

func TestSubscribe_ArgumentsAreSerializedPerArg(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	called := make(chan map[string]string, 1)
	remote.EXPECT().
		Subscribe(gomock.Any(), "todos:search", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args map[string]string, _ convex.QuerySubscriber) (convex.SubscriptionHandle, error) {
			called <- args
			return handle, nil
		})

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:search", map[string]any{
		"text":  "milk",
		"limit": 10,
	})
	defer s.Cancel()

	select {
	case args := <-called:
		assert.Equal(t, map[string]string{"text": `"milk"`, "limit": `10`}, args)
	case <-time.After(2 * time.Second):
		t.Fatal("remote Subscribe was never called")
	}
}

// ── cancellation ────────────────────────────────────────────────────────────

func TestSubscription_CancelUnblocksPendingDelivery(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	returned := make(chan struct{})
	go func() {
		remoteSub.OnUpdate(`[]`) // no consumer; blocks until cancel
		close(returned)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Cancel()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("pending delivery was not unblocked by Cancel")
	}

	waitCancelled(t, cancelled)
	waitClosed(t, s.Updates())
	assert.NoError(t, s.Err())
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	waitSubscriber(t, subCh)

	s.Cancel()
	s.Cancel()
	s.Cancel()
	waitCancelled(t, cancelled)
}

func TestSubscription_CancelBeforeOpenResolves(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	release := make(chan struct{})
	remote.EXPECT().
		Subscribe(gomock.Any(), "todos:list", gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, map[string]string, convex.QuerySubscriber) (convex.SubscriptionHandle, error) {
			<-release
			return handle, nil
		})

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)

	// Cancel while the remote subscription is still being established.
	s.Cancel()
	waitClosed(t, s.Updates())

	// When the open resolves, the recorded cancel is honoured exactly once.
	close(release)
	s.Cancel() // still idempotent while racing the open
	waitCancelled(t, cancelled)
}

func TestSubscribe_ContextCancellation(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	subCh := expectSubscribe(remote, "todos:list", handle)

	ctx, cancel := context.WithCancel(context.Background())
	s := convex.Subscribe[[]todo](ctx, c, "todos:list", nil)
	waitSubscriber(t, subCh)

	cancel()

	waitCancelled(t, cancelled)
	waitClosed(t, s.Updates())
	assert.NoError(t, s.Err())
}

// ── terminal errors ─────────────────────────────────────────────────────────

func TestSubscribe_OpenFailureTerminatesStream(t *testing.T) {
	c, remote := newTestClient(t)

	remote.EXPECT().
		Subscribe(gomock.Any(), "todos:list", gomock.Any(), gomock.Any()).
		Return(nil, errors.New("dial tcp: connection refused"))

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)

	waitClosed(t, s.Updates())

	var internalErr *convex.InternalError
	require.ErrorAs(t, s.Err(), &internalErr)
	assert.Contains(t, internalErr.Error(), "todos:list")

	s.Cancel() // safe with no handle
}

func TestSubscribe_ArgumentEncodeFailure(t *testing.T) {
	c, _ := newTestClient(t)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", map[string]any{
		"callback": func() {}, // not serializable
	})

	waitClosed(t, s.Updates())

	var internalErr *convex.InternalError
	require.ErrorAs(t, s.Err(), &internalErr)
	assert.Contains(t, errors.Unwrap(internalErr).Error(), "callback")
}

func TestSubscribe_DecodeFailureTerminatesStream(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	cancelled := expectCancel(handle)

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	remoteSub.OnUpdate(`{not valid json`)

	waitClosed(t, s.Updates())

	var internalErr *convex.InternalError
	require.ErrorAs(t, s.Err(), &internalErr)

	// Remote teardown still goes through the explicit cancel path.
	s.Cancel()
	waitCancelled(t, cancelled)
}

func TestSubscribe_RemoteApplicationError(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	data := `{"code":"FORBIDDEN"}`
	remoteSub.OnError("query raised an error", &data)

	waitClosed(t, s.Updates())

	var appErr *convex.ConvexError
	require.ErrorAs(t, s.Err(), &appErr)
	assert.Equal(t, data, appErr.Data)
}

func TestSubscribe_RemoteServerError(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	remoteSub.OnError("internal server error", nil)

	waitClosed(t, s.Updates())

	var srvErr *convex.ServerError
	require.ErrorAs(t, s.Err(), &srvErr)
	assert.Equal(t, "internal server error", srvErr.Message)
}

func TestSubscribe_NoCallbacksAfterTerminal(t *testing.T) {
	c, remote := newTestClient(t)
	ctrl := gomock.NewController(t)
	handle := mock.NewMockSubscriptionHandle(ctrl)
	handle.EXPECT().Cancel().AnyTimes()

	subCh := expectSubscribe(remote, "todos:list", handle)

	s := convex.Subscribe[[]todo](context.Background(), c, "todos:list", nil)
	remoteSub := waitSubscriber(t, subCh)

	remoteSub.OnError("gone", nil)
	waitClosed(t, s.Updates())

	// Late callbacks on an ended stream are ignored.
	remoteSub.OnUpdate(`[]`)
	remoteSub.OnError("again", nil)

	var srvErr *convex.ServerError
	require.ErrorAs(t, s.Err(), &srvErr)
	assert.Equal(t, "gone", srvErr.Message)
}
