package apns

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return &Client{
		httpClient: srv.Client(),
		host:       srv.URL,
		topic:      "com.stagebeat.app",
		tokens:     NewTokenSource(testKey(t), "KEY123", "TEAM456"),
		log:        slog.Default(),
	}
}

func TestClient_Push_Success(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.Push(context.Background(), "devtoken42", []byte(`{"aps":{}}`))
	require.NoError(t, err)

	assert.Equal(t, "/3/device/devtoken42", gotPath)
	assert.True(t, strings.HasPrefix(gotHeaders.Get("authorization"), "bearer "))
	assert.Equal(t, "com.stagebeat.app", gotHeaders.Get("apns-topic"))
	assert.Equal(t, "alert", gotHeaders.Get("apns-push-type"))
	assert.Equal(t, "10", gotHeaders.Get("apns-priority"))
	assert.Equal(t, "0", gotHeaders.Get("apns-expiration"))
}

func TestClient_Push_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		w.Write([]byte(`{"reason":"Unregistered"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.Push(context.Background(), "devtoken42", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}

func TestClient_Push_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := testClient(t, srv)
	err := c.Push(context.Background(), "devtoken42", []byte(`{}`))
	require.Error(t, err)
}
