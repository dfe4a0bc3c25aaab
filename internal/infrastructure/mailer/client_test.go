package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/platform/resilience"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestClientSend_PostsEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails", r.URL.Path)
		require.Equal(t, "Bearer mail-key", r.Header.Get("Authorization"))

		var got sendRequest
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, "NIL Desk <noreply@example.com>", got.From)
		require.Equal(t, []string{"parent@example.com"}, got.To)
		require.Equal(t, "You're invited", got.Subject)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL: srv.URL + "/",
		APIKey:  "mail-key",
		From:    "NIL Desk <noreply@example.com>",
	}, logging.NewNop())

	err := client.Send(context.Background(), usecase.Email{To: "parent@example.com", Subject: "You're invited", Text: "hi"})
	require.NoError(t, err)
}

func TestClientSend_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL: srv.URL,
		Retry:   resilience.RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	}, logging.NewNop())

	require.NoError(t, client.Send(context.Background(), usecase.Email{To: "a@example.com", Subject: "s"}))
	require.EqualValues(t, 3, calls.Load())
}

func TestClientSend_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL: srv.URL,
		Retry:   resilience.RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	}, logging.NewNop())

	err := client.Send(context.Background(), usecase.Email{To: "a@example.com", Subject: "s"})
	require.Error(t, err)
	require.False(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	require.EqualValues(t, 1, calls.Load())
}

func TestClientSend_OpenCircuitIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL: srv.URL,
		Retry:   resilience.RetryPolicy{Attempts: 1},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1,
		},
	}, logging.NewNop())

	email := usecase.Email{To: "a@example.com", Subject: "s"}
	require.ErrorIs(t, client.Send(context.Background(), email), usecase.ErrDependencyUnavailable)
	require.ErrorIs(t, client.Send(context.Background(), email), usecase.ErrDependencyUnavailable)
	require.EqualValues(t, 1, calls.Load())
}
