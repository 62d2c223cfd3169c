package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	endpoints := config.NewEndpoints(&config.EndpointConfig{
		Backends: map[string]string{"local": srv.URL},
	})
	return NewClient(endpoints, Options{Logger: testutil.NewTestLogger(t)})
}

func TestClient_GetJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/weekly-demand/models", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":["xgb","lstm"]}`))
	}))

	var out struct {
		Models []string `json:"models"`
	}
	err := client.GetJSON(context.Background(), "local", "/weekly-demand/models", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"xgb", "lstm"}, out.Models)
}

func TestClient_ReusesRequestID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ui-req-000042", r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "ui-req-000042")
	require.NoError(t, client.GetJSON(ctx, "local", "/models", nil))
}

func TestClient_PostJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var in map[string]any
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, 27.5, in["temperature"])

		_, _ = w.Write([]byte(`{"risk_level":"High","prediction":1}`))
	}))

	var out map[string]any
	err := client.PostJSON(context.Background(), "local", "/algae/predict",
		map[string]any{"temperature": 27.5}, &out)
	require.NoError(t, err)
	assert.Equal(t, "High", out["risk_level"])
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		check    func(t *testing.T, err error)
		fallback string
		wantMsg  string
	}{
		{
			name:   "api error with message",
			status: http.StatusBadRequest,
			body:   `{"error":"Missing field: pH"}`,
			check: func(t *testing.T, err error) {
				var ae *APIError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, http.StatusBadRequest, ae.Status)
				assert.Equal(t, "Missing field: pH", ae.Message)
			},
			fallback: "Prediction failed",
			wantMsg:  "Missing field: pH",
		},
		{
			name:   "api error without body",
			status: http.StatusInternalServerError,
			body:   `oops`,
			check: func(t *testing.T, err error) {
				var ae *APIError
				require.ErrorAs(t, err, &ae)
				assert.Empty(t, ae.Message)
			},
			fallback: "Prediction failed",
			wantMsg:  "Prediction failed",
		},
		{
			name:   "success with invalid json",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				var de *DecodeError
				require.ErrorAs(t, err, &de)
			},
			fallback: "Prediction failed",
			wantMsg:  "Unexpected response from the prediction service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			var out map[string]any
			err := client.PostJSON(context.Background(), "local", "/predict", map[string]any{}, &out)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.wantMsg, Message(err, tt.fallback))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	endpoints := config.NewEndpoints(&config.EndpointConfig{Backends: map[string]string{"local": url}})
	client := NewClient(endpoints, Options{Timeout: time.Second})

	err := client.GetJSON(context.Background(), "local", "/rainfall/features", nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Equal(t, "Network error: unable to reach the prediction service", Message(err, "x"))
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := client.GetJSON(ctx, "local", "/slow", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "Request cancelled", Message(err, "x"))
}

func TestClient_UnknownBackend(t *testing.T) {
	client := NewClient(config.DefaultEndpoints(), Options{})
	err := client.GetJSON(context.Background(), "north", "/x", nil)

	var ube *config.UnknownBackendError
	require.ErrorAs(t, err, &ube)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: &ValidationError{Field: "report_text", Message: "Please enter a report to classify."}, want: "Please enter a report to classify."},
		{name: "wrapped api", err: errors.Join(errors.New("ctx"), &APIError{Status: 422, Message: "bad"}), want: "bad"},
		{name: "plain error", err: errors.New("boom"), want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, "fallback"))
		})
	}
}
