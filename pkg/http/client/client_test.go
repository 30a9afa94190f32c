package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		baseURL     string
		timeout     time.Duration
		service     string
		wantTimeout time.Duration
		wantService string
	}{
		{
			name:        "default configuration",
			baseURL:     "https://api.example.com",
			wantTimeout: 30 * time.Second,
			wantService: "http",
		},
		{
			name:        "custom configuration",
			baseURL:     "https://api.test.com",
			timeout:     5 * time.Second,
			service:     "mbta",
			wantTimeout: 5 * time.Second,
			wantService: "mbta",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := New(Options{
				BaseURL: tt.baseURL,
				Timeout: tt.timeout,
				Service: tt.service,
			})

			assert.Equal(t, tt.baseURL, client.baseURL)
			assert.Equal(t, tt.wantTimeout, client.httpClient.Timeout)
			assert.Equal(t, tt.wantService, client.service)
		})
	}
}

func TestRequestFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseURL  string
		path     string
		wantURL  string
		wantCode int
	}{
		{
			name:     "absolute URL",
			baseURL:  "",
			path:     "https://api.example.com/test",
			wantURL:  "/test",
			wantCode: http.StatusOK,
		},
		{
			name:     "relative path with base URL",
			baseURL:  "https://api.example.com",
			path:     "/test?filter%5Bstop%5D=place-north",
			wantURL:  "/test?filter%5Bstop%5D=place-north",
			wantCode: http.StatusOK,
		},
		{
			name:     "non-2xx is not an error for Get",
			baseURL:  "https://api.example.com",
			path:     "/missing",
			wantURL:  "/missing",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantURL, r.URL.String())
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				w.WriteHeader(tt.wantCode)
			}))
			defer server.Close()

			if tt.baseURL == "" {
				tt.path = server.URL + "/test"
			} else {
				tt.baseURL = server.URL
			}

			client := New(Options{
				BaseURL: tt.baseURL,
				Timeout: 5 * time.Second,
			})

			resp, err := client.Get(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestGetJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantStatus int
		wantName   string
	}{
		{
			name:     "decodes body",
			status:   http.StatusOK,
			body:     `{"name":"Kenmore"}`,
			wantName: "Kenmore",
		},
		{
			name:       "status error",
			status:     http.StatusUnauthorized,
			body:       `{"message":"Invalid API key"}`,
			wantErr:    true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(Options{BaseURL: server.URL, Service: "test"})

			var out struct {
				Name string `json:"name"`
			}
			err := client.GetJSON(context.Background(), "/thing", &out)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, out.Name)
				return
			}

			require.Error(t, err)
			if tt.wantStatus != 0 {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				assert.Equal(t, "test", statusErr.Service)
				assert.Contains(t, err.Error(), "Invalid API key")
			}
		})
	}
}

func TestGetFuncOverride(t *testing.T) {
	client := New(Options{})
	client.GetFunc = func(_ context.Context, path string) (*Response, error) {
		assert.Equal(t, "/stops", path)
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}, nil
	}

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/stops", &out))
	assert.True(t, out.OK)
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	err := NewStatusError("mapbox", http.StatusBadGateway, []byte(strings.Repeat("x", 500)))

	assert.Len(t, err.Body, maxErrorBody+3)
	assert.True(t, strings.HasSuffix(err.Body, "..."))
	assert.Contains(t, err.Error(), "mapbox returned status 502")
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL: server.URL,
		Timeout: 100 * time.Millisecond,
	})

	_, err := client.Get(context.Background(), "/test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
