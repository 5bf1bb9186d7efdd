package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/assistant/init", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"count":12}`)
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	body, err := api.Get("/api/assistant/init")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"count":12}`, string(body))
}

func TestAPIClient_Post_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "show me hoodies", req.Message)

		fmt.Fprint(w, `{"success":true,"message":"ok","products":[]}`)
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Post("/api/assistant/chat", ChatRequest{Message: "show me hoodies"})
	require.NoError(t, err)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":"embeddings not initialized"}`)
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Get("/api/assistant/init")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "embeddings not initialized", apiErr.Message)
}

func TestAPIClient_ErrorResponse_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream broke")
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Get("/health")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream broke", apiErr.Message)
}

func TestAPIClient_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"token\",\"content\":\"hi\"}\n\ndata: {\"type\":\"done\"}\n\n")
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	body, err := api.Stream("/api/assistant/chat/stream", ChatRequest{Message: "hello"})
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"token"`)
	assert.Contains(t, string(raw), `"type":"done"`)
}

func TestAPIClient_Stream_ErrorBeforeHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"message is required"}`)
	}))
	defer srv.Close()

	api, err := NewAPIClientWithConfig(srv.URL)
	require.NoError(t, err)

	_, err = api.Stream("/api/assistant/chat/stream", ChatRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "message is required", apiErr.Message)
}
