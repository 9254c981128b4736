package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus_SendsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/products/p-1/status", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))

		var body StatusUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BANNED", body.Status)
		assert.Equal(t, "counterfeit", body.Reason)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL + "/api", APIToken: "secret"}
	err := c.UpdateStatus(context.Background(), "products", "p-1", StatusUpdate{Status: "BANNED", Reason: "counterfeit"}, "req-1")
	require.NoError(t, err)
}

func TestUpdateStatus_FieldError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"REASON_TOO_SHORT","message":"reason too short","field":"reason"}}`))
	}))
	defer srv.Close()

	err := Client{BaseURL: srv.URL}.UpdateStatus(context.Background(), "bookings", "b-1", StatusUpdate{Status: "REJECTED", Reason: "x"}, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "reason", apiErr.Field)
	assert.Equal(t, "REASON_TOO_SHORT", apiErr.Code)
}

func TestUpdateStatus_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Client{BaseURL: srv.URL}.UpdateStatus(context.Background(), "orders", "o-1", StatusUpdate{Status: "TO_SHIP"}, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Empty(t, apiErr.Field)
}

func TestGetEntity_KeepsRawPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/o-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"o-9","status":"TO_PAY","total":"12.50"}`))
	}))
	defer srv.Close()

	e, err := Client{BaseURL: srv.URL}.GetEntity(context.Background(), "orders", "o-9")
	require.NoError(t, err)
	assert.Equal(t, "o-9", e.ID)
	assert.Equal(t, "TO_PAY", e.Status)
	assert.Contains(t, string(e.Raw), `"total":"12.50"`)
}

func TestDoJSON_MissingBaseURL(t *testing.T) {
	_, err := Client{}.GetEntity(context.Background(), "orders", "o-1")
	require.Error(t, err)
}
