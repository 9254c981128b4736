package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
	"dashboard/pkg/authtoken"
	"dashboard/pkg/config"
)

func sessionEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		require.True(t, ok)
		WriteJSON(w, http.StatusOK, map[string]string{"user": s.UserID, "role": string(s.Role)})
	})
}

func TestSessionAuth_BearerToken(t *testing.T) {
	cfg := config.Config{AppEnv: "prod", Session: config.SessionConfig{Secret: "s3cret", Audience: "dashboard"}}
	tok, err := authtoken.Sign("s3cret", "dashboard", "u-42", "OPERATOR", time.Now(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	SessionAuth(cfg)(sessionEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u-42", got["user"])
	assert.Equal(t, string(role.Operator), got["role"])
}

func TestSessionAuth_Rejections(t *testing.T) {
	cfg := config.Config{AppEnv: "prod", Session: config.SessionConfig{Secret: "s3cret", Audience: "dashboard"}}
	badRole, err := authtoken.Sign("s3cret", "dashboard", "u-1", "JANITOR", time.Now(), time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"no token", nil, http.StatusUnauthorized},
		{"garbage token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"unknown role", map[string]string{"Authorization": "Bearer " + badRole}, http.StatusForbidden},
		{"dev headers ignored in prod", map[string]string{"X-Dev-User": "u", "X-Dev-Role": "ADMIN"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			SessionAuth(cfg)(sessionEcho(t)).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestSessionAuth_DevHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Dev-User", "dev")
	req.Header.Set("X-Dev-Role", "ADMIN")
	rec := httptest.NewRecorder()
	SessionAuth(config.Config{AppEnv: "dev"})(sessionEcho(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteWorkflowError(t *testing.T) {
	cases := []struct {
		err   error
		want  int
		code  string
		field string
	}{
		{workflow.ValidationError{Field: "reason", Code: "REASON_REQUIRED", Message: "required"}, http.StatusUnprocessableEntity, "REASON_REQUIRED", "reason"},
		{workflow.RejectedError{Code: "STALE", Message: "changed"}, http.StatusConflict, "STALE", ""},
		{errors.Wrap(workflow.ErrTransitionNotAllowed, "orders"), http.StatusForbidden, "TRANSITION_NOT_ALLOWED", ""},
		{workflow.ErrTransitionInFlight, http.StatusConflict, "TRANSITION_IN_FLIGHT", ""},
		{workflow.ErrUnknownDomain, http.StatusNotFound, "UNKNOWN_DOMAIN", ""},
		{errors.New("dial tcp: refused"), http.StatusBadGateway, "UPSTREAM", ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteWorkflowError(rec, httptest.NewRequest(http.MethodPost, "/", nil), tc.err)
		require.Equal(t, tc.want, rec.Code, tc.err.Error())

		var env ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, tc.code, env.Error.Code)
		assert.Equal(t, tc.field, env.Error.Field)
	}
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-Id"))
}

func TestCORS_AllowlistedOriginOnly(t *testing.T) {
	h := CORSMiddleware(CORSOptions{AllowedOrigins: []string{"http://localhost:5173"}})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/orders/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
