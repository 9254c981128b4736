package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client talks to the system of record's REST API. Timeouts are the http.Client default
// set here; callers add deadlines through ctx.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIToken   string
}

// Entity is the part of a backend record the lifecycle model reads. Raw keeps the full
// payload so detail views can be served from cache unchanged.
type Entity struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// StatusUpdate is the body of PATCH /{domain}/{id}/status.
type StatusUpdate struct {
	Status     string   `json:"status"`
	Reason     string   `json:"reason,omitempty"`
	MediaFiles []string `json:"mediaFiles,omitempty"`
	ResultNote string   `json:"resultNote,omitempty"`
}

// APIError is a non-2xx answer. Field is set when the backend blames one input.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend api error: status=%d message=%s", e.StatusCode, e.Message)
}

func (c Client) GetEntity(ctx context.Context, domain, id string) (*Entity, error) {
	var raw json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodGet, entityPath(domain, id), "", nil, &raw); err != nil {
		return nil, err
	}
	return DecodeEntity(raw)
}

func (c Client) ListEntities(ctx context.Context, domain string) (json.RawMessage, error) {
	var raw json.RawMessage
	_, err := c.doJSON(ctx, http.MethodGet, "/"+url.PathEscape(domain), "", nil, &raw)
	return raw, err
}

func (c Client) GetHistory(ctx context.Context, domain, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	_, err := c.doJSON(ctx, http.MethodGet, entityPath(domain, id)+"/status-tracking", "", nil, &raw)
	return raw, err
}

// GetJSON decodes an arbitrary backend resource into out.
func (c Client) GetJSON(ctx context.Context, path string, out any) error {
	_, err := c.doJSON(ctx, http.MethodGet, path, "", nil, out)
	return err
}

// UpdateStatus sends the new status. requestID is forwarded as X-Request-Id so the backend
// can deduplicate retries; a new one is generated when empty.
func (c Client) UpdateStatus(ctx context.Context, domain, id string, body StatusUpdate, requestID string) error {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	_, err := c.doJSON(ctx, http.MethodPatch, entityPath(domain, id)+"/status", requestID, body, nil)
	return err
}

// DecodeEntity reads id and status from a backend record, keeping the raw payload.
func DecodeEntity(raw json.RawMessage) (*Entity, error) {
	var e Entity
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, errors.Wrap(err, "decode entity")
	}
	e.Raw = raw
	return &e, nil
}

func entityPath(domain, id string) string {
	return "/" + url.PathEscape(domain) + "/" + url.PathEscape(id)
}

func (c Client) doJSON(ctx context.Context, method, path, requestID string, reqBody any, respBody any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" {
		return 0, fmt.Errorf("missing backend base url")
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, parseAPIError(resp.StatusCode, b)
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode backend response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}

// parseAPIError accepts both {"error":{...}} envelopes and flat {"code","message","field"} bodies.
func parseAPIError(status int, body []byte) *APIError {
	type fields struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	var env struct {
		Error *fields `json:"error"`
		fields
	}
	out := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &env); err != nil {
		out.Message = strings.TrimSpace(string(body))
		if out.Message == "" {
			out.Message = http.StatusText(status)
		}
		return out
	}
	f := env.fields
	if env.Error != nil {
		f = *env.Error
	}
	out.Code, out.Message, out.Field = f.Code, f.Message, f.Field
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}
