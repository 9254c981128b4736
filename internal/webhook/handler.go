package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"dashboard/internal/api"
	"dashboard/internal/metrics"
	"dashboard/internal/readmodel"
	"dashboard/internal/workflow"
)

const SignatureHeader = "X-Dashboard-Hmac-Sha256"

type Invalidator interface {
	Invalidate(ctx context.Context, key readmodel.Key) error
}

// Handler receives status changes made outside the dashboard and drops the read-models
// that depend on the entity.
type Handler struct {
	Secret  string
	Catalog workflow.Catalog
	Cache   Invalidator
}

type StatusChanged struct {
	Domain   string `json:"domain"`
	EntityID string `json:"entityId"`
	Status   string `json:"status"`
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid body")
		return
	}
	if !Verify(body, strings.TrimSpace(r.Header.Get(SignatureHeader)), h.Secret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook signature")
		return
	}

	var ev StatusChanged
	if err := json.Unmarshal(body, &ev); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	wf, err := h.Catalog.Lookup(workflow.Domain(strings.TrimSpace(ev.Domain)))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "UNKNOWN_DOMAIN", "unknown entity type")
		return
	}
	id := strings.TrimSpace(ev.EntityID)
	if id == "" {
		api.WriteFieldError(w, http.StatusBadRequest, "entityId", "VALIDATION_FAILED", "missing entity id")
		return
	}

	logger := zerolog.Ctx(r.Context()).With().
		Str("domain", string(wf.Domain())).
		Str("entity_id", id).
		Str("status", ev.Status).
		Logger()
	if _, ok := wf.Config(ev.Status); !ok {
		logger.Warn().Msg("webhook carries an unknown status")
	}

	if h.Cache != nil {
		for _, key := range readmodel.Dependents(string(wf.Domain()), id) {
			if err := h.Cache.Invalidate(r.Context(), key); err != nil {
				metrics.Invalidations.WithLabelValues(string(key.Kind), "error").Inc()
				logger.Warn().Err(err).Str("key", key.String()).Msg("read-model invalidation failed")
				continue
			}
			metrics.Invalidations.WithLabelValues(string(key.Kind), "ok").Inc()
		}
	}
	logger.Info().Msg("status changed upstream")

	w.WriteHeader(http.StatusNoContent)
}
