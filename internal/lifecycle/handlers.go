package lifecycle

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"dashboard/internal/api"
	"dashboard/internal/executor"
	"dashboard/internal/journal"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
	"dashboard/pkg/backend"
)

type Reader interface {
	Detail(ctx context.Context, domain, id string) (*backend.Entity, error)
	List(ctx context.Context, domain string) (json.RawMessage, error)
	History(ctx context.Context, domain, id string) (json.RawMessage, error)
}

type Executor interface {
	Execute(ctx context.Context, sess session.Session, cmd executor.Command) (executor.Result, error)
}

type JournalReader interface {
	ListByEntity(ctx context.Context, domain, entityID string) ([]journal.Entry, error)
}

type Handlers struct {
	Catalog  workflow.Catalog
	Reads    Reader
	Executor Executor
	Journals JournalReader
}

// Action is a transition as the dashboard renders it: a button with a target and a form kind.
type Action struct {
	To    string        `json:"to"`
	Label string        `json:"label"`
	Kind  workflow.Kind `json:"kind"`
}

func actions(trs []workflow.Transition) []Action {
	out := make([]Action, 0, len(trs))
	for _, tr := range trs {
		out = append(out, Action{To: tr.To, Label: tr.Label, Kind: tr.Kind})
	}
	return out
}

// resolve writes the error response itself and returns ok=false when the request cannot proceed.
func (h Handlers) resolve(w http.ResponseWriter, r *http.Request) (workflow.Workflow, session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return nil, session.Session{}, false
	}
	wf, err := h.Catalog.Lookup(workflow.Domain(chi.URLParam(r, "domain")))
	if err != nil {
		api.WriteWorkflowError(w, r, err)
		return nil, session.Session{}, false
	}
	return wf, sess, true
}

func (h Handlers) Statuses(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	items := make([]workflow.StatusConfig, 0, len(wf.Statuses()))
	for _, s := range wf.Statuses() {
		if cfg, ok := wf.Config(s); ok {
			items = append(items, cfg)
		}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Status returns the display config and the actions offered to the caller. An unknown status
// is not an error: the dashboard renders it as an unstyled badge with no actions.
func (h Handlers) Status(w http.ResponseWriter, r *http.Request) {
	wf, sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	status := chi.URLParam(r, "status")

	var cfg *workflow.StatusConfig
	if c, found := wf.Config(status); found {
		cfg = &c
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"config":  cfg,
		"actions": actions(wf.Actions(status, sess)),
	})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	raw, err := h.Reads.List(r.Context(), string(wf.Domain()))
	if err != nil {
		api.WriteWorkflowError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": raw})
}

func (h Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	wf, sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	ent, err := h.Reads.Detail(r.Context(), string(wf.Domain()), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteWorkflowError(w, r, err)
		return
	}

	var cfg *workflow.StatusConfig
	if c, found := wf.Config(ent.Status); found {
		cfg = &c
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"item":    ent.Raw,
		"status":  cfg,
		"actions": actions(wf.Actions(ent.Status, sess)),
	})
}

func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	raw, err := h.Reads.History(r.Context(), string(wf.Domain()), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteWorkflowError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": raw})
}

type TransitionRequest struct {
	Status        string   `json:"status"`
	Reason        *string  `json:"reason,omitempty"`
	EvidenceFiles []string `json:"evidenceFiles,omitempty"`
	ResultNote    string   `json:"resultNote,omitempty"`
}

func (h Handlers) Transition(w http.ResponseWriter, r *http.Request) {
	wf, sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	to := strings.TrimSpace(req.Status)
	if to == "" {
		api.WriteFieldError(w, http.StatusUnprocessableEntity, "status", "STATUS_REQUIRED", "target status is required")
		return
	}

	res, err := h.Executor.Execute(r.Context(), sess, executor.Command{
		Domain:   wf.Domain(),
		EntityID: chi.URLParam(r, "id"),
		Request:  workflow.FromForm(to, req.Reason, req.EvidenceFiles, req.ResultNote),
	})
	if err != nil {
		api.WriteWorkflowError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

func (h Handlers) Journal(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	items, err := h.Journals.ListByEntity(r.Context(), string(wf.Domain()), chi.URLParam(r, "id"))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("domain", string(wf.Domain())).Msg("journal list failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []journal.Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
