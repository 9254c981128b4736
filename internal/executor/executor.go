package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/journal"
	"dashboard/internal/metrics"
	"dashboard/internal/notify"
	"dashboard/internal/readmodel"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
	"dashboard/pkg/backend"
)

type Reader interface {
	Detail(ctx context.Context, domain, id string) (*backend.Entity, error)
}

type Updater interface {
	UpdateStatus(ctx context.Context, domain, id string, body backend.StatusUpdate, requestID string) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, key readmodel.Key) error
}

type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

type Deps struct {
	Catalog  workflow.Catalog
	Reader   Reader
	Updater  Updater
	Cache    Invalidator
	Notifier notify.Notifier
	Journal  Journal
	Now      func() time.Time
}

type Command struct {
	Domain   workflow.Domain
	EntityID string
	Request  workflow.Request
}

type Result struct {
	Domain    string `json:"domain"`
	EntityID  string `json:"entityId"`
	From      string `json:"from"`
	To        string `json:"to"`
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// Executor applies status transitions pessimistically: nothing cached changes until the
// backend acknowledges the update.
type Executor struct {
	deps  Deps
	guard *inflight
}

func New(deps Deps) *Executor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Executor{deps: deps, guard: newInflight()}
}

func (x *Executor) Execute(ctx context.Context, sess session.Session, cmd Command) (Result, error) {
	started := x.deps.Now()
	domain := string(cmd.Domain)

	res, err := x.execute(ctx, sess, cmd)
	metrics.Transitions.WithLabelValues(domain, outcome(err)).Inc()
	if err == nil {
		metrics.TransitionDuration.WithLabelValues(domain).Observe(x.deps.Now().Sub(started).Seconds())
	}
	return res, err
}

func (x *Executor) execute(ctx context.Context, sess session.Session, cmd Command) (Result, error) {
	w, err := x.deps.Catalog.Lookup(cmd.Domain)
	if err != nil {
		return Result{}, err
	}
	if cmd.Request == nil || cmd.Request.Target() == "" {
		return Result{}, workflow.ValidationError{Field: "status", Code: "STATUS_REQUIRED", Message: "target status is required"}
	}

	// The form is checked against the target's kind before anything is loaded, so a missing
	// reason or evidence never costs a backend round trip. Find and Validate below stay the
	// authority once the current status is known.
	target := cmd.Request.Target()
	if kind, ok := workflow.KindOf(w, target, sess); ok {
		if err := workflow.Validate(workflow.Transition{To: target, Kind: kind}, cmd.Request); err != nil {
			return Result{}, err
		}
	}

	domain := string(cmd.Domain)
	release, ok := x.guard.acquire(domain + ":" + cmd.EntityID)
	if !ok {
		return Result{}, workflow.ErrTransitionInFlight
	}
	defer release()

	ent, err := x.deps.Reader.Detail(ctx, domain, cmd.EntityID)
	if err != nil {
		return Result{}, errors.Wrap(err, "load entity")
	}

	tr, ok := workflow.Find(w, ent.Status, target, sess)
	if !ok {
		return Result{}, errors.Wrapf(workflow.ErrTransitionNotAllowed, "%s %s -> %s as %s", domain, ent.Status, target, sess.Role)
	}
	if err := workflow.Validate(tr, cmd.Request); err != nil {
		return Result{}, err
	}

	requestID := uuid.NewString()
	if err := x.deps.Updater.UpdateStatus(ctx, domain, cmd.EntityID, statusUpdate(cmd.Request), requestID); err != nil {
		return Result{}, translate(err)
	}

	// The backend has the new status; finish even if the caller went away.
	after := context.WithoutCancel(ctx)
	x.invalidate(after, domain, cmd.EntityID)

	ev := notify.Event{
		Domain:     domain,
		EntityID:   cmd.EntityID,
		From:       ent.Status,
		To:         target,
		ActorID:    sess.UserID,
		ActorRole:  string(sess.Role),
		RequestID:  requestID,
		OccurredAt: x.deps.Now(),
	}
	x.record(after, ev, cmd.Request)

	return Result{
		Domain:    domain,
		EntityID:  cmd.EntityID,
		From:      ent.Status,
		To:        target,
		RequestID: requestID,
		Message:   tr.Label + ": done",
	}, nil
}

// invalidate drops every dependent read-model concurrently and waits for all of them.
// Failures are logged; the next read after TTL expiry heals them.
func (x *Executor) invalidate(ctx context.Context, domain, id string) {
	if x.deps.Cache == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	var g errgroup.Group
	for _, key := range readmodel.Dependents(domain, id) {
		g.Go(func() error {
			if err := x.deps.Cache.Invalidate(ctx, key); err != nil {
				metrics.Invalidations.WithLabelValues(string(key.Kind), "error").Inc()
				logger.Warn().Err(err).Str("key", key.String()).Msg("read-model invalidation failed")
				return err
			}
			metrics.Invalidations.WithLabelValues(string(key.Kind), "ok").Inc()
			return nil
		})
	}
	_ = g.Wait()
}

func (x *Executor) record(ctx context.Context, ev notify.Event, req workflow.Request) {
	logger := zerolog.Ctx(ctx)

	if x.deps.Notifier != nil {
		if err := x.deps.Notifier.StatusChanged(ctx, ev); err != nil {
			logger.Warn().Err(err).Msg("status notification failed")
		}
	}
	if x.deps.Journal != nil {
		entry := journal.Entry{
			Domain:     ev.Domain,
			EntityID:   ev.EntityID,
			FromStatus: ev.From,
			ToStatus:   ev.To,
			ActorID:    ev.ActorID,
			ActorRole:  ev.ActorRole,
			RequestID:  ev.RequestID,
		}
		switch r := req.(type) {
		case workflow.Reject:
			entry.Reason = r.Reason
		case workflow.Complete:
			entry.Metadata = map[string]any{"evidenceFiles": r.EvidenceFiles, "resultNote": r.ResultNote}
		}
		if err := x.deps.Journal.Record(ctx, entry); err != nil {
			logger.Warn().Err(err).Msg("journal write failed")
		}
	}
}

func statusUpdate(req workflow.Request) backend.StatusUpdate {
	switch r := req.(type) {
	case workflow.Reject:
		return backend.StatusUpdate{Status: r.To, Reason: r.Reason}
	case workflow.Complete:
		return backend.StatusUpdate{Status: r.To, MediaFiles: r.EvidenceFiles, ResultNote: r.ResultNote}
	default:
		return backend.StatusUpdate{Status: req.Target()}
	}
}

// translate turns a backend rejection into a field error when the backend names a field,
// and into a toast-level rejection otherwise.
func translate(err error) error {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return errors.Wrap(err, "update status")
	}
	if apiErr.Field != "" {
		return workflow.ValidationError{Field: apiErr.Field, Code: apiErr.Code, Message: apiErr.Message}
	}
	return workflow.RejectedError{Code: apiErr.Code, Message: apiErr.Message}
}

func outcome(err error) string {
	var ve workflow.ValidationError
	var re workflow.RejectedError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &ve):
		return metrics.OutcomeValidation
	case errors.As(err, &re):
		return metrics.OutcomeRejected
	case errors.Is(err, workflow.ErrTransitionNotAllowed):
		return metrics.OutcomeForbidden
	case errors.Is(err, workflow.ErrTransitionInFlight):
		return metrics.OutcomeInFlight
	default:
		return metrics.OutcomeError
	}
}
