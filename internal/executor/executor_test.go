package executor

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/booking"
	"dashboard/internal/journal"
	"dashboard/internal/notify"
	"dashboard/internal/order"
	"dashboard/internal/product"
	"dashboard/internal/readmodel"
	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
	"dashboard/pkg/backend"
)

// timeline records side effects in the order they happen.
type timeline struct {
	mu     sync.Mutex
	events []string
}

func (t *timeline) add(ev string) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

func (t *timeline) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

type fakeReader struct {
	status string
	calls  int
}

func (r *fakeReader) Detail(_ context.Context, _, id string) (*backend.Entity, error) {
	r.calls++
	return &backend.Entity{ID: id, Status: r.status}, nil
}

type fakeUpdater struct {
	tl    *timeline
	err   error
	calls []backend.StatusUpdate
	block chan struct{}
	ready chan struct{}
}

func (u *fakeUpdater) UpdateStatus(_ context.Context, _, _ string, body backend.StatusUpdate, requestID string) error {
	if u.ready != nil {
		close(u.ready)
	}
	if u.block != nil {
		<-u.block
	}
	u.calls = append(u.calls, body)
	u.tl.add("update")
	return u.err
}

type fakeCache struct {
	tl  *timeline
	err error
}

func (c fakeCache) Invalidate(_ context.Context, key readmodel.Key) error {
	c.tl.add("invalidate " + key.String())
	return c.err
}

type fakeNotifier struct{ events []notify.Event }

func (n *fakeNotifier) StatusChanged(_ context.Context, e notify.Event) error {
	n.events = append(n.events, e)
	return nil
}

type fakeJournal struct{ entries []journal.Entry }

func (j *fakeJournal) Record(_ context.Context, e journal.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

type harness struct {
	x       *Executor
	tl      *timeline
	reader  *fakeReader
	cache   *fakeCache
	updater *fakeUpdater
	notes   *fakeNotifier
	journal *fakeJournal
}

func newHarness(status string, updateErr error) *harness {
	tl := &timeline{}
	h := &harness{
		tl:      tl,
		reader:  &fakeReader{status: status},
		cache:   &fakeCache{tl: tl},
		updater: &fakeUpdater{tl: tl, err: updateErr},
		notes:   &fakeNotifier{},
		journal: &fakeJournal{},
	}
	h.x = New(Deps{
		Catalog:  workflow.NewCatalog(order.Workflow(), product.Workflow(), booking.Workflow()),
		Reader:   h.reader,
		Updater:  h.updater,
		Cache:    h.cache,
		Notifier: h.notes,
		Journal:  h.journal,
	})
	return h
}

var staff = session.Session{UserID: "u-1", Role: role.Staff}

func TestExecute_SuccessInvalidatesEachKeyOnceAfterUpdate(t *testing.T) {
	h := newHarness(string(order.StatusWaitForConfirmation), nil)

	res, err := h.x.Execute(context.Background(), staff, Command{
		Domain:   workflow.DomainOrder,
		EntityID: "o-1",
		Request:  workflow.Advance{To: string(order.StatusPreparingOrder)},
	})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusWaitForConfirmation), res.From)
	assert.Equal(t, string(order.StatusPreparingOrder), res.To)
	assert.NotEmpty(t, res.RequestID)

	events := h.tl.snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, "update", events[0])
	assert.ElementsMatch(t, []string{
		"invalidate " + readmodel.DetailKey("orders", "o-1").String(),
		"invalidate " + readmodel.ListKey("orders").String(),
		"invalidate " + readmodel.HistoryKey("orders", "o-1").String(),
	}, events[1:])

	require.Len(t, h.notes.events, 1)
	assert.Equal(t, res.RequestID, h.notes.events[0].RequestID)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, "u-1", h.journal.entries[0].ActorID)
}

func TestExecute_BackendFieldErrorLeavesCacheUntouched(t *testing.T) {
	apiErr := &backend.APIError{StatusCode: 422, Code: "REASON_TOO_SHORT", Message: "reason too short", Field: "reason"}
	h := newHarness(string(product.StatusOfficial), apiErr)
	admin := session.Session{UserID: "a-1", Role: role.Admin}

	_, err := h.x.Execute(context.Background(), admin, Command{
		Domain:   workflow.DomainProduct,
		EntityID: "p-1",
		Request:  workflow.Reject{To: string(product.StatusBanned), Reason: "x"},
	})

	var ve workflow.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "reason", ve.Field)
	assert.Equal(t, []string{"update"}, h.tl.snapshot())
	assert.Empty(t, h.notes.events)
	assert.Empty(t, h.journal.entries)
}

func TestExecute_BackendRejectionWithoutField(t *testing.T) {
	apiErr := &backend.APIError{StatusCode: 409, Code: "STALE_STATUS", Message: "order already changed"}
	h := newHarness(string(order.StatusWaitForConfirmation), apiErr)

	_, err := h.x.Execute(context.Background(), staff, Command{
		Domain:   workflow.DomainOrder,
		EntityID: "o-1",
		Request:  workflow.Advance{To: string(order.StatusPreparingOrder)},
	})

	var re workflow.RejectedError
	require.True(t, errors.As(err, &re), "got %v", err)
	assert.Equal(t, "STALE_STATUS", re.Code)
	assert.Equal(t, []string{"update"}, h.tl.snapshot())
}

func TestExecute_MissingReasonNeverReachesBackend(t *testing.T) {
	h := newHarness(string(product.StatusOfficial), nil)
	admin := session.Session{UserID: "a-1", Role: role.Admin}

	_, err := h.x.Execute(context.Background(), admin, Command{
		Domain:   workflow.DomainProduct,
		EntityID: "p-1",
		Request:  workflow.Reject{To: string(product.StatusBanned), Reason: "   "},
	})

	var ve workflow.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "reason", ve.Field)
	assert.Zero(t, h.reader.calls, "entity must not be loaded")
	assert.Empty(t, h.updater.calls)
	assert.Empty(t, h.tl.snapshot())
}

func TestExecute_MissingEvidenceNeverReachesBackend(t *testing.T) {
	h := newHarness(string(booking.StatusConfirmed), nil)
	consultant := session.Session{UserID: "c-1", Role: role.Consultant}

	_, err := h.x.Execute(context.Background(), consultant, Command{
		Domain:   workflow.DomainBooking,
		EntityID: "b-1",
		Request:  workflow.Advance{To: string(booking.StatusCompleted)},
	})

	var ve workflow.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "evidenceFiles", ve.Field)
	assert.Zero(t, h.reader.calls)
	assert.Empty(t, h.updater.calls)
}

func TestExecute_InvalidationFailureDoesNotFailTransition(t *testing.T) {
	h := newHarness(string(order.StatusWaitForConfirmation), nil)
	h.cache.err = errors.New("redis: connection refused")

	res, err := h.x.Execute(context.Background(), staff, Command{
		Domain:   workflow.DomainOrder,
		EntityID: "o-1",
		Request:  workflow.Advance{To: string(order.StatusPreparingOrder)},
	})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusPreparingOrder), res.To)

	events := h.tl.snapshot()
	require.Len(t, events, 4, "every dependent key is attempted")
	assert.Equal(t, "update", events[0])
	assert.Len(t, h.notes.events, 1)
	assert.Len(t, h.journal.entries, 1)
}

func TestExecute_EvidenceForwardedToBackend(t *testing.T) {
	h := newHarness(string(booking.StatusConfirmed), nil)
	consultant := session.Session{UserID: "c-1", Role: role.Consultant}

	_, err := h.x.Execute(context.Background(), consultant, Command{
		Domain:   workflow.DomainBooking,
		EntityID: "b-1",
		Request: workflow.Complete{
			To:            string(booking.StatusCompleted),
			EvidenceFiles: []string{"https://cdn.example/proof.png"},
			ResultNote:    "done",
		},
	})
	require.NoError(t, err)
	require.Len(t, h.updater.calls, 1)
	assert.Equal(t, []string{"https://cdn.example/proof.png"}, h.updater.calls[0].MediaFiles)
	assert.Equal(t, "done", h.updater.calls[0].ResultNote)
	assert.Equal(t, "done", h.journal.entries[0].Metadata["resultNote"])
}

func TestExecute_NotOfferedIsNotAllowed(t *testing.T) {
	cases := []struct {
		name   string
		status string
		sess   session.Session
		target string
	}{
		{"customer cannot ban", string(product.StatusOfficial), session.Session{Role: role.Customer}, string(product.StatusBanned)},
		{"banned must be unbanned first", string(product.StatusBanned), session.Session{Role: role.Admin}, string(product.StatusOfficial)},
		{"unknown current status", "MYSTERY", session.Session{Role: role.Admin}, string(product.StatusOfficial)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(tc.status, nil)
			_, err := h.x.Execute(context.Background(), tc.sess, Command{
				Domain:   workflow.DomainProduct,
				EntityID: "p-1",
				Request:  workflow.Advance{To: tc.target},
			})
			assert.True(t, errors.Is(err, workflow.ErrTransitionNotAllowed), "got %v", err)
			assert.Empty(t, h.updater.calls)
		})
	}
}

func TestExecute_UnknownDomain(t *testing.T) {
	h := newHarness("PENDING", nil)
	_, err := h.x.Execute(context.Background(), staff, Command{Domain: "invoices", EntityID: "1", Request: workflow.Advance{To: "PAID"}})
	assert.True(t, errors.Is(err, workflow.ErrUnknownDomain), "got %v", err)
}

func TestExecute_SecondRequestForSameEntityIsRefused(t *testing.T) {
	h := newHarness(string(order.StatusWaitForConfirmation), nil)
	h.updater.block = make(chan struct{})
	h.updater.ready = make(chan struct{})

	cmd := Command{
		Domain:   workflow.DomainOrder,
		EntityID: "o-1",
		Request:  workflow.Advance{To: string(order.StatusPreparingOrder)},
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.x.Execute(context.Background(), staff, cmd)
		done <- err
	}()
	<-h.updater.ready

	_, err := h.x.Execute(context.Background(), staff, cmd)
	assert.True(t, errors.Is(err, workflow.ErrTransitionInFlight), "got %v", err)

	close(h.updater.block)
	require.NoError(t, <-done)

	// The guard is released once the first call finishes.
	h.updater.ready = nil
	h.updater.block = nil
	_, err = h.x.Execute(context.Background(), staff, cmd)
	require.NoError(t, err)
}
