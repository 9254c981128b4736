package journal

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execRecorder struct {
	sql  string
	args []any
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql, e.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (e *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not used")
}

func (e *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func TestRecord_AssignsIDAndNullsEmptyOptionals(t *testing.T) {
	rec := &execRecorder{}
	repo := NewRepository(rec)

	err := repo.Record(context.Background(), Entry{
		Domain: "orders", EntityID: "o-1", FromStatus: "TO_PAY", ToStatus: "CANCELLED",
		ActorID: "u-1", ActorRole: "ADMIN", RequestID: "r-1",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(rec.args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(rec.args))
	}
	if id, _ := rec.args[0].(string); id == "" {
		t.Fatalf("expected generated id")
	}
	if reason := rec.args[5].(*string); reason != nil {
		t.Fatalf("expected NULL reason, got %q", *reason)
	}
	if meta := rec.args[9].(*string); meta != nil {
		t.Fatalf("expected NULL metadata, got %q", *meta)
	}
}

func TestRecord_EncodesReasonAndMetadata(t *testing.T) {
	rec := &execRecorder{}
	repo := NewRepository(rec)

	err := repo.Record(context.Background(), Entry{
		ID: "fixed", Domain: "bookings", EntityID: "b-1", ToStatus: "COMPLETED",
		Reason:   "no show",
		Metadata: map[string]any{"resultNote": "ok"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.args[0] != "fixed" {
		t.Fatalf("expected caller id to be kept, got %v", rec.args[0])
	}
	if r := rec.args[5].(*string); r == nil || *r != "no show" {
		t.Fatalf("unexpected reason arg: %v", r)
	}
	if m := rec.args[9].(*string); m == nil || *m != `{"resultNote":"ok"}` {
		t.Fatalf("unexpected metadata arg: %v", m)
	}
}
