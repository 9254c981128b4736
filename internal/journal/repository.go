package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"dashboard/pkg/db"
)

// Entry records one acknowledged transition and who asked for it.
type Entry struct {
	ID         string         `json:"id"`
	Domain     string         `json:"domain"`
	EntityID   string         `json:"entityId"`
	FromStatus string         `json:"fromStatus"`
	ToStatus   string         `json:"toStatus"`
	Reason     string         `json:"reason,omitempty"`
	ActorID    string         `json:"actorId"`
	ActorRole  string         `json:"actorRole"`
	RequestID  string         `json:"requestId"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var meta *string
	if e.Metadata != nil {
		b, _ := json.Marshal(e.Metadata)
		s := string(b)
		meta = &s
	}
	var reason *string
	if e.Reason != "" {
		reason = &e.Reason
	}
	const q = `
INSERT INTO transition_journal (id, domain, entity_id, from_status, to_status, reason, actor_id, actor_role, request_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CAST($10 AS jsonb))
`
	_, err := r.db.Exec(ctx, q, e.ID, e.Domain, e.EntityID, e.FromStatus, e.ToStatus, reason, e.ActorID, e.ActorRole, e.RequestID, meta)
	return err
}

func (r *Repository) ListByEntity(ctx context.Context, domain, entityID string) ([]Entry, error) {
	const q = `
SELECT id::text, domain, entity_id, from_status, to_status, COALESCE(reason, ''), actor_id, actor_role, request_id,
       COALESCE(metadata, '{}'::jsonb), created_at
FROM transition_journal
WHERE domain = $1 AND entity_id = $2
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, domain, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.Domain, &e.EntityID, &e.FromStatus, &e.ToStatus, &e.Reason,
			&e.ActorID, &e.ActorRole, &e.RequestID, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Metadata)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
