package session

import (
	"context"

	"dashboard/internal/role"
)

// Session is the authenticated caller. It is passed explicitly into transition-table
// evaluation and never mutated by it.
type Session struct {
	UserID string
	Role   role.Role
}

func (s Session) Allowed(roles role.Set) bool {
	return roles.Contains(s.Role)
}

type ctxKey string

const ctxKeySession ctxKey = "session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(Session)
	return s, ok
}
