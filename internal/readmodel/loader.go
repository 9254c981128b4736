package readmodel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"dashboard/pkg/backend"
)

// Source is the system of record behind the cache.
type Source interface {
	GetEntity(ctx context.Context, domain, id string) (*backend.Entity, error)
	ListEntities(ctx context.Context, domain string) (json.RawMessage, error)
	GetHistory(ctx context.Context, domain, id string) (json.RawMessage, error)
}

// Loader reads through the cache. A cache failure never fails a read; it only costs a
// backend round trip.
type Loader struct {
	Store  Store
	Source Source
	TTL    time.Duration
}

func (l Loader) Detail(ctx context.Context, domain, id string) (*backend.Entity, error) {
	raw, err := l.through(ctx, DetailKey(domain, id), func() (json.RawMessage, error) {
		e, err := l.Source.GetEntity(ctx, domain, id)
		if err != nil {
			return nil, err
		}
		return e.Raw, nil
	})
	if err != nil {
		return nil, err
	}
	return backend.DecodeEntity(raw)
}

func (l Loader) List(ctx context.Context, domain string) (json.RawMessage, error) {
	return l.through(ctx, ListKey(domain), func() (json.RawMessage, error) {
		return l.Source.ListEntities(ctx, domain)
	})
}

func (l Loader) History(ctx context.Context, domain, id string) (json.RawMessage, error) {
	return l.through(ctx, HistoryKey(domain, id), func() (json.RawMessage, error) {
		return l.Source.GetHistory(ctx, domain, id)
	})
}

func (l Loader) through(ctx context.Context, key Key, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	logger := zerolog.Ctx(ctx)

	if l.Store != nil {
		b, found, err := l.Store.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key.String()).Msg("read-model cache get failed")
		} else if found {
			return json.RawMessage(b), nil
		}
	}

	raw, err := fetch()
	if err != nil {
		return nil, err
	}

	if l.Store != nil && len(raw) > 0 {
		if err := l.Store.Set(ctx, key, raw, l.TTL); err != nil {
			logger.Warn().Err(err).Str("key", key.String()).Msg("read-model cache set failed")
		}
	}
	return raw, nil
}
