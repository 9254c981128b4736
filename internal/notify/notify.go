package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event announces an acknowledged status change.
type Event struct {
	Domain     string    `json:"domain"`
	EntityID   string    `json:"entityId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actorId"`
	ActorRole  string    `json:"actorRole"`
	RequestID  string    `json:"requestId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Notifier interface {
	StatusChanged(ctx context.Context, e Event) error
}

type LogNotifier struct{}

func (LogNotifier) StatusChanged(ctx context.Context, e Event) error {
	zerolog.Ctx(ctx).Info().
		Str("domain", e.Domain).
		Str("entity_id", e.EntityID).
		Str("from", e.From).
		Str("to", e.To).
		Str("actor_role", e.ActorRole).
		Msg("status updated")
	return nil
}

// messageWriter is the part of *kafka.Writer the notifier needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaNotifier struct {
	w messageWriter
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// StatusChanged keys messages by domain and entity so one entity's events stay ordered.
func (n *KafkaNotifier) StatusChanged(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return n.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Domain + ":" + e.EntityID),
		Value: b,
		Time:  e.OccurredAt,
	})
}

func (n *KafkaNotifier) Close() error {
	if c, ok := n.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Multi calls every notifier and joins their errors.
type Multi []Notifier

func (m Multi) StatusChanged(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.StatusChanged(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
