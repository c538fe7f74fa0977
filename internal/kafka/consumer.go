package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/defi-portfolio-agents/internal/models"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
)

// PositionStore is implemented by portfolio.Manager
type PositionStore interface {
	AddPosition(agentID string, position portfolio.Position)
	RemovePosition(agentID, positionID string) int
	UpdatePosition(agentID, positionID string, newCurrentPrice decimal.Decimal) (portfolio.Position, bool)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
	Config() kafka.ReaderConfig
}

// PositionsConsumer mirrors position events published by other reporting
// sessions into a local position store. Events carrying the consumer's own
// source were already applied locally and are skipped.
type PositionsConsumer struct {
	reader messageReader
	store  PositionStore
	source string
}

// NewPositionsConsumer creates a new Kafka consumer for position events
func NewPositionsConsumer(brokers []string, topic, groupID, source string, store PositionStore) *PositionsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &PositionsConsumer{
		reader: reader,
		store:  store,
		source: source,
	}
}

// Start consumes messages until ctx is cancelled
func (c *PositionsConsumer) Start(ctx context.Context) error {
	log.Info().Str("topic", c.reader.Config().Topic).Msg("starting positions consumer")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("positions consumer shutting down")
				return c.reader.Close()
			}
			log.Error().Err(err).Msg("error reading message")
			continue
		}

		if err := c.processMessage(msg); err != nil {
			log.Error().
				Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("error processing message")
		}
	}
}

func (c *PositionsConsumer) processMessage(msg kafka.Message) error {
	var event models.PositionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal position event: %w", err)
	}

	if c.source != "" && event.Source == c.source {
		return nil
	}
	if event.AgentID == "" {
		return fmt.Errorf("position event %s has no agent id", event.EventID)
	}

	switch event.EventType {
	case models.EventPositionAdded:
		if event.Position == nil {
			return fmt.Errorf("position event %s has no position", event.EventID)
		}
		c.store.AddPosition(event.AgentID, *event.Position)

	case models.EventPositionRemoved:
		c.store.RemovePosition(event.AgentID, event.PositionID)

	case models.EventPositionPriceUpdated:
		if event.Position == nil {
			return fmt.Errorf("position event %s has no position", event.EventID)
		}
		c.store.UpdatePosition(event.AgentID, event.PositionID, event.Position.CurrentPrice)

	default:
		log.Debug().Str("event_type", event.EventType).Msg("ignoring event type")
		return nil
	}

	log.Debug().
		Str("event_type", event.EventType).
		Str("source", event.Source).
		Str("agent_id", event.AgentID).
		Str("position_id", event.PositionID).
		Msg("applied position event")

	return nil
}

// Close closes the Kafka consumer
func (c *PositionsConsumer) Close() error {
	return c.reader.Close()
}
