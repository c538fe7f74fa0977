package models

import (
	"time"

	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
)

// Position event type constants
const (
	EventPositionAdded        = "POSITION_ADDED"
	EventPositionRemoved      = "POSITION_REMOVED"
	EventPositionPriceUpdated = "POSITION_PRICE_UPDATED"
)

// PositionEvent represents a change to an agent's portfolio published to
// Kafka, Redis and WebSocket subscribers
type PositionEvent struct {
	EventID    string              `json:"event_id"`
	EventType  string              `json:"event_type"`
	Source     string              `json:"source"`
	AgentID    string              `json:"agent_id"`
	PositionID string              `json:"position_id"`
	Position   *portfolio.Position `json:"position,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}
