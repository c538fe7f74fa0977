package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/defi-portfolio-agents/internal/models"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
	"github.com/trogers1052/defi-portfolio-agents/internal/report"
)

// PortfolioService routes portfolio mutations through the position manager
// and announces every effective change to the publisher
type PortfolioService struct {
	positions *portfolio.Manager
	publisher Publisher
	source    string
}

// NewPortfolioService creates a new PortfolioService. A nil publisher
// disables event publishing. source tags published events so mirrors can
// recognise their own.
func NewPortfolioService(positions *portfolio.Manager, publisher Publisher, source string) *PortfolioService {
	return &PortfolioService{
		positions: positions,
		publisher: publisher,
		source:    source,
	}
}

// AddPosition adds a position to the agent's portfolio
func (s *PortfolioService) AddPosition(ctx context.Context, agentID string, position portfolio.Position) {
	s.positions.AddPosition(agentID, position)
	s.publish(ctx, models.EventPositionAdded, agentID, position.ID, &position)
}

// Positions returns the agent's positions
func (s *PortfolioService) Positions(agentID string) []portfolio.Position {
	return s.positions.Positions(agentID)
}

// RemovePosition removes every position with the given ID and returns how
// many were removed
func (s *PortfolioService) RemovePosition(ctx context.Context, agentID, positionID string) int {
	removed := s.positions.RemovePosition(agentID, positionID)
	if removed > 0 {
		s.publish(ctx, models.EventPositionRemoved, agentID, positionID, nil)
	}
	return removed
}

// UpdatePrice sets the current price of the first position with the given
// ID and returns the updated position
func (s *PortfolioService) UpdatePrice(ctx context.Context, agentID, positionID string, price decimal.Decimal) (portfolio.Position, bool) {
	updated, ok := s.positions.UpdatePosition(agentID, positionID, price)
	if !ok {
		return portfolio.Position{}, false
	}

	s.publish(ctx, models.EventPositionPriceUpdated, agentID, positionID, &updated)
	return updated, true
}

// PortfolioValue returns the agent's total portfolio value
func (s *PortfolioService) PortfolioValue(agentID string) decimal.Decimal {
	return s.positions.PortfolioValue(agentID)
}

// Agents returns all agents holding or having held positions
func (s *PortfolioService) Agents() []string {
	return s.positions.Agents()
}

// Report renders the agent's portfolio as markdown
func (s *PortfolioService) Report(agentID string) string {
	return report.Build(s.positions.Snapshot(agentID))
}

func (s *PortfolioService) publish(ctx context.Context, eventType, agentID, positionID string, position *portfolio.Position) {
	if s.publisher == nil {
		return
	}

	event := models.PositionEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Source:     s.source,
		AgentID:    agentID,
		PositionID: positionID,
		Position:   position,
		Timestamp:  time.Now().UTC(),
	}

	// Publishing is best effort; the portfolio change already happened.
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("agent_id", agentID).
			Str("position_id", positionID).
			Msg("failed to publish position event")
	}
}
