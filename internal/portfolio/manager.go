package portfolio

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Manager holds the positions of every agent in a reporting session and
// memoizes each agent's portfolio value until the next mutation.
//
// Positions are stored and returned by value, so the only way to change a
// held position is through the manager. The zero value is ready to use.
type Manager struct {
	mu         sync.Mutex
	positions  map[string][]Position
	valueCache map[string]decimal.Decimal
	now        func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the clock used to stamp price updates
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an empty Manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		positions:  make(map[string][]Position),
		valueCache: make(map[string]decimal.Decimal),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddPosition appends a position to the agent's portfolio.
// Position IDs are not checked for uniqueness.
func (m *Manager) AddPosition(agentID string, position Position) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.positions == nil {
		m.positions = make(map[string][]Position)
	}
	m.positions[agentID] = append(m.positions[agentID], position)
	delete(m.valueCache, agentID)
}

// Positions returns a copy of the agent's positions in insertion order.
// Unknown agents yield an empty slice.
func (m *Manager) Positions(agentID string) []Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	held := m.positions[agentID]
	out := make([]Position, len(held))
	copy(out, held)
	return out
}

// RemovePosition removes every position of the agent with the given ID and
// returns how many were removed. Unknown agents and IDs are a no-op.
func (m *Manager) RemovePosition(agentID, positionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	held, ok := m.positions[agentID]
	if !ok {
		return 0
	}

	kept := make([]Position, 0, len(held))
	for _, p := range held {
		if p.ID != positionID {
			kept = append(kept, p)
		}
	}
	m.positions[agentID] = kept
	delete(m.valueCache, agentID)

	return len(held) - len(kept)
}

// UpdatePosition sets the current price of the FIRST position of the agent
// with the given ID. Later positions sharing that ID are left untouched,
// unlike RemovePosition which drops them all. Returns a copy of the updated
// position and whether one matched.
func (m *Manager) UpdatePosition(agentID, positionID string, newCurrentPrice decimal.Decimal) (Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	held := m.positions[agentID]
	for i := range held {
		if held[i].ID == positionID {
			held[i].updateCurrentPrice(newCurrentPrice, m.clock())
			delete(m.valueCache, agentID)
			return held[i], true
		}
	}
	return Position{}, false
}

// PortfolioValue returns the total value of the agent's positions, computing
// it only when no cached total exists.
func (m *Manager) PortfolioValue(agentID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.value(agentID)
}

// Snapshot returns a copy of the agent's positions together with their
// total value, both read under the same lock.
func (m *Manager) Snapshot(agentID string) ([]Position, decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	held := m.positions[agentID]
	out := make([]Position, len(held))
	copy(out, held)
	return out, m.value(agentID)
}

// value must be called with mu held
func (m *Manager) value(agentID string) decimal.Decimal {
	if v, ok := m.valueCache[agentID]; ok {
		return v
	}

	total := decimal.Zero
	for _, p := range m.positions[agentID] {
		total = total.Add(p.Value())
	}
	if m.valueCache == nil {
		m.valueCache = make(map[string]decimal.Decimal)
	}
	m.valueCache[agentID] = total
	return total
}

// Agents returns the IDs of all agents that ever held a position, sorted
func (m *Manager) Agents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	agents := make([]string, 0, len(m.positions))
	for id := range m.positions {
		agents = append(agents, id)
	}
	sort.Strings(agents)
	return agents
}

func (m *Manager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *Manager) cachedValue(agentID string) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.valueCache[agentID]
	return v, ok
}
