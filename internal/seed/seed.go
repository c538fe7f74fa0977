// Package seed loads the simulated positions a reporting session starts from.
package seed

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
)

// File is the layout of a seed file
type File struct {
	Agents []Agent `toml:"agents"`
}

// Agent lists the positions seeded for one agent
type Agent struct {
	ID        string     `toml:"id"`
	Positions []Position `toml:"positions"`
}

// Position is a seeded holding. Decimal fields accept quoted or bare numbers.
type Position struct {
	ID           string          `toml:"id"`
	Asset        string          `toml:"asset"`
	Amount       decimal.Decimal `toml:"amount"`
	EntryPrice   decimal.Decimal `toml:"entry_price"`
	CurrentPrice decimal.Decimal `toml:"current_price"`
}

// Adder is implemented by portfolio.Manager
type Adder interface {
	AddPosition(agentID string, position portfolio.Position)
}

// Load reads a seed file, keeping agents and positions in file order
func Load(path string) ([]Agent, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	if err := validate(f.Agents); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return f.Agents, nil
}

// Default returns the demonstration positions of the portfolio reporting agent
func Default(agentID string) []Agent {
	return []Agent{{
		ID: agentID,
		Positions: []Position{
			{
				ID:           "apt-aries-1",
				Asset:        "APT",
				Amount:       decimal.NewFromInt(100),
				EntryPrice:   decimal.RequireFromString("8.50"),
				CurrentPrice: decimal.RequireFromString("9.20"),
			},
			{
				ID:           "apt-usdc-lp-pancake-1",
				Asset:        "APT-USDC LP",
				Amount:       decimal.NewFromInt(50),
				EntryPrice:   decimal.RequireFromString("1.00"),
				CurrentPrice: decimal.RequireFromString("1.05"),
			},
		},
	}}
}

// Apply adds every seeded position to target and returns how many were added
func Apply(target Adder, agents []Agent) int {
	n := 0
	for _, a := range agents {
		for _, p := range a.Positions {
			target.AddPosition(a.ID, portfolio.NewPosition(p.ID, p.Asset, p.Amount, p.EntryPrice, p.CurrentPrice))
			n++
		}
	}
	return n
}

func validate(agents []Agent) error {
	for i, a := range agents {
		if a.ID == "" {
			return fmt.Errorf("agents[%d]: id is required", i)
		}
		for j, p := range a.Positions {
			if p.ID == "" {
				return fmt.Errorf("agents[%d].positions[%d]: id is required", i, j)
			}
			if p.Asset == "" {
				return fmt.Errorf("agents[%d].positions[%d]: asset is required", i, j)
			}
			if p.Amount.IsNegative() {
				return fmt.Errorf("agents[%d].positions[%d]: negative amount %s", i, j, p.Amount)
			}
		}
	}
	return nil
}
