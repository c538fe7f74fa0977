// Package report renders an agent's portfolio as a markdown report.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
)

const noPositions = "No positions held in the portfolio.\n"

// Build renders the positions and their total value. Prices and values are
// shown with two decimals, amounts as held.
func Build(positions []portfolio.Position, total decimal.Decimal) string {
	var b strings.Builder

	b.WriteString("## DeFi Portfolio Report\n\n")
	fmt.Fprintf(&b, "**Total Portfolio Value:** $%s\n\n", total.StringFixed(2))
	b.WriteString("**Positions:**\n")

	if len(positions) == 0 {
		b.WriteString(noPositions)
		return b.String()
	}

	for _, p := range positions {
		fmt.Fprintf(&b, "- **Position ID:** %s\n", p.ID)
		fmt.Fprintf(&b, "  - **Asset:** %s\n", p.Asset)
		fmt.Fprintf(&b, "  - **Amount:** %s\n", p.Amount.String())
		fmt.Fprintf(&b, "  - **Entry Price:** $%s\n", p.EntryPrice.StringFixed(2))
		fmt.Fprintf(&b, "  - **Current Price:** $%s\n", p.CurrentPrice.StringFixed(2))
		fmt.Fprintf(&b, "  - **Value:** $%s\n\n", p.Value().StringFixed(2))
	}

	return b.String()
}
