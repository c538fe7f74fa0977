package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/trogers1052/defi-portfolio-agents/internal/config"
	"github.com/trogers1052/defi-portfolio-agents/internal/logger"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
	"github.com/trogers1052/defi-portfolio-agents/internal/report"
	"github.com/trogers1052/defi-portfolio-agents/internal/seed"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	seedPath := flag.String("seed", cfg.Portfolio.SeedFile, "path to a TOML seed file (default: built-in simulated positions)")
	agentID := flag.String("agent", "", "only report this agent")
	flag.Parse()

	agents := seed.Default(cfg.Portfolio.AgentID)
	if *seedPath != "" {
		loaded, err := seed.Load(*seedPath)
		if err != nil {
			log.Fatal().Err(err).Str("seed", *seedPath).Msg("load seed failed")
		}
		agents = loaded
	}

	positions := portfolio.NewManager()
	added := seed.Apply(positions, agents)
	log.Debug().Int("agents", len(agents)).Int("positions", added).Msg("portfolio seeded")

	ids := positions.Agents()
	if *agentID != "" {
		ids = []string{*agentID}
	}
	if len(ids) == 0 {
		// Still render an empty report for the session's own agent.
		ids = []string{cfg.Portfolio.AgentID}
	}

	for _, id := range ids {
		fmt.Fprintf(os.Stdout, "\n\nPortfolio Report (%s):\n", id)
		fmt.Fprint(os.Stdout, report.Build(positions.Positions(id), positions.PortfolioValue(id)))
	}
}
