package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/trogers1052/defi-portfolio-agents/internal/api"
	"github.com/trogers1052/defi-portfolio-agents/internal/config"
	"github.com/trogers1052/defi-portfolio-agents/internal/kafka"
	"github.com/trogers1052/defi-portfolio-agents/internal/logger"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
	"github.com/trogers1052/defi-portfolio-agents/internal/redis"
	"github.com/trogers1052/defi-portfolio-agents/internal/seed"
	"github.com/trogers1052/defi-portfolio-agents/internal/service"
	"github.com/trogers1052/defi-portfolio-agents/internal/ws"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := cfg.Portfolio.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	positions := portfolio.NewManager()
	if cfg.Portfolio.SeedFile != "" {
		agents, err := seed.Load(cfg.Portfolio.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("seed", cfg.Portfolio.SeedFile).Msg("load seed failed")
		}
		log.Info().Int("positions", seed.Apply(positions, agents)).Msg("portfolio seeded")
	}

	hub := ws.NewHub()
	publishers := service.MultiPublisher{hub}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publishers = append(publishers, producer)
	} else {
		log.Warn().Msg("kafka publishing disabled by config")
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis failed")
		}
		defer rdb.Close()
		publishers = append(publishers, rdb)
	}

	svc := service.NewPortfolioService(positions, publishers, sessionID)
	router := api.SetupRoutes(api.NewHandler(svc), hub.HandleWS)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	if cfg.Kafka.ConsumeEnabled {
		consumer := kafka.NewPositionsConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, sessionID, positions)
		g.Go(func() error {
			return consumer.Start(gctx)
		})
	}

	g.Go(func() error {
		log.Info().
			Str("addr", server.Addr).
			Str("session", sessionID).
			Bool("kafka", cfg.Kafka.Enabled).
			Bool("redis", cfg.Redis.Enabled).
			Msg("portfolio server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}
