// README: Dependency wiring shared by every subcommand.
package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"swiftcab/internal/ai"
	"swiftcab/internal/config"
	"swiftcab/internal/infra"
	"swiftcab/internal/maps"
	"swiftcab/internal/modules/aiusage"
	"swiftcab/internal/modules/extract"
	"swiftcab/internal/modules/negotiation"
	"swiftcab/internal/modules/pricing"
	"swiftcab/internal/modules/temporal"
	"swiftcab/internal/service"
	"swiftcab/internal/session"
)

type app struct {
	cfg       config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	quota     *aiusage.Service
	extractor *extract.Extractor
	assistant *service.Assistant
	sessions  session.Store

	closers []func()
}

func newApp(ctx context.Context, cfgFile string) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := infra.NewLogger(cfg.IsProduction(), cfg.Log.Level, cfg.Log.Output)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("database: %w", err)
		}
		a.db = pool
		a.quota = aiusage.NewService(aiusage.NewStore(pool))
		a.closers = append(a.closers, pool.Close)
	}

	var assist ai.LocationExtractor
	if cfg.AI.GeminiKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			logger.Warn("gemini disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, provider.Close)
			assist = provider
			if a.quota != nil {
				assist = ai.NewMetered(provider, a.quota, cfg.AI.User)
			}
		}
	}

	a.extractor = extract.New(extract.Options{
		Assist:        assist,
		MinConfidence: cfg.AI.MinConfidence,
		Logger:        logger.Named("extract"),
	})

	deps := service.AssistantDeps{
		Extractor: a.extractor,
		Resolver: temporal.NewResolver(temporal.NewWhenParser(), temporal.Options{
			Location:    loc,
			MaxAttempts: cfg.Booking.MaxAttempts,
			Logger:      logger.Named("temporal"),
		}),
		Pricing: pricing.NewService(pricing.NewStore(cfg.Booking.Currency)),
		Negotiator: negotiation.NewEngine(negotiation.Options{
			MaxAttempts: cfg.Booking.MaxAttempts,
			Logger:      logger.Named("negotiation"),
		}),
		MaxAttempts: cfg.Booking.MaxAttempts,
		Logger:      logger.Named("assistant"),
	}

	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Region, cfg.Maps.Language)
		if err != nil {
			logger.Warn("route estimates disabled", zap.Error(err))
		} else {
			deps.Routes = routes
		}
	}

	if cfg.Redis.Addr != "" {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		deps.Sessions = session.NewRedisStore(client, cfg.Redis.SessionTTL)
	} else {
		deps.Sessions = session.NewMemoryStore()
	}

	a.sessions = deps.Sessions
	a.assistant = service.NewAssistant(deps)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
