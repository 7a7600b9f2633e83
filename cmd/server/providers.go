package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"focusframe-server/internal/config"
	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/domain/voice"
	"focusframe-server/internal/infrastructure/changefeed"
	"focusframe-server/internal/infrastructure/database"
	"focusframe-server/internal/infrastructure/llm"
	"focusframe-server/internal/infrastructure/repository/itemrepo"
	"focusframe-server/internal/infrastructure/repository/ownerrepo"
	"focusframe-server/internal/infrastructure/transcription"
	"focusframe-server/internal/interfaces/httpserver"
)

// storage groups the repositories of the configured driver.
type storage struct {
	items  item.Repository
	owners owner.Repository
	ready  httpserver.ReadinessProbe
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory item store, data is lost on restart")
		return &storage{
			items:  itemrepo.NewInMemoryRepository(),
			owners: ownerrepo.NewInMemoryRepository(),
		}, func() {}, nil
	}

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &storage{
		items:  itemrepo.NewPostgresRepository(db, log),
		owners: ownerrepo.NewPostgresRepository(db),
		ready: func(ctx context.Context) error {
			return database.Ping(db.WithContext(ctx))
		},
	}, cleanup, nil
}

func itemRepository(s *storage) item.Repository { return s.items }

func ownerRepository(s *storage) owner.Repository { return s.owners }

type pinger interface {
	Ping(ctx context.Context) error
}

// readinessProbe checks the database and the change feed concurrently.
func readinessProbe(s *storage, feed item.ChangeFeed) httpserver.ReadinessProbe {
	var checks []func(context.Context) error
	if s.ready != nil {
		checks = append(checks, s.ready)
	}
	if p, ok := feed.(pinger); ok {
		checks = append(checks, p.Ping)
	}
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		eg, gctx := errgroup.WithContext(ctx)
		for _, check := range checks {
			check := check
			eg.Go(func() error { return check(gctx) })
		}
		return eg.Wait()
	}
}

func newChangeFeed(ctx context.Context, cfg *config.Config, log zerolog.Logger) (item.ChangeFeed, func(), error) {
	if cfg.ChangeFeed != config.ChangeFeedRedis {
		return changefeed.NewMemoryFeed(), func() {}, nil
	}

	feed, err := changefeed.NewRedisFeed(cfg.RedisURL, cfg.RedisChannelPrefix, log)
	if err != nil {
		return nil, nil, err
	}
	if err := feed.Start(ctx); err != nil {
		_ = feed.Close()
		return nil, nil, fmt.Errorf("start change feed: %w", err)
	}
	return feed, func() {
		if err := feed.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}, nil
}

func newAdvisor(cfg *config.Config, log zerolog.Logger) (advisory.Advisor, error) {
	if !cfg.AdvisoryEnabled {
		log.Info().Msg("recategorization advisory disabled")
		return advisory.Disabled{}, nil
	}

	client := llm.NewClient(cfg.AdvisoryBaseURL, cfg.AdvisoryAPIKey, cfg.AdvisoryModel, cfg.AdvisoryTimeout, log)
	if cfg.AdvisoryCacheSize <= 0 {
		return client, nil
	}
	return llm.NewCachedAdvisor(client, cfg.AdvisoryCacheSize)
}

func newDispatcher(advisor advisory.Advisor, store item.Store, hub *notice.Hub, log zerolog.Logger) *advisory.Dispatcher {
	return advisory.NewDispatcher(advisor, store, hub, log)
}

func newCoordinator(store item.Store, dispatcher *advisory.Dispatcher, hub *notice.Hub, log zerolog.Logger) *item.Coordinator {
	return item.NewCoordinator(store, dispatcher, hub, log)
}

func newTranscriber(cfg *config.Config, log zerolog.Logger) voice.Transcriber {
	return transcription.NewClient(cfg.TranscriptionBaseURL, cfg.TranscriptionAPIKey, cfg.TranscriptionModel, cfg.TranscriptionTimeout, log)
}

func newVoiceService(cfg *config.Config, transcriber voice.Transcriber, coordinator *item.Coordinator, hub *notice.Hub, log zerolog.Logger) *voice.Service {
	return voice.NewService(transcriber, coordinator, hub, cfg.TranscriptionMaxBytes, log)
}

func newOwnerService(repo owner.Repository, store item.Store, log zerolog.Logger) *owner.Service {
	return owner.NewService(repo, store, log)
}
