package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"focusframe-server/internal/config"
	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/infrastructure/logger"
	"focusframe-server/internal/infrastructure/observability"
	"focusframe-server/internal/interfaces/httpserver"
	"focusframe-server/internal/interfaces/httpserver/handlers"
	"focusframe-server/internal/interfaces/httpserver/routes"
)

// @title FocusFrame API
// @version 1.0
// @description Sphere of Control item service: live item snapshots, bucket moves, recategorization suggestions and voice intake.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	dispatcher *advisory.Dispatcher
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, dispatcher *advisory.Dispatcher, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Start serves until ctx is cancelled or the server fails. Advisory calls
// are drained only after the server has stopped handling requests, so no
// request can trigger one behind the drain.
func (a *Application) Start(ctx context.Context) error {
	err := a.httpServer.Run(ctx)
	a.log.Info().Msg("waiting for advisory calls")
	a.dispatcher.Wait()
	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("application exited cleanly")
}

// run owns every resource so deferred cleanups finish before main exits.
func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, closeStorage, err := newStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer closeStorage()

	feed, closeFeed, err := newChangeFeed(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize change feed: %w", err)
	}
	defer closeFeed()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize auth validator: %w", err)
	}

	advisor, err := newAdvisor(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize advisory: %w", err)
	}

	hub := notice.NewHub(log)
	items := item.NewStore(itemRepository(store), feed, log)
	dispatcher := newDispatcher(advisor, items, hub, log)
	coordinator := newCoordinator(items, dispatcher, hub, log)
	voiceService := newVoiceService(cfg, newTranscriber(cfg, log), coordinator, hub, log)
	owners := newOwnerService(ownerRepository(store), items, log)

	handlerProvider := handlers.NewProvider(
		handlers.NewItemHandler(coordinator, items),
		handlers.NewVoiceHandler(voiceService),
		handlers.NewAccountHandler(owners),
		handlers.NewStreamHandler(cfg, items, hub, owners, authValidator, log),
	)
	routeProvider := routes.NewProvider(handlerProvider, log)

	httpServer := httpserver.New(cfg, log, routeProvider, authValidator, readinessProbe(store, feed))
	app := NewApplication(httpServer, dispatcher, log)

	return app.Start(ctx)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
