//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"focusframe-server/internal/config"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/infrastructure/logger"
	"focusframe-server/internal/interfaces/httpserver"
	"focusframe-server/internal/interfaces/httpserver/handlers"
	"focusframe-server/internal/interfaces/httpserver/routes"
)

var storageSet = wire.NewSet(
	newStorage,
	itemRepository,
	ownerRepository,
	readinessProbe,
	newChangeFeed,
	item.NewStore,
)

var domainSet = wire.NewSet(
	notice.NewHub,
	newAdvisor,
	newDispatcher,
	newCoordinator,
	newTranscriber,
	newVoiceService,
	newOwnerService,
)

// BuildApplication assembles the service graph with Wire.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		storageSet,
		domainSet,
		handlers.HandlerProvider,
		routes.RouteProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
