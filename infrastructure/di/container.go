// Package di wires the service's components together for the entrypoints.
package di

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/application/services"
	"github.com/MozartLino/claims-service/infrastructure/clock"
	"github.com/MozartLino/claims-service/infrastructure/config"
	"github.com/MozartLino/claims-service/infrastructure/idgen"
	dynamorepo "github.com/MozartLino/claims-service/infrastructure/persistence/dynamodb"
	"github.com/MozartLino/claims-service/interfaces/http/rest"
	"github.com/MozartLino/claims-service/interfaces/http/rest/handlers"
)

// Container holds the fully wired application.
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	ItemService   *services.ItemService
	ClaimsService *services.ClaimsService
	Handler       http.Handler
}

// NewContainer builds the application from configuration down to the HTTP
// handler tree.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	client, err := dynamorepo.NewClient(ctx, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("building dynamodb client: %w", err)
	}

	itemRepo := dynamorepo.NewItemRepository(client, cfg.ItemsTableName, logger)
	claimsRepo := dynamorepo.NewClaimsRepository(client, cfg.ClaimsTableName, cfg.ClaimsByMemberAndDateIndex, logger)

	sysClock := clock.NewSystemClock()
	idGenerator := idgen.NewUUIDGenerator()

	itemService := services.NewItemService(itemRepo, itemRepo, idGenerator, sysClock, logger)
	claimsService := services.NewClaimsService(claimsRepo, sysClock, logger)

	itemHandler := handlers.NewItemHandler(itemService, logger)
	claimsHandler := handlers.NewClaimsHandler(claimsService, logger)
	router := rest.NewRouter(itemHandler, claimsHandler, logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		ItemService:   itemService,
		ClaimsService: claimsService,
		Handler:       router.Setup(),
	}, nil
}

// Close flushes buffered log entries.
func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Sync()
	}
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
