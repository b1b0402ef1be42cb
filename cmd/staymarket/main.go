package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	CommissionApp "staymarket/internal/app/handlers/commissions"
	PricingApp "staymarket/internal/app/handlers/pricing"
	PromotionApp "staymarket/internal/app/handlers/promotions"
	SpecialPriceApp "staymarket/internal/app/handlers/specialprices"
	"staymarket/internal/app/middleware"
	appoutbox "staymarket/internal/app/outbox"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/resolve"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	"staymarket/internal/domain/shared/money"
	s3archive "staymarket/internal/infra/archive/s3"
	"staymarket/internal/infra/broker/kafka"
	"staymarket/internal/infra/cache"
	"staymarket/internal/infra/config"
	mongodb "staymarket/internal/infra/db/mongo"
	ginserver "staymarket/internal/infra/http/gin"
	"staymarket/internal/infra/obs"
	infraoutbox "staymarket/internal/infra/outbox"
	"staymarket/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg = config.Config{Env: env, HTTPAddr: getenv("HTTP_ADDR", ":8080"), StorageMode: "memory", CacheMode: "memory", CommissionCacheTTL: resolve.DefaultTTL}
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Probes: app.probes}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "cache", cfg.CacheMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	probes   map[string]func() error
	worker   *infraoutbox.Worker
	closers  []func() error
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{probes: map[string]func() error{}}

	var (
		uowFactory      uow.UoWFactory
		commissionStore domaincommissions.Store
		outboxStore     appoutbox.Outbox
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		app.probes["mongo"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		store := mongodb.NewCommissionStore(client.DB)
		commissionStore = store
		uowFactory = mongodb.Factory{
			DB:               client.DB,
			CatalogRepo:      mongodb.NewCatalogRepository(client.DB),
			PromotionRepo:    mongodb.NewPromotionRepository(client.DB),
			SpecialPriceRepo: mongodb.NewSpecialPriceRepository(client.DB),
			CommissionStore:  store,
			RentRepo:         mongodb.NewRentRepository(client.DB),
		}
		mongoOutbox := infraoutbox.NewStore(client.DB)
		outboxStore = mongoOutbox
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, err
			}
			app.closers = append(app.closers, producer.Close)
			app.worker = &infraoutbox.Worker{
				Store:       mongoOutbox,
				Producer:    producer,
				Logger:      logger,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		}
	default:
		catalogRepo := memory.NewCatalogRepository()
		store := memory.NewCommissionStore()
		commissionStore = store
		uowFactory = memory.Factory{
			CatalogRepo:      catalogRepo,
			PromotionRepo:    memory.NewPromotionRepository(),
			SpecialPriceRepo: memory.NewSpecialPriceRepository(),
			CommissionStore:  store,
			RentRepo:         memory.NewRentRepository(),
		}
		outboxStore = memory.NewOutbox()
		if cfg.Env == "dev" || cfg.Env == "local" {
			seedDemoCatalog(ctx, catalogRepo, store, logger)
		}
	}

	var ratesCache resolve.Cache
	switch cfg.CacheMode {
	case "redis":
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, "staymarket:")
		app.probes["redis"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisCache.Ping(pingCtx)
		}
		app.closers = append(app.closers, redisCache.Close)
		ratesCache = redisCache
	default:
		ratesCache = cache.NewMemory()
	}

	resolver := resolve.NewResolver(commissionStore, ratesCache, logger)
	if cfg.CommissionCacheTTL > 0 {
		resolver.TTL = cfg.CommissionCacheTTL
	}

	archiver := buildArchiver(cfg, logger)
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	confirmBooking := &PricingApp.ConfirmBookingHandler{
		Logger:     logger,
		Commission: resolver,
		Archiver:   archiver,
		Outbox:     outboxStore,
		Encoder:    encoder,
		UoWFactory: uowFactory,
	}
	commands.RegisterHandler(commandBus, PricingApp.ConfirmBookingCommand{}.Key(), confirmBooking)

	propose := &PromotionApp.ProposePromotionHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder, UoWFactory: uowFactory}
	commands.RegisterHandler(commandBus, PromotionApp.ProposePromotionCommand{}.Key(), propose)
	confirmOverlap := &PromotionApp.ConfirmOverlapHandler{Logger: logger, Outbox: outboxStore, Encoder: encoder, UoWFactory: uowFactory}
	commands.RegisterHandler(commandBus, PromotionApp.ConfirmOverlapCommand{}.Key(), confirmOverlap)

	configure := &CommissionApp.ConfigureHandler{Logger: logger, Cache: resolver, Outbox: outboxStore, Encoder: encoder, UoWFactory: uowFactory}
	commands.RegisterHandler(commandBus, CommissionApp.CreateCommissionCommand{}.Key(), commands.HandlerFunc[CommissionApp.CreateCommissionCommand, *dto.Commission](configure.HandleCreate))
	commands.RegisterHandler(commandBus, CommissionApp.UpdateCommissionCommand{}.Key(), commands.HandlerFunc[CommissionApp.UpdateCommissionCommand, *dto.Commission](configure.HandleUpdate))
	commands.RegisterHandler(commandBus, CommissionApp.DeleteCommissionCommand{}.Key(), commands.HandlerFunc[CommissionApp.DeleteCommissionCommand, struct{}](configure.HandleDelete))
	commands.RegisterHandler(commandBus, CommissionApp.ToggleCommissionCommand{}.Key(), commands.HandlerFunc[CommissionApp.ToggleCommissionCommand, *dto.Commission](configure.HandleToggle))
	commands.RegisterHandler(commandBus, CommissionApp.UpsertSettingsCommand{}.Key(), commands.HandlerFunc[CommissionApp.UpsertSettingsCommand, *dto.CommissionSettings](configure.HandleUpsertSettings))

	queryBus := queries.NewInMemoryBus()
	quote := &PricingApp.QuoteBookingHandler{Logger: logger, Commission: resolver, UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, PricingApp.QuoteBookingQuery{}.Key(), quote)
	queries.RegisterHandler(queryBus, PromotionApp.ListPromotionsQuery{}.Key(), &PromotionApp.ListPromotionsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, SpecialPriceApp.ListSpecialPricesQuery{}.Key(), &SpecialPriceApp.ListSpecialPricesHandler{UoWFactory: uowFactory})

	commissionQueries := &CommissionApp.QueryHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, CommissionApp.GetByTypeQuery{}.Key(), queries.HandlerFunc[CommissionApp.GetByTypeQuery, *dto.Commission](commissionQueries.HandleGetByType))
	queries.RegisterHandler(queryBus, CommissionApp.ListCommissionsQuery{}.Key(), queries.HandlerFunc[CommissionApp.ListCommissionsQuery, []dto.Commission](commissionQueries.HandleList))
	queries.RegisterHandler(queryBus, CommissionApp.MissingTypesQuery{}.Key(), queries.HandlerFunc[CommissionApp.MissingTypesQuery, []dto.PropertyType](commissionQueries.HandleMissingTypes))
	queries.RegisterHandler(queryBus, CommissionApp.CurrentSettingsQuery{}.Key(), queries.HandlerFunc[CommissionApp.CurrentSettingsQuery, *dto.CommissionSettings](commissionQueries.HandleCurrentSettings))

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Pricing:    ginserver.PricingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Promotion:  ginserver.PromotionHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Commission: ginserver.CommissionHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
	}
	return app, nil
}

// buildArchiver wires the S3 snapshot store when an endpoint is configured.
// Bookings must not depend on object storage being up, so any wiring failure
// degrades to the no-op archiver.
func buildArchiver(cfg config.Config, logger *slog.Logger) policies.SnapshotArchiver {
	if cfg.S3Endpoint == "" {
		return s3archive.NoopArchiver{}
	}
	archiver, err := s3archive.NewArchiver(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
	if err != nil {
		logger.Warn("snapshot archiver unavailable, archiving disabled", "error", err)
		return s3archive.NoopArchiver{}
	}
	return archiver
}

// seedDemoCatalog gives the zero-config memory mode something to quote
// against: two property types, one product, one extra and a global fallback
// commission.
func seedDemoCatalog(ctx context.Context, catalog *memory.CatalogRepository, store *memory.CommissionStore, logger *slog.Logger) {
	now := time.Now().UTC()
	_ = catalog.SavePropertyType(ctx, &domaincatalog.PropertyType{ID: "pt-apartment", Name: "Apartment"})
	_ = catalog.SavePropertyType(ctx, &domaincatalog.PropertyType{ID: "pt-hotel", Name: "Hotel", IsHotelType: true})
	_ = catalog.SaveProduct(ctx, &domaincatalog.Product{
		ID:             "prod-demo",
		Title:          "Seaside apartment",
		BasePrice:      money.Cents(10000),
		PropertyTypeID: "pt-apartment",
		OwnerID:        "host-demo",
	})
	_ = catalog.SaveExtra(ctx, &domaincatalog.Extra{ID: "extra-cleaning", Name: "Cleaning", Price: money.Cents(3000)})
	_ = store.SaveSettings(ctx, &domaincommissions.Settings{
		ID:        "settings-demo",
		Rates:     domaincommissions.Rates{HostRate: 0.10, HostFixed: money.Cents(0), ClientRate: 0.05, ClientFixed: money.Cents(0)},
		Active:    true,
		CreatedAt: now,
	})
	logger.Info("demo catalog seeded", "product_id", "prod-demo")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
