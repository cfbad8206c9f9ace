package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/sunfresh/catalog/config"
	"github.com/sunfresh/catalog/internal/adapter/httphandler"
	"github.com/sunfresh/catalog/internal/adapter/kafka"
	"github.com/sunfresh/catalog/internal/adapter/loader"
	"github.com/sunfresh/catalog/internal/adapter/storage"
	"github.com/sunfresh/catalog/internal/core/catalog"
	"github.com/sunfresh/catalog/internal/core/port"
	"github.com/sunfresh/catalog/internal/core/recommend"
	"github.com/sunfresh/catalog/internal/core/search"
	"github.com/sunfresh/catalog/internal/core/service"
	"github.com/sunfresh/catalog/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type App struct {
	ctx        context.Context
	cfg        config.Config
	store      *catalog.Store
	service    service.Service
	producer   *kafka.ClientEventsProducer
	sqlClose   func() error
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initEventReporter()
	app.initCoreService()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var source port.CatalogSource
	switch app.cfg.Catalog.Source {
	case config.SourceSQL:
		sqlSource, err := storage.NewSQLSource(app.ctx, app.cfg.Catalog.SQLDSN)
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqlClose = sqlSource.Close
		source = sqlSource
	default:
		source = loader.NewFileSource(
			app.cfg.Catalog.ProductsPath,
			app.cfg.Catalog.StockPath,
		)
	}

	app.store = catalog.NewStore(source)
}

func (app *App) initEventReporter() {
	const op = "App.initEventReporter"

	if !app.cfg.Broker.Enabled {
		return
	}

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	subject := app.cfg.Broker.ClientEventsTopic + "-value"
	serde, err := schema.NewSerdeClientEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.ClientEventsTopic,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producer = &producer
}

func (app *App) initCoreService() {
	var reporter port.EventReporter
	if app.producer != nil {
		reporter = *app.producer
	}

	app.service = service.New(
		app.store,
		search.NewEngine(app.store),
		recommend.NewEngine(app.store, app.cfg.Recommend),
		reporter,
	)
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterSearch(mux, app.service)
	httphandler.RegisterRecommendations(mux, app.service)
	httphandler.RegisterEvents(mux, app.service)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	// A failed load is degraded service, not downtime: the engine
	// keeps answering with an empty catalog.
	if err := app.service.Initialize(app.ctx); err != nil {
		slog.Warn("starting with empty catalog", "err", err)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.producer != nil {
		app.producer.Close()
	}
	if app.sqlClose != nil {
		if err := app.sqlClose(); err != nil {
			slog.Error("failed to close sql source", "err", err)
		}
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
