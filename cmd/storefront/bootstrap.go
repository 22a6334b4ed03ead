package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/luxe-storefront/api/controllers"
	"github.com/angelmondragon/luxe-storefront/internal/analytics"
	"github.com/angelmondragon/luxe-storefront/internal/catalog"
	"github.com/angelmondragon/luxe-storefront/internal/codec"
	"github.com/angelmondragon/luxe-storefront/internal/persistence"
	"github.com/angelmondragon/luxe-storefront/internal/store"
	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"github.com/angelmondragon/luxe-storefront/pkg/db"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
	"github.com/angelmondragon/luxe-storefront/pkg/metrics"
	"github.com/angelmondragon/luxe-storefront/pkg/migrate"
	"github.com/angelmondragon/luxe-storefront/pkg/pubsub"
	"github.com/angelmondragon/luxe-storefront/pkg/redis"
	"github.com/angelmondragon/luxe-storefront/pkg/storage/gcs"
)

type application struct {
	manager  *store.Manager
	registry *prometheus.Registry
	pingers  map[string]controllers.Pinger
	closers  []func() error
	stoppers []func()
}

// close flushes the cart before releasing the clients it writes through.
func (a *application) close(ctx context.Context) error {
	var err error
	if a.manager != nil {
		err = multierr.Append(err, a.manager.Close(ctx))
	}
	for _, stop := range a.stoppers {
		stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}

func bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (_ *application, err error) {
	app := &application{
		registry: prometheus.NewRegistry(),
		pingers:  map[string]controllers.Pinger{},
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, app.close(context.Background()))
		}
	}()

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storeMetrics := metrics.NewStoreMetrics(app.registry)

	backend, err := storageBackend(ctx, cfg, logg, app)
	if err != nil {
		return nil, err
	}
	slot, err := persistence.NewAdapter(backend, cfg.Storage, logg, storeMetrics)
	if err != nil {
		return nil, err
	}

	source, err := catalogSource(ctx, cfg, logg, app)
	if err != nil {
		return nil, err
	}
	loader, err := catalog.NewLoader(source, cfg.Catalog, storeMetrics)
	if err != nil {
		return nil, err
	}

	cartCodec, err := codec.New(cfg.Codec.Secret)
	if err != nil {
		return nil, err
	}

	sink, err := analyticsSink(ctx, cfg, logg, app)
	if err != nil {
		return nil, err
	}
	tracker, err := analytics.NewTracker(sink, cfg.Analytics.Currency, logg)
	if err != nil {
		return nil, err
	}

	app.manager, err = store.NewManager(store.Params{
		Loader:   loader,
		Slot:     slot,
		Codec:    cartCodec,
		Notifier: store.NewLogNotifier(logg),
		Tracker:  tracker,
		Metrics:  storeMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func storageBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger, app *application) (persistence.Backend, error) {
	deps := persistence.BackendDeps{Dir: cfg.Storage.Dir}

	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		app.pingers["redis"] = client
		deps.Redis = client
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		app.pingers["database"] = client
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		deps.DB = client.DB()
	}

	return persistence.NewBackend(cfg.Storage.Driver, deps)
}

func catalogSource(ctx context.Context, cfg *config.Config, logg *logger.Logger, app *application) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceHTTP:
		return catalog.NewHTTPSource(cfg.Catalog.BaseURL, &http.Client{Timeout: cfg.Catalog.Timeout}), nil
	case config.CatalogSourceGCS:
		client, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap gcs: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		app.pingers["gcs"] = client
		return catalog.NewGCSSource(client), nil
	default:
		return catalog.NewFileSource(cfg.Catalog.Dir), nil
	}
}

// analyticsSink publishes to Pub/Sub when a topic is configured and falls
// back to the log otherwise.
func analyticsSink(ctx context.Context, cfg *config.Config, logg *logger.Logger, app *application) (analytics.Sink, error) {
	if cfg.Analytics.PubSubTopic == "" {
		return analytics.NewLogSink(logg), nil
	}
	client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.Analytics.PubSubTopic, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap pubsub: %w", err)
	}
	app.closers = append(app.closers, client.Close)
	app.pingers["pubsub"] = client

	publisher := client.AnalyticsPublisher()
	app.stoppers = append(app.stoppers, publisher.Stop)
	return analytics.NewPubSubSink(publisher), nil
}
