// Package bootstrap wires configuration into the screening service. Optional
// backends (Postgres, Redis, RabbitMQ, Drive, Sheets, S3) are only connected
// when configured; a backend that fails to come up is logged and skipped.
package bootstrap

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/screening"
	"alfredoptarigan/cv-screener/internal/services"
)

type Components struct {
	Screening services.ScreeningService
	Storage   services.StorageService
	Registry  *services.JobRegistry
	Metrics   *metrics.Manager

	closers []func()
}

// Close releases every connection opened by Build.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func Build(ctx context.Context, cfg *config.Config, rules *config.Rules, log *zap.Logger) (*Components, error) {
	c := &Components{
		Metrics:  metrics.NewManager(),
		Registry: services.NewJobRegistry(rules.Table()),
	}

	storage := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storage.EnsureUploadDir(); err != nil {
		return nil, err
	}
	c.Storage = storage
	log.Info("✅ Storage ready", zap.String("upload_path", cfg.Storage.UploadPath))

	local := services.NewLocalPlacer(cfg.Storage.ShortlistPath)

	var (
		sinks   []services.ResultSink
		placers = []services.FilePlacer{local}
		source  services.SubmissionSource
		records repositories.ScoreRecordRepository
	)

	if cfg.Google.SheetID != "" {
		sheets, err := services.NewSheetsService(ctx, cfg.Google)
		if err != nil {
			log.Warn("⚠️  Google Sheets unavailable", zap.Error(err))
		} else {
			source = sheets
			sinks = append(sinks, sheets)
			log.Info("✅ Google Sheets connected", zap.String("sheet_id", cfg.Google.SheetID))
		}
	}

	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Warn("⚠️  Database unavailable, results will not be stored", zap.Error(err))
		} else {
			records = repositories.NewScoreRecordRepository(db)
			sinks = append(sinks, services.NewDBSink(records))
			if sqlDB, err := db.DB(); err == nil {
				c.closers = append(c.closers, func() { sqlDB.Close() })
			}
		}
	}

	if cfg.AMQP.URL != "" {
		notifier, err := services.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn("⚠️  RabbitMQ unavailable, results will not be published", zap.Error(err))
		} else {
			sinks = append(sinks, notifier)
			c.closers = append(c.closers, func() { notifier.Close() })
			log.Info("✅ RabbitMQ connected", zap.String("exchange", cfg.AMQP.Exchange))
		}
	}

	routerOpts := []services.RouterOption{
		services.WithHTTPRetriever(services.NewHTTPRetriever(&http.Client{Timeout: cfg.Worker.FetchTimeout}, cfg.Storage.MaxFileSize)),
		services.WithLocalRetriever(services.NewLocalRetriever()),
	}

	if cfg.Google.CredentialsPath != "" {
		drive, err := services.NewDriveService(ctx, cfg.Google, cfg.Storage.MaxFileSize)
		if err != nil {
			log.Warn("⚠️  Google Drive unavailable", zap.Error(err))
		} else {
			routerOpts = append(routerOpts, services.WithDriveRetriever(drive))
			if cfg.Google.DriveFolderID != "" {
				// uploads only
				placers = append(placers, drive)
			}
			log.Info("✅ Google Drive connected")
		}
	}

	if cfg.S3.AccessKey != "" || cfg.S3.Endpoint != "" {
		client, err := services.NewS3Client(ctx, cfg.S3)
		if err != nil {
			log.Warn("⚠️  Object storage unavailable", zap.Error(err))
		} else {
			routerOpts = append(routerOpts, services.WithS3Retriever(services.NewS3Retriever(client)))
			log.Info("✅ Object storage configured", zap.String("endpoint", cfg.S3.Endpoint))
		}
	}

	retriever := services.NewRetrieverRouter(routerOpts...)
	if cfg.Redis.Addr != "" {
		client, err := services.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("⚠️  Redis unavailable, bypassing resume cache", zap.Error(err))
		} else {
			retriever = services.NewCachingRetriever(retriever, client, cfg.Redis.TTL, log)
			c.closers = append(c.closers, func() { client.Close() })
			log.Info("✅ Redis resume cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	extractor := services.NewTextExtractor()
	worker := services.NewWorker(retriever, extractor, storage,
		services.WithConcurrency(cfg.Worker.Concurrency),
		services.WithRetries(cfg.Worker.RetryMaxAttempts),
		services.WithFetchTimeout(cfg.Worker.FetchTimeout),
		services.WithWorkerLogger(log),
		services.WithWorkerMetrics(c.Metrics),
	)

	c.Screening = services.NewScreeningService(services.Deps{
		Registry: c.Registry,
		Scorer: screening.NewScorer(
			screening.WithThreshold(rules.ShortlistThreshold),
			screening.WithMatcher(screening.NewMatcher(rules.Mode())),
		),
		Selector:     screening.NewSelector(screening.WithTopN(rules.TopN)),
		Source:       source,
		Worker:       worker,
		Extractor:    extractor,
		Sinks:        services.NewSinkGroup(log, c.Metrics, sinks...),
		Placers:      services.NewPlacerGroup(log, c.Metrics, placers...),
		BatchPlacers: services.NewPlacerGroup(log, c.Metrics, local),
		Records:      records,
		Log:          log,
		Metrics:      c.Metrics,
	})

	log.Info("✅ Screening service initialized",
		zap.Int("jobs", len(c.Registry.Jobs())),
		zap.Int("threshold", rules.ShortlistThreshold),
		zap.Int("top_n", rules.TopN),
		zap.Int("sinks", len(sinks)),
		zap.Int("placers", len(placers)))

	return c, nil
}
