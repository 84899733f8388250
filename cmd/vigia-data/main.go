package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vigia-data/internal/catalog"
	"vigia-data/internal/checklist"
	"vigia-data/internal/config"
	httpapi "vigia-data/internal/http"
	"vigia-data/internal/logger"
	"vigia-data/internal/report"
	"vigia-data/internal/repository"
	"vigia-data/internal/service"
	"vigia-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "vigia-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	// Catalog: embedded seed dataset by default, optionally replaced from SQL.
	// Any DB failure falls back to the seed so the dashboard always has data.
	var db *sql.DB
	cat, err := catalog.Load()
	if err != nil {
		log.Fatal("load embedded catalog failed", zap.Error(err))
	}
	if cfg.DBEnabled {
		if d, dbErr := repository.NewPostgresDB(&cfg.Database); dbErr == nil {
			db = d
			repo := repository.NewSQLResidencesRepo(db, log)
			records, listErr := repo.ListResidences(context.Background())
			if listErr == nil && len(records) > 0 {
				if dbCat, buildErr := catalog.NewFromRecords(records); buildErr == nil {
					cat = dbCat
					log.Info("catalog loaded from DB", zap.Int("residences", cat.Count()))
				} else {
					log.Warn("DB catalog rejected, using embedded seed", zap.Error(buildErr))
				}
			} else {
				log.Warn("DB catalog empty or unreadable, using embedded seed", zap.Error(listErr))
			}
		} else {
			log.Warn("DB enabled but connection failed, using embedded seed", zap.Error(dbErr))
		}
	}
	log.Info("residence catalog ready", zap.Int("residences", cat.Count()))

	var images *report.ImageFetcher
	if cfg.Assets.TimeoutSeconds > 0 {
		images = report.NewImageFetcher(cfg.Assets.BaseURL,
			time.Duration(cfg.Assets.TimeoutSeconds)*time.Second, log)
	}

	residences := service.NewResidenceService(cat, log)
	reports := service.NewReportService(cat, images, log)
	tracker := checklist.NewTracker(kv, log)

	router := httpapi.NewRouter(log)
	router.RegisterResidenceRoutes(httpapi.NewResidenceHandler(residences, log))
	router.RegisterChecklistRoutes(httpapi.NewChecklistHandler(tracker, residences, log))
	router.RegisterReportRoutes(httpapi.NewReportHandler(reports, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
