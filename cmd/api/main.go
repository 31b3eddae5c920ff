package main

import (
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arkiv-showcase/showcase-backend/config"
	"github.com/arkiv-showcase/showcase-backend/internal/bootstrap"
	"github.com/arkiv-showcase/showcase-backend/internal/cache"
	"github.com/arkiv-showcase/showcase-backend/internal/ledger"
	cronjob "github.com/arkiv-showcase/showcase-backend/internal/showcase/cron"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/repository"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/service"
)

const serviceName = "showcase-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	setupLogging(cfg)
	bootstrap.SetGinMode(cfg.App.Environment)

	layout := service.Layout{
		ContentDir: cfg.Content.ContentDir,
		PublicDir:  cfg.Content.PublicDir,
	}
	for _, dir := range []string{layout.PublishedDir(), layout.PendingDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.WithError(err).WithField("dir", dir).Fatal("failed to create content directory")
		}
	}

	repo := repository.New(buildCache(cfg), buildLedger(cfg), layout.PublishedDir())
	submissions := service.NewSubmissionService(layout)
	approvals := service.NewApprovalService(layout)

	cronjob.NewScheduler(approvals, repo).Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		ContentDir:  cfg.Content.ContentDir,
		AdminToken:  cfg.Admin.Token,
		SubmitRate:  rate.Limit(cfg.Server.SubmitRate),
		SubmitBurst: cfg.Server.SubmitBurst,
		Repo:        repo,
		Submissions: submissions,
		Approvals:   approvals,
	})

	logrus.WithField("port", cfg.Server.Port).Info("starting showcase backend")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.App.LogFile != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   cfg.App.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		})
	}
}

func buildCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		logrus.WithField("addr", cfg.Cache.RedisAddr).Info("using redis cache")
		return cache.NewRedisCache(client)
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}

func buildLedger(cfg *config.Config) ledger.Store {
	if cfg.Ledger.RPCURL == "" {
		logrus.Info("no ledger configured, serving from local files only")
		return nil
	}

	client := ledger.NewClient(cfg.Ledger.RPCURL, cfg.Ledger.OwnerAddress, cfg.Ledger.PrivateKey)
	if !client.CanWrite() {
		logrus.Warn("no ledger write key configured, running read-only")
	}
	return client
}
