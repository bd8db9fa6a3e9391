package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/catalog-admin-public/internal/catalog"
	"github.com/catalog-admin-public/internal/config"
	"github.com/catalog-admin-public/internal/db"
	apihttp "github.com/catalog-admin-public/internal/http"
	"github.com/catalog-admin-public/internal/metrics"
	"github.com/catalog-admin-public/internal/realtime"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger := log.WithField("component", "server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("open catalog")
	}
	defer closeRepo()

	m := metrics.New()
	products := catalog.NewService(repo,
		catalog.WithLogger(log.WithField("component", "catalog")),
		catalog.WithRecorder(m),
	)

	hub := realtime.NewHub(log.WithField("component", "hub"), m)
	ws := realtime.NewServer(hub, realtime.WSConfig{
		SendBuffer:      cfg.HubSendBuffer,
		MaxMessageBytes: cfg.WSMaxMessageBytes,
		PingInterval:    cfg.WSPingInterval,
		AllowedOrigins:  cfg.AllowedOrigins,
	}, log.WithField("component", "websocket"))

	gql, err := apihttp.NewGraphQLHandler(products, cfg.GraphiQL)
	if err != nil {
		logger.WithError(err).Fatal("build graphql schema")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Handler:  apihttp.NewHandler(products, log.WithField("component", "http")),
		GraphQL:  gql,
		Realtime: ws,
		Metrics:  m,
		Config:   cfg,
		Logger:   log.WithField("component", "http"),
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		logger.WithFields(log.Fields{
			"addr":    srv.Addr,
			"tls":     cfg.TLSEnabled(),
			"backend": cfg.CatalogBackend,
		}).Info("catalog admin server listening")

		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown")
	}
}

// openRepository picks the catalog storage. The returned func releases it.
func openRepository(ctx context.Context, cfg config.Config) (catalog.Repository, func(), error) {
	switch cfg.CatalogBackend {
	case config.BackendFile:
		repo := catalog.NewFileRepository(cfg.ProductsFile)
		if err := repo.Init(); err != nil {
			return nil, nil, fmt.Errorf("init %s: %w", repo.Path(), err)
		}
		return repo, func() {}, nil
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.ApplyMigrations(ctx, pool, db.Migrations, "migrations"); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return db.NewProductRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
	}
}

func setupLogger(level, format string) {
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// ensure gin uses release mode in production
func init() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
