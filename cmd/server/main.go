package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/ecommerce_api/internal/config"
	"github.com/Skotchmaster/ecommerce_api/internal/es"
	"github.com/Skotchmaster/ecommerce_api/internal/httpserver"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/storage"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel, cfg.LogFile).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("db close error", "error", err)
			}
		}
	}()
	if err := repo.Migrate(db); err != nil {
		return err
	}
	r := &repo.GormRepo{DB: db}

	var events service.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer func() {
			if err := prod.Close(); err != nil {
				logger.Warn("kafka close error", "error", err)
			}
		}()
		events = prod
	} else {
		logger.Info("kafka disabled, domain events are not published")
	}

	var index service.ProductIndexer
	if len(cfg.ESAddresses) > 0 {
		client, err := es.NewClient(cfg.ESAddresses, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return err
		}
		index = &es.ProductIndex{Client: client, Index: cfg.ESIndex}
	} else {
		logger.Info("elasticsearch disabled, search falls back to the database")
	}

	e := httpserver.New(logger)

	var store storage.ImageStore
	switch cfg.Storage.Driver {
	case "sftp":
		s, err := storage.NewSFTPStore(storage.SFTPConfig{
			Addr:       cfg.Storage.SFTPAddr,
			User:       cfg.Storage.SFTPUser,
			Password:   cfg.Storage.SFTPPassword,
			Dir:        cfg.Storage.SFTPDir,
			KnownHosts: cfg.Storage.SFTPKnownHosts,
			BaseURL:    cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	case "local":
		s, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return err
		}
		e.Static("/static/uploads", cfg.Storage.UploadDir)
		store = s
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	auth := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, Events: events}
	catalog := &service.CatalogService{Repo: r, Events: events, Index: index}

	if cfg.AdminEmail != "" {
		if err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: auth},
		Users:     &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalog},
		Orders:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events}},
		Files:     &httpserver.FileHTTP{Svc: &service.FileService{Catalog: catalog, Store: store}},
		JWTSecret: cfg.JWTSecret,
		Ready:     r.Ping,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
