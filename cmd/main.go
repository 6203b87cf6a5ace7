package main

import (
	"astrodash/pkg/config"
	"astrodash/pkg/consts"
	"astrodash/pkg/dashboard"
	"astrodash/pkg/handler"
	repo "astrodash/pkg/repository"
	srvc "astrodash/pkg/service"
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repository, closer, err := newRepository(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize %s cache: %s", cfg.CacheDriver, err.Error())
	}

	// a zero timeout leaves upstream calls unbounded
	client := srvc.NewClient(&http.Client{Timeout: cfg.UpstreamTimeout}, cfg.APIKey)
	services := srvc.NewService(client, cfg.ApodURL, cfg.FeedURL)

	view, err := dashboard.NewView(
		dashboard.NewClient(nil, cfg.DashboardAPIURL),
		dashboard.NewPictureCache(repository, time.Now),
		time.Now,
	)
	if err != nil {
		logrus.Fatalf("failed to initialize dashboard: %s", err.Error())
	}

	handlers := handler.NewHandler(services, view, cfg.CORSOrigins)

	srv := new(server)
	go func() {
		logrus.Infof("Server running on port %s", cfg.Port)
		if err := srv.Run(cfg.Port, handlers.InitRoutes()); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Printf("astrodash Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			logrus.Errorf("error occured on cache connection close: %s", err.Error())
		}
	}
}

// newRepository opens the configured cache backend. The closer is nil for the memory store.
func newRepository(ctx context.Context, cfg config.Config) (*repo.Repository, io.Closer, error) {
	switch cfg.CacheDriver {
	case consts.DriverPostgres:
		db, err := repo.NewPostgresDB(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRepository(db), db, nil
	case consts.DriverSQLite:
		db, err := repo.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRepository(db), db, nil
	case consts.DriverRedis:
		client, err := repo.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisRepository(client), client, nil
	default:
		return repo.NewMemoryRepository(), nil, nil
	}
}

type server struct {
	httpSrv *http.Server
}

// no write timeout: a slow upstream keeps its inbound request open
func (s *server) Run(port string, h http.Handler) error {
	s.httpSrv = &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s.httpSrv.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
