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

	app "github.com/kode4food/arran"
	"github.com/kode4food/arran/internal/archive"
	"github.com/kode4food/arran/internal/config"
	"github.com/kode4food/arran/internal/engine"
	"github.com/kode4food/arran/internal/server"
	"github.com/kode4food/arran/internal/store"
	"github.com/kode4food/arran/pkg/log"
)

type arran struct {
	cfg        *config.Config
	redis      *store.Redis
	archiver   *archive.Archiver
	engine     *engine.Engine
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var ErrCreateArchiver = errors.New("failed to create archiver")

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &arran{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *arran) run() error {
	if err := s.initializeEngine(); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *arran) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Arran Engine starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("redis_addr", s.cfg.RedisAddr),
		slog.Int("redis_db", s.cfg.RedisDB),
		slog.String("archive_bucket", s.cfg.ArchiveBucketURL),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *arran) initializeEngine() error {
	var storage store.Storage
	if s.cfg.RedisAddr != "" {
		s.redis = store.NewRedis(store.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
			Prefix:   s.cfg.RedisPrefix,
			TTL:      s.cfg.SessionTTL,
		})
		storage = s.redis
	} else {
		storage = store.NewMemory()
	}

	var archiver engine.Archiver
	if s.cfg.ArchiveBucketURL != "" {
		arch, err := archive.NewArchiver(
			context.Background(), s.cfg.ArchiveBucketURL, s.cfg.ArchivePrefix,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreateArchiver, err)
		}
		s.archiver = arch
		archiver = arch
	}

	s.engine = engine.New(&engine.Config{
		Storage:  storage,
		Archiver: archiver,
		Logger:   slog.Default(),
		Prefix:   s.cfg.RedisPrefix,
	})
	return nil
}

func (s *arran) startServer() {
	s.apiServer = server.NewServer(s.engine)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *arran) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.engine.Close()

	if s.archiver != nil {
		_ = s.archiver.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}

	slog.Info("Server exited")
}
