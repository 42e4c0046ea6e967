package app

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

	"go-account-portal/internal/config"
	"go-account-portal/internal/database"
	"go-account-portal/internal/handler"
	"go-account-portal/internal/middleware"
	"go-account-portal/internal/repository"
	"go-account-portal/internal/router"
	"go-account-portal/internal/service"
	"go-account-portal/internal/session"
	"go-account-portal/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to database")
	db, err := database.New(context.Background(), cfg.DatabaseURL, database.PoolSettings{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBConnLifetime,
		MaxConnIdleTime: cfg.DBConnIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	if count, err := userRepo.Count(context.Background()); err == nil {
		slog.Info("database ready", "registered_users", count)
	} else {
		slog.Info("database ready")
	}

	// One secret, one TTL: the codec and the cookie stay in lockstep.
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	sessions := session.NewCarrier(cfg.IsProduction(), codec.TTL())
	guard := middleware.NewRouteGuard(sessions, codec)

	authService := service.NewAuthService(userRepo, codec)
	avatarService := service.NewAvatarService()

	pageHandler, err := handler.NewPageHandler()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize page handler: %w", err)
	}

	appRouter := router.New(cfg, guard, router.Handlers{
		Auth:   handler.NewAuthHandler(authService, sessions),
		User:   handler.NewUserHandler(authService, avatarService, sessions, codec),
		Page:   pageHandler,
		Health: handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
