// Package server wires configuration, storage, services and the gRPC
// transport into a runnable visitkeeper server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/visitkeeper/internal/logging"
	"github.com/dmitrijs2005/visitkeeper/internal/server/config"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/visitkeeper/internal/server/services"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/visitkeeper/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *gs.GRPCServer
}

// openDB is swapped in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// newRepositoryManager picks the session store named by the config. The
// returned client is nil for the postgres backend.
func newRepositoryManager(ctx context.Context, c *config.Config) (*repomanager.PostgresRepositoryManager, *redis.Client, error) {
	if c.SessionBackend != config.SessionBackendRedis {
		return repomanager.NewPostgresRepositoryManager(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	store := sessions.NewRedisRepository(rdb)
	return repomanager.NewPostgresRepositoryManager(repomanager.WithSessionStore(store)), rdb, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, rdb, err := newRepositoryManager(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("migrations: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ss := services.NewSessionService(db, rm, us, c)
	ps := services.NewPlaceService(db, rm)
	vs := services.NewVisitService(db, rm, c)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ss, ps, vs)

	logger.Info(ctx, "app initialized", "session_backend", c.SessionBackend)

	return &App{config: c, logger: logger, db: db, redis: rdb, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// releases the database and redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg        sync.WaitGroup
		serverErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server stopped", "error", err)
			serverErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	return errors.Join(serverErr, app.close())
}

func (app *App) close() error {
	var errs []error
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
