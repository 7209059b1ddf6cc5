package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenStorage returns the repositories of the configured driver and a func
// that releases them. Postgres is migrated before use.
func OpenStorage(ctx context.Context, cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Get().Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore().Repositories(), func() {}, nil
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewRepositories(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
