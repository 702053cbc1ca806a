package backend

import (
	"context"
	"fmt"

	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Gateway: storage.NewMemoryGateway()}, nil
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case RedisBackend:
		return f.createRedisBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	gw, err := storage.NewFileGateway(config.SnapshotFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file gateway: %w", err)
	}

	f.logger.Info("Initialized file backend", "path", config.SnapshotFile)

	return &BackendResult{Gateway: gw}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	gw, err := storage.NewSQLiteGateway(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite gateway: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Gateway: gw,
		Cleanup: gw.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	gw, err := storage.NewPostgresGateway(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres gateway: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")

	return &BackendResult{
		Gateway: gw,
		Cleanup: gw.Close,
	}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*BackendResult, error) {
	key := config.RedisKey
	if key == "" {
		key = storage.DefaultRedisKey
	}
	gw, err := storage.NewRedisGateway(ctx, config.RedisAddr, key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis gateway: %w", err)
	}

	f.logger.Info("Initialized Redis backend", "addr", config.RedisAddr, "key", key)

	return &BackendResult{
		Gateway: gw,
		Cleanup: gw.Close,
	}, nil
}
