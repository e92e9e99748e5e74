package repository

import (
	"context"
	"fmt"

	"github.com/vanshika/creditlens/backend/internal/config"
	"github.com/vanshika/creditlens/backend/internal/domain"
	"github.com/vanshika/creditlens/backend/internal/graph"
)

// Store is a report store with an explicit lifecycle: it is opened once at
// process start and closed at shutdown.
type Store interface {
	InsertReport(ctx context.Context, report domain.StoredReport) error
	ListReports(ctx context.Context) ([]domain.StoredReport, error)
	GetReport(ctx context.Context, id string) (domain.StoredReport, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*MemoryRepository)(nil)
	_ Store = (*GraphRepository)(nil)
	_ Store = (*PostgresRepository)(nil)
)

// Open connects the store selected by cfg.Storage.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory, "":
		return NewMemoryRepository(), nil

	case config.DriverNeo4j:
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		repo := NewGraphRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		return repo, nil

	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		repo := NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownDriver, cfg.Storage.Driver)
	}
}
