// Package storageutils selects a storage driver from configuration.
package storageutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/kiosk/pkg/storage"
	"github.com/papercomputeco/kiosk/pkg/storage/inmemory"
	"github.com/papercomputeco/kiosk/pkg/storage/postgres"
	"github.com/papercomputeco/kiosk/pkg/storage/sqlite"
)

type NewDriverOpts struct {
	PostgresDSN string
	SQLitePath  string
	Logger      *slog.Logger
}

// NewDriver picks a storage backend. A Postgres DSN wins over a SQLite path;
// with neither set the logs live in memory.
func NewDriver(ctx context.Context, o *NewDriverOpts) (storage.Driver, error) {
	switch {
	case o.PostgresDSN != "":
		driver, err := postgres.NewDriver(ctx, o.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL driver: %w", err)
		}
		o.logger().Info("using PostgreSQL storage")
		return driver, nil

	case o.SQLitePath != "":
		driver, err := sqlite.NewDriver(ctx, o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		o.logger().Info("using SQLite storage", "path", o.SQLitePath)
		return driver, nil

	default:
		o.logger().Info("using in-memory storage")
		return inmemory.NewDriver(), nil
	}
}

func (o *NewDriverOpts) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
