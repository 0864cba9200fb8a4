package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Connect opens a single PostgreSQL connection. The caller owns it and must Close it;
// nothing is pooled across invocations.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgx.Conn, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if logger != nil {
		logger.Debug("PostgreSQL connection opened", zap.String("host", config.Host), zap.String("database", config.Database))
	}
	return conn, nil
}
