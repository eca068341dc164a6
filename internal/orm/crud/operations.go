// Package crud runs compiled statements against PostgreSQL and shapes the
// returned rows into records.
package crud

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/query"
)

// Querier is the part of *sql.DB the executor needs
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Executor runs statements produced by the query compiler
type Executor struct {
	db     Querier
	logger *zap.Logger
}

// NewExecutor creates an executor over a database handle
func NewExecutor(db Querier, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{db: db, logger: logger}
}

// Query runs a multi-row statement
func (e *Executor) Query(ctx context.Context, stmt *query.Statement) ([]Record, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		e.logger.Debug("query failed", zap.String("sql", stmt.SQL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", ConvertDBError(err))
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan rows: %w", ConvertDBError(err))
	}

	e.logger.Debug("query",
		zap.String("sql", stmt.SQL),
		zap.Int("params", len(stmt.Args)),
		zap.Int("rows", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return records, nil
}

// QueryOne runs a single-row statement. It returns ErrNotFound when no row matches.
func (e *Executor) QueryOne(ctx context.Context, stmt *query.Statement) (Record, error) {
	records, err := e.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}
