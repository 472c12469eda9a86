// README: Per-partition PostgreSQL pool initialization using pgxpool.
package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB opens one pool. Each partition (hospital, EMS, center) gets its own
// pool against its own DSN; there are no cross-partition connections.
func NewDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, dsn)
}
