// README: Center Partition store backed by PostgreSQL.
package center

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medtransit/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, a *RegisteredAgency) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO registered_agencies (id, external_id, name, contact_email, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		string(a.ID), string(a.ExternalID), a.Name, a.ContactEmail, a.Active, a.CreatedAt,
	)
	return err
}

func (s *Store) GetByExternalID(ctx context.Context, externalID types.ID) (*RegisteredAgency, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, external_id, name, contact_email, active, created_at
        FROM registered_agencies
        WHERE external_id = $1`, string(externalID),
	)
	var a RegisteredAgency
	err := row.Scan(&a.ID, &a.ExternalID, &a.Name, &a.ContactEmail, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListActive(ctx context.Context) ([]RegisteredAgency, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, external_id, name, contact_email, active, created_at
        FROM registered_agencies
        WHERE active = true
        ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisteredAgency
	for rows.Next() {
		var a RegisteredAgency
		if err := rows.Scan(&a.ID, &a.ExternalID, &a.Name, &a.ContactEmail, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
