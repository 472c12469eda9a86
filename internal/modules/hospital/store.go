// README: Hospital Partition store backed by PostgreSQL (facilities + transport requests).
package hospital

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

// PendingFilter narrows the pending-request scan. Nil/empty fields match everything.
type PendingFilter struct {
	Levels     []types.TransportLevel
	Priorities []types.Priority
	AgencyID   *types.ID
}

func (s *Store) GetFacility(ctx context.Context, id types.ID) (*Facility, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, lat, lng, address, active
        FROM facilities
        WHERE id = $1`, string(id),
	)
	var f Facility
	err := row.Scan(&f.ID, &f.Name, &f.Position.Lat, &f.Position.Lng, &f.Address, &f.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) CreateRequest(ctx context.Context, r *TransportRequest) error {
	var earliest, latest *time.Time
	if r.Window != nil {
		earliest, latest = &r.Window.Earliest, &r.Window.Latest
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO transport_requests (
            id, origin_facility_id, destination_facility_id,
            level, priority, special_requirements, estimated_miles,
            window_earliest, window_latest,
            status, status_version, accepted_agency_id, requested_at, created_at
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7,
            $8, $9,
            $10, $11, $12, $13, $14
        )`,
		string(r.ID),
		string(r.OriginFacilityID),
		string(r.DestinationFacilityID),
		string(r.Level),
		string(r.Priority),
		r.SpecialRequirements,
		r.EstimatedMiles,
		earliest, latest,
		string(r.Status),
		r.StatusVersion,
		toStringPtr(r.AcceptedAgencyID),
		r.RequestedAt,
		r.CreatedAt,
	)
	return err
}

func (s *Store) GetRequest(ctx context.Context, id types.ID) (*TransportRequest, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, origin_facility_id, destination_facility_id,
               level, priority, special_requirements, estimated_miles,
               window_earliest, window_latest,
               status, status_version, accepted_agency_id,
               requested_at, created_at, accepted_at, completed_at, cancelled_at
        FROM transport_requests
        WHERE id = $1`, string(id),
	)
	r, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// PendingRequests returns PENDING and SCHEDULED requests whose pickup time
// falls inside [from, to], ordered by requested time. The agency filter only
// matches SCHEDULED requests already assigned to that agency.
func (s *Store) PendingRequests(ctx context.Context, from, to time.Time, f PendingFilter) ([]TransportRequest, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, origin_facility_id, destination_facility_id,
               level, priority, special_requirements, estimated_miles,
               window_earliest, window_latest,
               status, status_version, accepted_agency_id,
               requested_at, created_at, accepted_at, completed_at, cancelled_at
        FROM transport_requests
        WHERE status IN ('PENDING', 'SCHEDULED')
          AND COALESCE(window_earliest, requested_at) BETWEEN $1 AND $2
          AND ($3::text[] IS NULL OR level = ANY($3))
          AND ($4::text[] IS NULL OR priority = ANY($4))
          AND ($5::text IS NULL OR accepted_agency_id = $5)
        ORDER BY COALESCE(window_earliest, requested_at) ASC`,
		from, to,
		levelsParam(f.Levels),
		prioritiesParam(f.Priorities),
		toStringPtr(f.AgencyID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransportRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateStatus applies one optimistic transition: the row must still carry the
// expected status and version or no row is touched.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, agencyID *types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE transport_requests
        SET status = $1,
            status_version = status_version + 1,
            accepted_agency_id = COALESCE($2, accepted_agency_id),
            accepted_at = CASE WHEN $1 = 'ACCEPTED' THEN NOW() ELSE accepted_at END,
            completed_at = CASE WHEN $1 = 'COMPLETED' THEN NOW() ELSE completed_at END,
            cancelled_at = CASE WHEN $1 = 'CANCELLED' THEN NOW() ELSE cancelled_at END
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to),
		toStringPtr(agencyID),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO request_state_events (
            request_id, from_status, to_status, actor_type, actor_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.RequestID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func scanRequest(row pgx.Row) (*TransportRequest, error) {
	var r TransportRequest
	var special, agencyID sql.NullString
	var miles sql.NullFloat64
	var earliest, latest, acceptedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.OriginFacilityID, &r.DestinationFacilityID,
		&r.Level, &r.Priority, &special, &miles,
		&earliest, &latest,
		&r.Status, &r.StatusVersion, &agencyID,
		&r.RequestedAt, &r.CreatedAt, &acceptedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if special.Valid {
		r.SpecialRequirements = &special.String
	}
	if miles.Valid {
		r.EstimatedMiles = &miles.Float64
	}
	if earliest.Valid || latest.Valid {
		r.Window = &types.TimeWindow{Earliest: earliest.Time, Latest: latest.Time}
	}
	if agencyID.Valid {
		a := types.ID(agencyID.String)
		r.AcceptedAgencyID = &a
	}
	r.AcceptedAt = toTimePtr(acceptedAt)
	r.CompletedAt = toTimePtr(completedAt)
	r.CancelledAt = toTimePtr(cancelledAt)
	return &r, nil
}

func levelsParam(levels []types.TransportLevel) []string {
	if len(levels) == 0 {
		return nil
	}
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

func prioritiesParam(priorities []types.Priority) []string {
	if len(priorities) == 0 {
		return nil
	}
	out := make([]string, len(priorities))
	for i, p := range priorities {
		out[i] = string(p)
	}
	return out
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
