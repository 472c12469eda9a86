// README: EMS Partition store — agencies/units in PostgreSQL, availability snapshots cached in Redis.
package ems

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"medtransit/internal/types"
)

var ErrNotFound = errors.New("not found")

const (
	availabilityKeyPrefix = "ems:unit:%s:availability"
	// Availability snapshots go stale within a shift; the cache must not
	// outlive one.
	availabilityTTL = 24 * time.Hour
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// AgencyFilter narrows the agency scan. Capability filtering is the ranker's
// policy, not a store concern, so the filter stays coarse.
type AgencyFilter struct {
	OnlyActive bool
}

// AgenciesWithUnits loads agencies with their units eagerly attached, then
// overlays the freshest availability snapshot per unit (Redis first, the
// unit_availability table for misses).
func (s *Store) AgenciesWithUnits(ctx context.Context, f AgencyFilter) ([]Agency, error) {
	rows, err := s.db.Query(ctx, `
        SELECT a.id, a.external_id, a.name, a.contact_email, a.contact_phone, a.active,
               u.id, u.level, u.active
        FROM agencies a
        LEFT JOIN units u ON u.agency_id = a.id
        WHERE ($1 = false OR a.active = true)
        ORDER BY a.id`,
		f.OnlyActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[types.ID]*Agency)
	var order []types.ID
	for rows.Next() {
		var a Agency
		var unitID, unitLevel sql.NullString
		var unitActive sql.NullBool
		if err := rows.Scan(
			&a.ID, &a.ExternalID, &a.Name, &a.ContactEmail, &a.ContactPhone, &a.Active,
			&unitID, &unitLevel, &unitActive,
		); err != nil {
			return nil, err
		}
		agency, ok := byID[a.ID]
		if !ok {
			agency = &a
			byID[a.ID] = agency
			order = append(order, a.ID)
		}
		if unitID.Valid {
			agency.Units = append(agency.Units, Unit{
				ID:       types.ID(unitID.String),
				AgencyID: agency.ID,
				Level:    types.TransportLevel(unitLevel.String),
				Active:   unitActive.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Agency, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	if err := s.attachAvailability(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAvailability writes the snapshot to the partition table and refreshes the
// cache. Cache write failures are non-fatal: the table remains authoritative.
func (s *Store) SetAvailability(ctx context.Context, ua UnitAvailability) error {
	ua.UpdatedAt = time.Now().UTC()
	var lat, lng *float64
	if ua.Position != nil {
		lat, lng = &ua.Position.Lat, &ua.Position.Lng
	}
	var shiftStart, shiftEnd *time.Time
	if ua.Shift != nil {
		shiftStart, shiftEnd = &ua.Shift.Earliest, &ua.Shift.Latest
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO unit_availability (unit_id, status, lat, lng, shift_start, shift_end, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (unit_id) DO UPDATE
        SET status = EXCLUDED.status,
            lat = EXCLUDED.lat,
            lng = EXCLUDED.lng,
            shift_start = EXCLUDED.shift_start,
            shift_end = EXCLUDED.shift_end,
            updated_at = EXCLUDED.updated_at`,
		string(ua.UnitID), string(ua.Status), lat, lng, shiftStart, shiftEnd, ua.UpdatedAt,
	)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ua)
	if err != nil {
		return err
	}
	_ = s.redis.Set(ctx, availabilityKey(ua.UnitID), payload, availabilityTTL).Err()
	return nil
}

func (s *Store) attachAvailability(ctx context.Context, agencies []Agency) error {
	var keys []string
	var units []*Unit
	for i := range agencies {
		for j := range agencies[i].Units {
			u := &agencies[i].Units[j]
			keys = append(keys, availabilityKey(u.ID))
			units = append(units, u)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	vals, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		// Degrade to the table when the cache is unreachable.
		vals = make([]interface{}, len(keys))
	}

	var misses []*Unit
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			misses = append(misses, units[i])
			continue
		}
		var ua UnitAvailability
		if err := json.Unmarshal([]byte(str), &ua); err != nil {
			misses = append(misses, units[i])
			continue
		}
		units[i].Availability = &ua
	}
	return s.loadAvailabilityRows(ctx, misses)
}

func (s *Store) loadAvailabilityRows(ctx context.Context, units []*Unit) error {
	for _, u := range units {
		row := s.db.QueryRow(ctx, `
            SELECT unit_id, status, lat, lng, shift_start, shift_end, updated_at
            FROM unit_availability
            WHERE unit_id = $1`, string(u.ID),
		)
		var ua UnitAvailability
		var lat, lng sql.NullFloat64
		var shiftStart, shiftEnd sql.NullTime
		err := row.Scan(&ua.UnitID, &ua.Status, &lat, &lng, &shiftStart, &shiftEnd, &ua.UpdatedAt)
		if err != nil {
			// No snapshot yet is a legal state; the scorer substitutes
			// its out-of-service sentinel.
			continue
		}
		if lat.Valid && lng.Valid {
			ua.Position = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		if shiftStart.Valid || shiftEnd.Valid {
			ua.Shift = &types.TimeWindow{Earliest: shiftStart.Time, Latest: shiftEnd.Time}
		}
		u.Availability = &ua
	}
	return nil
}

func availabilityKey(unitID types.ID) string {
	return fmt.Sprintf(availabilityKeyPrefix, string(unitID))
}
