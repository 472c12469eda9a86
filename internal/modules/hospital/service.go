// README: Transport-request service — creation plus the one in-scope mutation (acceptance).
package hospital

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medtransit/internal/types"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrSameFacility = errors.New("origin and destination facility must differ")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("request state conflict")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	OriginFacilityID      types.ID
	DestinationFacilityID types.ID
	Level                 types.TransportLevel
	Priority              types.Priority
	SpecialRequirements   *string
	EstimatedMiles        *float64
	Window                *types.TimeWindow
}

type AcceptCommand struct {
	RequestID types.ID
	AgencyID  types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.OriginFacilityID == "" || cmd.DestinationFacilityID == "" {
		return "", ErrBadRequest
	}
	if cmd.OriginFacilityID == cmd.DestinationFacilityID {
		return "", ErrSameFacility
	}
	if !cmd.Level.Valid() || !cmd.Priority.Valid() {
		return "", ErrBadRequest
	}
	if cmd.EstimatedMiles != nil && *cmd.EstimatedMiles < 0 {
		return "", ErrBadRequest
	}

	// Both facilities must exist in this partition before a request can
	// reference them.
	if _, err := s.store.GetFacility(ctx, cmd.OriginFacilityID); err != nil {
		return "", err
	}
	if _, err := s.store.GetFacility(ctx, cmd.DestinationFacilityID); err != nil {
		return "", err
	}

	now := time.Now()
	r := &TransportRequest{
		ID:                    types.ID(uuid.NewString()),
		OriginFacilityID:      cmd.OriginFacilityID,
		DestinationFacilityID: cmd.DestinationFacilityID,
		Level:                 cmd.Level,
		Priority:              cmd.Priority,
		SpecialRequirements:   cmd.SpecialRequirements,
		EstimatedMiles:        cmd.EstimatedMiles,
		Window:                cmd.Window,
		Status:                StatusPending,
		StatusVersion:         0,
		RequestedAt:           now,
		CreatedAt:             now,
	}
	if err := s.store.CreateRequest(ctx, r); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  "facility",
		CreatedAt:  now,
	})
	return r.ID, nil
}

// Accept marks which agency ultimately won the request. Ranking itself is
// advisory; this is the single write the matching flow delegates here.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.RequestID == "" || cmd.AgencyID == "" {
		return ErrBadRequest
	}
	r, err := s.store.GetRequest(ctx, cmd.RequestID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusAccepted) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusAccepted, r.StatusVersion, &cmd.AgencyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: r.Status,
		ToStatus:   StatusAccepted,
		ActorType:  "agency",
		ActorID:    &cmd.AgencyID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*TransportRequest, error) {
	return s.store.GetRequest(ctx, id)
}

func (s *Service) GetFacility(ctx context.Context, id types.ID) (*Facility, error) {
	return s.store.GetFacility(ctx, id)
}

func (s *Service) PendingRequests(ctx context.Context, from, to time.Time, f PendingFilter) ([]TransportRequest, error) {
	return s.store.PendingRequests(ctx, from, to, f)
}
