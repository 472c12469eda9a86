// README: Registry service — Transport Center administration of agencies.
package center

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medtransit/internal/types"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type RegisterCommand struct {
	ExternalID   types.ID
	Name         string
	ContactEmail string
}

// Register records an agency in the Center partition. ExternalID is the
// stable id the EMS partition row also carries; it is the only cross-partition
// bridge.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.ExternalID == "" || cmd.Name == "" {
		return "", ErrBadRequest
	}
	a := &RegisteredAgency{
		ID:           types.ID(uuid.NewString()),
		ExternalID:   cmd.ExternalID,
		Name:         cmd.Name,
		ContactEmail: cmd.ContactEmail,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *Service) Resolve(ctx context.Context, externalID types.ID) (*RegisteredAgency, error) {
	if externalID == "" {
		return nil, ErrBadRequest
	}
	return s.store.GetByExternalID(ctx, externalID)
}

func (s *Service) ListActive(ctx context.Context) ([]RegisteredAgency, error) {
	return s.store.ListActive(ctx)
}
