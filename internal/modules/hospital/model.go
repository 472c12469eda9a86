// README: Hospital Partition aggregates — facilities and transport requests.
package hospital

import (
	"time"

	"medtransit/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusPending    Status = "PENDING"
	StatusScheduled  Status = "SCHEDULED"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

type Facility struct {
	ID       types.ID
	Name     string
	Position types.Point
	Address  string
	Active   bool
}

type TransportRequest struct {
	ID                    types.ID
	OriginFacilityID      types.ID
	DestinationFacilityID types.ID
	Level                 types.TransportLevel
	Priority              types.Priority
	SpecialRequirements   *string
	EstimatedMiles        *float64
	Window                *types.TimeWindow
	Status                Status
	StatusVersion         int
	AcceptedAgencyID      *types.ID
	RequestedAt           time.Time
	CreatedAt             time.Time
	AcceptedAt            *time.Time
	CompletedAt           *time.Time
	CancelledAt           *time.Time
}

// PickupTime is the time used for chaining order: the window's earliest bound
// when one was given, otherwise the time the request was made.
func (r TransportRequest) PickupTime() time.Time {
	if r.Window != nil && !r.Window.Earliest.IsZero() {
		return r.Window.Earliest
	}
	return r.RequestedAt
}

type Event struct {
	ID         int64
	RequestID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the request lifecycle as code. COMPLETED and
// CANCELLED are terminal; requests in those states are immutable.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusScheduled, StatusAccepted, StatusCancelled},
	StatusScheduled:  {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
