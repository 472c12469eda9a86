// README: EMS Partition aggregates — agencies, units, unit availability.
package ems

import (
	"time"

	"medtransit/internal/types"
)

type AvailabilityStatus string

const (
	StatusAvailable    AvailabilityStatus = "AVAILABLE"
	StatusInUse        AvailabilityStatus = "IN_USE"
	StatusOutOfService AvailabilityStatus = "OUT_OF_SERVICE"
)

type UnitAvailability struct {
	UnitID    types.ID           `json:"unit_id"`
	Status    AvailabilityStatus `json:"status"`
	Position  *types.Point       `json:"position,omitempty"`
	Shift     *types.TimeWindow  `json:"shift,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type Unit struct {
	ID           types.ID
	AgencyID     types.ID
	Level        types.TransportLevel
	Active       bool
	Availability *UnitAvailability
}

type Agency struct {
	ID           types.ID
	ExternalID   types.ID
	Name         string
	ContactEmail string
	ContactPhone string
	Active       bool
	Units        []Unit
}

// ActiveUnits returns the agency's units with the active flag set.
func (a Agency) ActiveUnits() []Unit {
	var out []Unit
	for _, u := range a.Units {
		if u.Active {
			out = append(out, u)
		}
	}
	return out
}

// HasCapability reports whether any active unit matches the required level.
func (a Agency) HasCapability(level types.TransportLevel) bool {
	for _, u := range a.Units {
		if u.Active && u.Level == level {
			return true
		}
	}
	return false
}

// FirstAvailable returns the first active unit of the given level whose
// availability record reads AVAILABLE, or nil when there is none.
func (a Agency) FirstAvailable(level types.TransportLevel) *Unit {
	for i := range a.Units {
		u := &a.Units[i]
		if !u.Active || u.Level != level {
			continue
		}
		if u.Availability != nil && u.Availability.Status == StatusAvailable {
			return u
		}
	}
	return nil
}
