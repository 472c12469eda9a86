// README: Pluggable eligibility predicates with conservative defaults.
package matching

import (
	"medtransit/internal/modules/ems"
	"medtransit/internal/types"
)

// SupportsPredicate answers whether an agency can handle a request's
// special-requirements text (bariatric, isolation, ventilator, ...).
type SupportsPredicate interface {
	Supports(agency ems.Agency, requirements string) bool
}

// AreaPredicate answers whether a facility lies inside an agency's service
// area. Implementations own the polygon/list data.
type AreaPredicate interface {
	Covers(agency ems.Agency, facilityID types.ID) bool
}

// HoursPredicate answers whether an agency can operate during the requested
// window.
type HoursPredicate interface {
	Compatible(agency ems.Agency, window types.TimeWindow) bool
}

// Defaults: no agency-capability data exists upstream yet, so special
// requirements and service-area containment answer false (unknown never
// scores as a match), while operating hours answer compatible — an agency is
// presumed open until data says otherwise.

type denySupports struct{}

func (denySupports) Supports(ems.Agency, string) bool { return false }

type unknownArea struct{}

func (unknownArea) Covers(ems.Agency, types.ID) bool { return false }

type openHours struct{}

func (openHours) Compatible(ems.Agency, types.TimeWindow) bool { return true }

func DefaultSupports() SupportsPredicate { return denySupports{} }
func DefaultArea() AreaPredicate         { return unknownArea{} }
func DefaultHours() HoursPredicate       { return openHours{} }
