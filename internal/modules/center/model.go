// README: Center Partition aggregates — the administrative agency registry.
package center

import (
	"time"

	"medtransit/internal/types"
)

// RegisteredAgency is the Transport Center's administrative record of an
// agency. It is a distinct row from the EMS partition's agency row; the two
// are reconciled only through ExternalID, never by name or email. For
// matching, the EMS partition is the system of record and this record is
// metadata.
type RegisteredAgency struct {
	ID           types.ID
	ExternalID   types.ID
	Name         string
	ContactEmail string
	Active       bool
	CreatedAt    time.Time
}
