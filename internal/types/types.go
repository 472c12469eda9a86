// README: Common value types shared across partition modules.
package types

import "time"

type ID string

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// TimeWindow is a requested pickup window. Zero Earliest/Latest means "unspecified".
type TimeWindow struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

func (w TimeWindow) IsZero() bool {
	return w.Earliest.IsZero() && w.Latest.IsZero()
}
