// README: Pricing service computes projected trip revenue.
package pricing

import (
	"math"

	"medtransit/internal/types"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Projected estimates the revenue for running one request as a standalone
// trip: base rate by level, scaled by distance and priority. Distance below
// 25 miles does not discount below the base rate. A nil distance prices the
// trip at the base band.
func (s *Service) Projected(level types.TransportLevel, priority types.Priority, miles *float64) types.Money {
	rate, ok := rates[level]
	if !ok {
		rate = rates[types.LevelBLS]
	}
	distMult := 1.0
	if miles != nil {
		distMult = math.Max(1, *miles/25)
	}
	amount := math.Round(float64(rate.BaseRate) * distMult * priorityMultiplier(priority))
	return types.Money{Amount: int64(amount), Currency: rate.Currency}
}
