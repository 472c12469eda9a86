// README: Rate definitions for each transport level.
package pricing

import "medtransit/internal/types"

type Rate struct {
	Level    types.TransportLevel
	BaseRate int64
	Currency string
}

// Base rates per trip in whole currency units.
var rates = map[types.TransportLevel]Rate{
	types.LevelBLS: {Level: types.LevelBLS, BaseRate: 150, Currency: "USD"},
	types.LevelALS: {Level: types.LevelALS, BaseRate: 250, Currency: "USD"},
	types.LevelCCT: {Level: types.LevelCCT, BaseRate: 400, Currency: "USD"},
}

func priorityMultiplier(p types.Priority) float64 {
	switch p {
	case types.PriorityUrgent:
		return 1.5
	case types.PriorityHigh:
		return 1.3
	case types.PriorityMedium:
		return 1.1
	default:
		return 1.0
	}
}
