// README: Transport level and priority enums shared by all three partitions.
package types

type TransportLevel string

const (
	LevelBLS TransportLevel = "BLS"
	LevelALS TransportLevel = "ALS"
	LevelCCT TransportLevel = "CCT"
)

func (l TransportLevel) Valid() bool {
	switch l {
	case LevelBLS, LevelALS, LevelCCT:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities for candidate sorting: URGENT > HIGH > MEDIUM > LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}
