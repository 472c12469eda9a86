package hospital

import (
	"testing"
	"time"

	"medtransit/internal/types"
)

// TestCanTransition verifies the request lifecycle table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusScheduled, true},
		{StatusScheduled, StatusAccepted, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		// cancels
		{StatusPending, StatusCancelled, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		// terminal states are immutable
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
		// skipping states
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusInProgress, StatusCancelled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPickupTimePrefersWindow(t *testing.T) {
	requested := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	earliest := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	r := TransportRequest{RequestedAt: requested}
	if got := r.PickupTime(); !got.Equal(requested) {
		t.Fatalf("expected requested time, got %v", got)
	}

	r.Window = &types.TimeWindow{Earliest: earliest, Latest: earliest.Add(2 * time.Hour)}
	if got := r.PickupTime(); !got.Equal(earliest) {
		t.Fatalf("expected window earliest, got %v", got)
	}
}
