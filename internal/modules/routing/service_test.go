// README: Chaining analyzer tests with in-memory request/facility sources.
package routing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"medtransit/internal/config"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/pricing"
	"medtransit/internal/types"
)

// ---------------------------------------------------------------------------
// In-memory collaborators
// ---------------------------------------------------------------------------

type mockRequestSource struct {
	reqs []hospital.TransportRequest
	err  error
}

func (m *mockRequestSource) PendingRequests(_ context.Context, _, _ time.Time, _ hospital.PendingFilter) ([]hospital.TransportRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reqs, nil
}

type mockFacilitySource struct {
	facilities map[types.ID]*hospital.Facility
}

func (m *mockFacilitySource) GetFacility(_ context.Context, id types.ID) (*hospital.Facility, error) {
	f, ok := m.facilities[id]
	if !ok {
		return nil, hospital.ErrNotFound
	}
	return f, nil
}

// fixedEstimator returns the same mileage for every leg, at 40 mph.
type fixedEstimator struct {
	miles float64
}

func (e fixedEstimator) Estimate(_ context.Context, _, _ types.Point) (float64, time.Duration, error) {
	return e.miles, time.Duration(e.miles / 40 * float64(time.Hour)), nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var testWindow = struct {
	start, end time.Time
}{
	start: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	end:   time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
}

func testFacilities() *mockFacilitySource {
	return &mockFacilitySource{facilities: map[types.ID]*hospital.Facility{
		"fA": {ID: "fA", Name: "General", Position: types.Point{Lat: 39.0, Lng: -84.0}, Active: true},
		"fB": {ID: "fB", Name: "St. Mary", Position: types.Point{Lat: 39.2, Lng: -84.1}, Active: true},
		"fC": {ID: "fC", Name: "Riverside", Position: types.Point{Lat: 39.3, Lng: -84.3}, Active: true},
		"fD": {ID: "fD", Name: "Summit", Position: types.Point{Lat: 39.5, Lng: -84.4}, Active: true},
	}}
}

func pendingRequest(id string, origin, dest types.ID, priority types.Priority, miles float64, pickup time.Time) hospital.TransportRequest {
	m := miles
	return hospital.TransportRequest{
		ID:                    types.ID(id),
		OriginFacilityID:      origin,
		DestinationFacilityID: dest,
		Level:                 types.LevelBLS,
		Priority:              priority,
		EstimatedMiles:        &m,
		Window:                &types.TimeWindow{Earliest: pickup, Latest: pickup.Add(time.Hour)},
		Status:                hospital.StatusPending,
		RequestedAt:           pickup.Add(-2 * time.Hour),
	}
}

func newAnalyzer(reqs *mockRequestSource, deadheadMiles float64) *Service {
	cfg := config.ChainingConfig{
		MaxStops:             8,
		MaxDeadheadMiles:     25,
		DeadheadAvgSpeedMph:  40,
		TemporalWindowMins:   60,
		MaxRouteDurationMins: 480,
	}
	return NewService(reqs, testFacilities(), fixedEstimator{miles: deadheadMiles},
		pricing.NewService(), nil, cfg, zerolog.Nop())
}

func optimize(t *testing.T, svc *Service) OptimizeResponse {
	t.Helper()
	resp, err := svc.OptimizeRoutes(context.Background(), OptimizeRequest{
		WindowStart: testWindow.start,
		WindowEnd:   testWindow.end,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	return resp
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestOptimizeEmptyWindow(t *testing.T) {
	resp := optimize(t, newAnalyzer(&mockRequestSource{}, 5))

	if len(resp.Opportunities) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(resp.Opportunities))
	}
	if resp.Summary.OpportunityCount != 0 || resp.Summary.RequestsConsidered != 0 {
		t.Fatalf("expected zero summary, got %+v", resp.Summary)
	}
	if len(resp.Recommendations) == 0 || !strings.Contains(resp.Recommendations[0], "No chaining opportunities") {
		t.Fatalf("expected zero-opportunity recommendation, got %v", resp.Recommendations)
	}
}

func TestOptimizeBadWindow(t *testing.T) {
	svc := newAnalyzer(&mockRequestSource{}, 5)
	_, err := svc.OptimizeRoutes(context.Background(), OptimizeRequest{
		WindowStart: testWindow.end,
		WindowEnd:   testWindow.start,
	})
	if !errors.Is(err, ErrBadWindow) {
		t.Fatalf("expected ErrBadWindow, got %v", err)
	}
}

// Unlike the ranker, a partition failure here has no safe degraded output.
func TestOptimizeStoreErrorIsHard(t *testing.T) {
	svc := newAnalyzer(&mockRequestSource{err: errors.New("partition unreachable")}, 5)
	_, err := svc.OptimizeRoutes(context.Background(), OptimizeRequest{
		WindowStart: testWindow.start,
		WindowEnd:   testWindow.end,
	})
	if err == nil {
		t.Fatal("expected hard error on request lookup failure")
	}
}

func TestOptimizeChainsTemporalPair(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 30, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fC", "fD", types.PriorityMedium, 30, testWindow.start.Add(90*time.Minute)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 5))

	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	o := resp.Opportunities[0]
	if len(o.RequestIDs) != 2 || o.RequestIDs[0] == o.RequestIDs[1] {
		t.Fatalf("opportunity must reference two distinct requests: %v", o.RequestIDs)
	}
	// Baseline 2x(30+30)=120, optimized 30+5+30=65.
	if o.MilesSaved != 55 {
		t.Fatalf("expected 55 miles saved, got %f", o.MilesSaved)
	}
	if o.UnitsSaved != 2 { // ceil(55/50)
		t.Fatalf("expected 2 units saved, got %d", o.UnitsSaved)
	}
	if o.OptimizationScore < 45 || o.OptimizationScore > 46 {
		t.Fatalf("expected score ~45.8, got %f", o.OptimizationScore)
	}
	if o.RouteType != RouteTemporal {
		t.Fatalf("pickups 30m apart should tag TEMPORAL, got %s", o.RouteType)
	}
	if len(o.Stops) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(o.Stops))
	}
	wantKinds := []StopKind{StopPickup, StopDropoff, StopPickup, StopDropoff}
	for i, st := range o.Stops {
		if st.Kind != wantKinds[i] || st.Sequence != i {
			t.Fatalf("stop %d out of order: %+v", i, st)
		}
	}
	if !o.Window.Earliest.Equal(testWindow.start.Add(time.Hour)) {
		t.Fatalf("window must open at first pickup, got %v", o.Window.Earliest)
	}
}

func TestOptimizeTagsReturnTrip(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("out", "fA", "fB", types.PriorityMedium, 20, testWindow.start.Add(time.Hour)),
		pendingRequest("back", "fB", "fA", types.PriorityMedium, 20, testWindow.start.Add(4*time.Hour)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 5))

	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	if got := resp.Opportunities[0].RouteType; got != RouteReturnTrip {
		t.Fatalf("expected RETURN_TRIP, got %s", got)
	}
}

func TestOptimizeTagsMultiStop(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 15, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fB", "fC", types.PriorityMedium, 15, testWindow.start.Add(2*time.Hour)),
		pendingRequest("r3", "fC", "fD", types.PriorityMedium, 15, testWindow.start.Add(3*time.Hour)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 5))

	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	o := resp.Opportunities[0]
	if o.RouteType != RouteMultiStop {
		t.Fatalf("three chained requests should tag MULTI_STOP, got %s", o.RouteType)
	}
	if len(o.Stops) != 6 {
		t.Fatalf("expected 6 stops, got %d", len(o.Stops))
	}
}

func TestOptimizeRespectsMaxStops(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 15, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fB", "fC", types.PriorityMedium, 15, testWindow.start.Add(2*time.Hour)),
		pendingRequest("r3", "fC", "fD", types.PriorityMedium, 15, testWindow.start.Add(3*time.Hour)),
	}}
	svc := newAnalyzer(reqs, 5)
	resp, err := svc.OptimizeRoutes(context.Background(), OptimizeRequest{
		WindowStart: testWindow.start,
		WindowEnd:   testWindow.end,
		Constraints: &Constraints{MaxStops: 4},
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	if got := len(resp.Opportunities[0].RequestIDs); got != 2 {
		t.Fatalf("4-stop cap allows 2 requests, got %d", got)
	}
}

func TestOptimizeSkipsFarDeadheads(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 30, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fC", "fD", types.PriorityMedium, 30, testWindow.start.Add(2*time.Hour)),
	}}
	// Deadhead above the 25-mile bound: no grouping.
	resp := optimize(t, newAnalyzer(reqs, 30))

	if len(resp.Opportunities) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(resp.Opportunities))
	}
}

// Even a grouping whose deadheads eat the whole benefit must never report
// negative savings.
func TestOptimizeMilesSavedNeverNegative(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 5, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fC", "fD", types.PriorityMedium, 5, testWindow.start.Add(2*time.Hour)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 20))

	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	o := resp.Opportunities[0]
	if o.MilesSaved != 0 {
		t.Fatalf("expected savings floored at 0, got %f", o.MilesSaved)
	}
	if o.UnitsSaved != 0 || o.OptimizationScore != 0 {
		t.Fatalf("zero savings imply zero units/score, got %+v", o)
	}
}

// Candidates are walked urgent-first, so an URGENT request leads the chain
// even when a LOW request has an earlier pickup.
func TestOptimizePriorityLeadsChain(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("low", "fA", "fB", types.PriorityLow, 20, testWindow.start.Add(time.Hour)),
		pendingRequest("urgent", "fC", "fD", types.PriorityUrgent, 20, testWindow.start.Add(2*time.Hour)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 5))

	if len(resp.Opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(resp.Opportunities))
	}
	o := resp.Opportunities[0]
	if o.RequestIDs[0] != "urgent" {
		t.Fatalf("urgent request must be visited first, got %v", o.RequestIDs)
	}
	if o.Stops[0].RequestID != "urgent" {
		t.Fatalf("first stop must belong to the urgent request, got %+v", o.Stops[0])
	}
}

type stubRecommender struct {
	narrative string
	err       error
}

func (s stubRecommender) Narrative(context.Context, string) (string, error) {
	return s.narrative, s.err
}

func TestOptimizeAppendsNarrative(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("r1", "fA", "fB", types.PriorityMedium, 30, testWindow.start.Add(time.Hour)),
		pendingRequest("r2", "fC", "fD", types.PriorityMedium, 30, testWindow.start.Add(90*time.Minute)),
	}}
	cfg := config.ChainingConfig{
		MaxStops:             8,
		MaxDeadheadMiles:     25,
		DeadheadAvgSpeedMph:  40,
		TemporalWindowMins:   60,
		MaxRouteDurationMins: 480,
	}
	svc := NewService(reqs, testFacilities(), fixedEstimator{miles: 5}, pricing.NewService(),
		stubRecommender{narrative: "Chain the morning returns."}, cfg, zerolog.Nop())

	resp := optimize(t, svc)
	last := resp.Recommendations[len(resp.Recommendations)-1]
	if last != "Chain the morning returns." {
		t.Fatalf("expected narrative appended last, got %q", last)
	}

	// A provider failure is advisory: the run still succeeds without it.
	svc = NewService(reqs, testFacilities(), fixedEstimator{miles: 5}, pricing.NewService(),
		stubRecommender{err: errors.New("quota exceeded")}, cfg, zerolog.Nop())
	resp = optimize(t, svc)
	for _, r := range resp.Recommendations {
		if r == "" {
			t.Fatal("empty recommendation line")
		}
	}
}

func TestOptimizeSkipsRequestsWithUnknownFacilities(t *testing.T) {
	reqs := &mockRequestSource{reqs: []hospital.TransportRequest{
		pendingRequest("known", "fA", "fB", types.PriorityMedium, 30, testWindow.start.Add(time.Hour)),
		pendingRequest("orphan", "fX", "fY", types.PriorityMedium, 30, testWindow.start.Add(2*time.Hour)),
	}}
	resp := optimize(t, newAnalyzer(reqs, 5))

	if resp.Summary.RequestsConsidered != 1 {
		t.Fatalf("expected 1 considered request, got %d", resp.Summary.RequestsConsidered)
	}
	if len(resp.Opportunities) != 0 {
		t.Fatalf("a single request cannot form an opportunity, got %d", len(resp.Opportunities))
	}
}
