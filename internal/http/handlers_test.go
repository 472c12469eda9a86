// README: HTTP handler tests over stubbed module services.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"medtransit/internal/modules/center"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/matching"
	"medtransit/internal/modules/routing"
	"medtransit/internal/types"
)

// h is a shorthand request body literal.
type h = map[string]any

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubMatcher struct {
	resp matching.RankResponse
	err  error
}

func (s *stubMatcher) FindMatches(context.Context, matching.Criteria) (matching.RankResponse, error) {
	return s.resp, s.err
}

type stubOptimizer struct {
	resp routing.OptimizeResponse
	err  error
}

func (s *stubOptimizer) OptimizeRoutes(context.Context, routing.OptimizeRequest) (routing.OptimizeResponse, error) {
	return s.resp, s.err
}

type stubRequests struct {
	id        types.ID
	req       *hospital.TransportRequest
	createErr error
	acceptErr error
	getErr    error
}

func (s *stubRequests) Create(context.Context, hospital.CreateCommand) (types.ID, error) {
	return s.id, s.createErr
}

func (s *stubRequests) Accept(context.Context, hospital.AcceptCommand) error {
	return s.acceptErr
}

func (s *stubRequests) Get(context.Context, types.ID) (*hospital.TransportRequest, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.req, nil
}

type stubRegistry struct {
	id       types.ID
	agencies []center.RegisteredAgency
	err      error
}

func (s *stubRegistry) Register(context.Context, center.RegisterCommand) (types.ID, error) {
	return s.id, s.err
}

func (s *stubRegistry) ListActive(context.Context) ([]center.RegisteredAgency, error) {
	return s.agencies, s.err
}

type stubs struct {
	matcher   *stubMatcher
	optimizer *stubOptimizer
	requests  *stubRequests
	registry  *stubRegistry
}

func newTestServer() (*Server, *stubs) {
	st := &stubs{
		matcher:   &stubMatcher{},
		optimizer: &stubOptimizer{},
		requests:  &stubRequests{},
		registry:  &stubRegistry{},
	}
	srv := NewServer(ServerDeps{
		Matching: st.matcher,
		Routing:  st.optimizer,
		Requests: st.requests,
		Registry: st.registry,
		Log:      zerolog.Nop(),
	})
	return srv, st
}

func perform(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv, _ := newTestServer()
	w := perform(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", w.Code, w.Body.String())
	}
}

func TestFindMatchesOK(t *testing.T) {
	srv, st := newTestServer()
	st.matcher.resp = matching.RankResponse{Results: []matching.Result{
		{AgencyID: "a1", AgencyName: "Metro EMS", Score: 205},
	}}

	w := perform(t, srv, http.MethodPost, "/api/matching/find", h{
		"transport_level":         "CCT",
		"origin_facility_id":      "f1",
		"destination_facility_id": "f2",
		"priority":                "URGENT",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp matching.RankResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Score != 205 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestFindMatchesBadCriteria(t *testing.T) {
	srv, st := newTestServer()
	st.matcher.err = matching.ErrBadCriteria

	w := perform(t, srv, http.MethodPost, "/api/matching/find", h{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFindMatchesMalformedBody(t *testing.T) {
	srv, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/matching/find", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestOptimizeBadWindow(t *testing.T) {
	srv, st := newTestServer()
	st.optimizer.err = routing.ErrBadWindow

	w := perform(t, srv, http.MethodPost, "/api/routes/optimize", h{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRouteReportRequiresTwoRequests(t *testing.T) {
	srv, _ := newTestServer()

	w := perform(t, srv, http.MethodPost, "/api/routes/report", h{
		"request_ids": []string{"r1"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = perform(t, srv, http.MethodPost, "/api/routes/report", h{
		"request_ids": []string{"r1", "r2"},
		"total_miles": 120,
		"miles_saved": 80,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRequest(t *testing.T) {
	srv, st := newTestServer()
	st.requests.id = "req-1"

	w := perform(t, srv, http.MethodPost, "/api/requests", h{
		"origin_facility_id":      "f1",
		"destination_facility_id": "f2",
		"transport_level":         "BLS",
		"priority":                "MEDIUM",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["id"] != "req-1" {
		t.Fatalf("expected id req-1, got %q", resp["id"])
	}
}

func TestCreateRequestSameFacility(t *testing.T) {
	srv, st := newTestServer()
	st.requests.createErr = hospital.ErrSameFacility

	w := perform(t, srv, http.MethodPost, "/api/requests", h{
		"origin_facility_id":      "f1",
		"destination_facility_id": "f1",
		"transport_level":         "BLS",
		"priority":                "MEDIUM",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetRequestNotFound(t *testing.T) {
	srv, st := newTestServer()
	st.requests.getErr = hospital.ErrNotFound

	w := perform(t, srv, http.MethodGet, "/api/requests/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAcceptRequest(t *testing.T) {
	srv, _ := newTestServer()
	w := perform(t, srv, http.MethodPost, "/api/requests/req-1/accept", h{
		"agency_id": "a1",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAcceptRequestVersionConflict(t *testing.T) {
	srv, st := newTestServer()
	st.requests.acceptErr = hospital.ErrConflict

	w := perform(t, srv, http.MethodPost, "/api/requests/req-1/accept", h{
		"agency_id": "a1",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRegisterAndListAgencies(t *testing.T) {
	srv, st := newTestServer()
	st.registry.id = "ra-1"
	st.registry.agencies = []center.RegisteredAgency{{ID: "ra-1", Name: "Metro EMS", ExternalID: "a1"}}

	w := perform(t, srv, http.MethodPost, "/api/admin/agencies", h{
		"external_id":   "a1",
		"name":          "Metro EMS",
		"contact_email": "dispatch@metro-ems.example",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = perform(t, srv, http.MethodGet, "/api/admin/agencies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var agencies []center.RegisteredAgency
	if err := json.Unmarshal(w.Body.Bytes(), &agencies); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(agencies) != 1 || agencies[0].ExternalID != "a1" {
		t.Fatalf("unexpected agencies: %+v", agencies)
	}
}
