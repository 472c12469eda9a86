// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"medtransit/internal/http/middleware"
	"medtransit/internal/modules/center"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/matching"
	"medtransit/internal/modules/routing"
	"medtransit/internal/types"
)

// Service contracts the handlers depend on; satisfied by the module services
// and by in-memory stubs in tests.

type Matcher interface {
	FindMatches(ctx context.Context, c matching.Criteria) (matching.RankResponse, error)
}

type Optimizer interface {
	OptimizeRoutes(ctx context.Context, req routing.OptimizeRequest) (routing.OptimizeResponse, error)
}

type RequestService interface {
	Create(ctx context.Context, cmd hospital.CreateCommand) (types.ID, error)
	Accept(ctx context.Context, cmd hospital.AcceptCommand) error
	Get(ctx context.Context, id types.ID) (*hospital.TransportRequest, error)
}

type Registry interface {
	Register(ctx context.Context, cmd center.RegisterCommand) (types.ID, error)
	ListActive(ctx context.Context) ([]center.RegisteredAgency, error)
}

type ServerDeps struct {
	Matching Matcher
	Routing  Optimizer
	Requests RequestService
	Registry Registry
	Log      zerolog.Logger
}

type Server struct {
	matching Matcher
	routing  Optimizer
	requests RequestService
	registry Registry
	log      zerolog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		matching: deps.Matching,
		routing:  deps.Routing,
		requests: deps.Requests,
		registry: deps.Registry,
		log:      deps.Log,
	}
}

func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(s.log), middleware.Recovery(s.log))

	api := r.Group("/api")
	api.POST("/matching/find", s.handleFindMatches)
	api.POST("/routes/optimize", s.handleOptimizeRoutes)
	api.POST("/routes/report", s.handleRouteReport)

	api.POST("/requests", s.handleCreateRequest)
	api.GET("/requests/:id", s.handleGetRequest)
	api.POST("/requests/:id/accept", s.handleAcceptRequest)

	api.POST("/admin/agencies", s.handleRegisterAgency)
	api.GET("/admin/agencies", s.handleListAgencies)

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	return r
}
