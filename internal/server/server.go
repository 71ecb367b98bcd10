package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HIkaru827/musclegram/internal/ingest"
	"github.com/HIkaru827/musclegram/internal/ingest/alpha"
	musclemcp "github.com/HIkaru827/musclegram/internal/mcp"
	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/workouts"
	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ImportLogStore keeps the history of CSV imports.
type ImportLogStore interface {
	ingest.LogStore
	QueryImportLogs(ctx context.Context, userID string, limit int) ([]models.ImportLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc     *workouts.Service
	alpha   *alpha.Provider
	imports ImportLogStore
	metrics *metrics.Manager
	log     *slog.Logger
	apiKey  string
	whois   WhoIser
	mcp     http.Handler
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *workouts.Service, alphaProvider *alpha.Provider, imports ImportLogStore, apiKey string, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		svc:     svc,
		alpha:   alphaProvider,
		imports: imports,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
	}
	s.routes()
	return s
}

// SetTailscale makes the server identify callers by their tailnet login.
// Call it before serving.
func (s *Server) SetTailscale(whois WhoIser) {
	s.whois = whois
	s.routes()
}

// SetMCP mounts an MCP server at /mcp over the streamable HTTP transport.
// Tool calls run as the authenticated caller. Call it before serving.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	s.mcp = mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return musclemcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.routes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(RequestLogging(s.log))
	if s.metrics != nil {
		r.Use(RequestMetrics(s.metrics))
	}
	r.Use(CORS)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(UserIdentity(s.whois))

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/workouts", s.handlePostWorkout)
			r.Get("/workouts/{id}", s.handleGetWorkout)
			r.Delete("/workouts/{id}", s.handleDeleteWorkout)

			r.Get("/prs", s.handlePRs)
			r.Get("/prs/weekly", s.handleWeeklyPRs)
			r.Get("/prs/trend", s.handlePRTrend)
			r.Get("/prs/grouped", s.handleGroupedPRs)

			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/classify", s.handleClassify)
			r.Get("/stats", s.handleStats)

			r.Post("/ingest/alpha", s.handleAlphaIngest)
			r.Get("/imports", s.handleImportLogs)
		})

		if s.mcp != nil {
			r.Handle("/mcp", s.mcp)
		}
	})

	s.router = r
}
