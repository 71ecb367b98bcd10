// Package mcp exposes personal records and training recommendations as MCP
// tools and resources.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MuscleGram", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MuscleGram strength training server. Query personal records, PR trends and next-session recommendations. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetWeeklyPRs, Handler: h.getWeeklyPRs},
		server.ServerTool{Tool: toolGetPRTrend, Handler: h.getPRTrend},
		server.ServerTool{Tool: toolGetTrainingRecommendations, Handler: h.getTrainingRecommendations},
		server.ServerTool{Tool: toolClassifyExercise, Handler: h.classifyExercise},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	s.AddResources(
		server.ServerResource{Resource: resWeeklyPRs, Handler: h.weeklyPRs},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resWeeklyPRs = mcp.NewResource(
	"musclegram://weekly_prs",
	"Weekly PRs",
	mcp.WithResourceDescription("Personal records set in the last 7 days"),
	mcp.WithMIMEType("application/json"),
)
