package mcp

import (
	"context"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultTrendLimit = 20

var prTypeEnum = mcp.Enum("e1RM", "weight_reps", "3RM", "5RM", "8RM", "session_volume")

// --- Tool definitions ---

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("List the user's personal records, newest first. Each record holds the value, the set that produced it (for weight-based types), the previous best and the improvement."),
	mcp.WithString("exercise", mcp.Description("Filter by exact exercise name (e.g. 'ベンチプレス')")),
	mcp.WithString("type", mcp.Description("Filter by PR type"), prTypeEnum),
)

var toolGetWeeklyPRs = mcp.NewTool("get_weekly_prs",
	mcp.WithDescription("Personal records set in the last 7 days."),
)

var toolGetPRTrend = mcp.NewTool("get_pr_trend",
	mcp.WithDescription("Chronological progression (oldest to newest) of one exercise's records of one PR type."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithString("type", mcp.Required(), mcp.Description("PR type"), prTypeEnum),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records. Defaults to 20.")),
)

var toolGetTrainingRecommendations = mcp.NewTool("get_training_recommendations",
	mcp.WithDescription("Next recommended training date per exercise, derived from the average interval between training days. Sorted most urgent first; status is overdue, due_soon, on_track or ahead."),
)

var toolClassifyExercise = mcp.NewTool("classify_exercise",
	mcp.WithDescription("Look up the muscle group of an exercise and, optionally, the display category of a PR type."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, Japanese or English")),
	mcp.WithString("type", mcp.Description("PR type"), prTypeEnum),
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Counts of stored workouts and records, the training date range and the best value per PR type."),
)

// --- Tool handlers ---

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}
	f := models.PRFilter{
		Exercise: req.GetString("exercise", ""),
		Type:     models.PRType(req.GetString("type", "")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return mcp.NewToolResultError("unknown PR type: " + string(f.Type)), nil
	}

	recs, err := h.ds.PRs(ctx, uid, f)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(recs)
}

func (h *handlers) getWeeklyPRs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}
	recs, err := h.ds.WeeklyPRs(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_weekly_prs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(recs)
}

func (h *handlers) getPRTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	prType := models.PRType(typ)
	if !prType.Valid() {
		return mcp.NewToolResultError("unknown PR type: " + typ), nil
	}
	limit := req.GetInt("limit", defaultTrendLimit)
	if limit <= 0 {
		limit = defaultTrendLimit
	}

	recs, err := h.ds.PRTrend(ctx, uid, exercise, prType, limit)
	if err != nil {
		h.log.Error("mcp get_pr_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(recs)
}

func (h *handlers) getTrainingRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}
	recs, err := h.ds.Recommendations(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_recommendations", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(recs)
}

func (h *handlers) classifyExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	prType := models.PRType(req.GetString("type", ""))
	if prType != "" && !prType.Valid() {
		return mcp.NewToolResultError("unknown PR type: " + string(prType)), nil
	}
	return jsonResult(records.Classify(exercise, prType))
}

func (h *handlers) getDataStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}
	stats, err := h.ds.Stats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_data_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(stats)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
