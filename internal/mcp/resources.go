package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
)

var errNoUser = errors.New("no user in request context")

func (h *handlers) weeklyPRs(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, errNoUser
	}

	recs, err := h.ds.WeeklyPRs(ctx, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(recs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
