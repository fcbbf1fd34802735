package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/infer"
)

// InferTool handles the grove_infer_kind MCP tool.
type InferTool struct {
	engine *infer.Engine
}

// NewInferTool creates an InferTool with its dependencies.
func NewInferTool(engine *infer.Engine) *InferTool {
	return &InferTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *InferTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_infer_kind",
		mcp.WithDescription(
			"Classify a planning object ID (P-, E-, F-, T- prefixed) into its kind "+
				"(project, epic, feature, task) and confirm it against the planning tree. "+
				"Results are cached; the response reports whether the cache answered.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The object ID to classify, e.g. 'P-ecommerce-platform' or 'T-implement-login'."),
		),
		mcp.WithBoolean("validate",
			mcp.Description("Confirm the inferred kind against the object stored on disk (default: true)."),
		),
	)
}

// Handle processes the grove_infer_kind tool call.
func (t *InferTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	validate := boolArg(req, "validate", true)

	if !validate {
		kind, err := t.engine.InferKind(id, false)
		if err != nil {
			return codedError(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s is a %s (pattern only, not validated)", id, kind)), nil
	}

	res, err := t.engine.InferWithValidation(id)
	if err != nil {
		return codedError(err), nil
	}

	var sb strings.Builder
	if res.IsValid {
		fmt.Fprintf(&sb, "%s is a %s\n", id, res.Kind)
	} else if res.Kind != "" {
		fmt.Fprintf(&sb, "%s looks like a %s, but validation failed\n", id, res.Kind)
	} else {
		fmt.Fprintf(&sb, "%s did not classify\n", id)
	}
	if res.Detail != "" {
		fmt.Fprintf(&sb, "Detail: %s\n", res.Detail)
	}
	fmt.Fprintf(&sb, "Cache hit: %t | Elapsed: %s", res.CacheHit, res.Elapsed)

	if !res.IsValid {
		return mcp.NewToolResultError(sb.String()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
