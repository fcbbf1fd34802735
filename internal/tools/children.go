package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/infer"
	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

// ChildrenTool handles the grove_children MCP tool.
type ChildrenTool struct {
	engine *infer.Engine
}

// NewChildrenTool creates a ChildrenTool with its dependencies.
func NewChildrenTool(engine *infer.Engine) *ChildrenTool {
	return &ChildrenTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *ChildrenTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_children",
		mcp.WithDescription(
			"List every descendant of a planning object (epics under a project, "+
				"features under an epic, tasks under a feature — both open and done), "+
				"sorted by path. Tasks have no descendants.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The parent object ID."),
		),
	)
}

// Handle processes the grove_children tool call.
func (t *ChildrenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	kind, err := object.InferKind(id)
	if err != nil {
		return codedError(err), nil
	}

	roots := t.engine.Roots()
	children, err := paths.ChildrenOf(roots, kind, id)
	if err != nil {
		return codedError(err), nil
	}

	if len(children) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s %s has no descendants", kind, id)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Descendants of %s %s (%d)\n\n", kind, id, len(children))
	for _, c := range children {
		fmt.Fprintf(&sb, "- %s\n", relPath(roots, c))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
