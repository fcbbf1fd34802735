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

// ResolveTool handles the grove_resolve_path MCP tool: mapping IDs to
// their canonical location in the planning tree, for existing objects
// or for ones about to be created.
type ResolveTool struct {
	engine *infer.Engine
}

// NewResolveTool creates a ResolveTool with its dependencies.
func NewResolveTool(engine *infer.Engine) *ResolveTool {
	return &ResolveTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *ResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_resolve_path",
		mcp.WithDescription(
			"Resolve a planning object ID to its path under the planning root. "+
				"By default locates an existing object; with new=true, computes the "+
				"path a new object would be created at (parent required for epics "+
				"and features, optional for tasks — no parent means standalone).",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The object ID, with or without its kind prefix."),
		),
		mcp.WithString("kind",
			mcp.Description("Object kind. Inferred from the ID prefix when omitted."),
			mcp.Enum("project", "epic", "feature", "task"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent ID for new epics/features (and hierarchy tasks)."),
		),
		mcp.WithString("status",
			mcp.Description("Task status routing for new tasks: open, in-progress, review, or done."),
			mcp.Enum("open", "in-progress", "review", "done"),
		),
		mcp.WithBoolean("new",
			mcp.Description("Compute the creation path for an object that does not exist yet (default: false)."),
		),
	)
}

// Handle processes the grove_resolve_path tool call.
func (t *ResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	kind := object.Kind(req.GetString("kind", ""))
	if kind == "" {
		inferred, err := object.InferKind(id)
		if err != nil {
			return codedError(err), nil
		}
		kind = inferred
	}

	roots := t.engine.Roots()

	if boolArg(req, "new", false) {
		builder := paths.NewBuilder(roots).
			ForObject(kind, id).
			WithParent(req.GetString("parent", "")).
			WithStatus(object.Status(req.GetString("status", "")))
		path, err := builder.Build()
		if err != nil {
			return codedError(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("New %s path: %s", kind, relPath(roots, path))), nil
	}

	path, err := paths.IDToPath(roots, kind, id)
	if err != nil {
		return codedError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s %s is at %s", kind, id, relPath(roots, path))), nil
}
