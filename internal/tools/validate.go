package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/infer"
	"github.com/groveplan/grove/internal/object"
)

// ValidateTool handles the grove_validate_object MCP tool. It always
// reads the live filesystem; validation never answers from the cache.
type ValidateTool struct {
	engine *infer.Engine
}

// NewValidateTool creates a ValidateTool with its dependencies.
func NewValidateTool(engine *infer.Engine) *ValidateTool {
	return &ValidateTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_validate_object",
		mcp.WithDescription(
			"Validate a planning object against the filesystem: existence, readable "+
				"front matter, kind agreement, and field-level schema checks. "+
				"Bypasses the inference cache so the report reflects live state.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The object ID to validate."),
		),
		mcp.WithString("expected_kind",
			mcp.Description("Kind to validate against: project, epic, feature, or task. Inferred from the ID prefix when omitted."),
			mcp.Enum("project", "epic", "feature", "task"),
		),
	)
}

// Handle processes the grove_validate_object tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	expected := object.Kind(req.GetString("expected_kind", ""))

	res, err := t.engine.ValidateObject(id, expected)
	if err != nil {
		return codedError(err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Validation: %s\n\n", id)
	fmt.Fprintf(&sb, "- valid: %t\n", res.IsValid)
	fmt.Fprintf(&sb, "- object exists: %t\n", res.ObjectExists)
	fmt.Fprintf(&sb, "- metadata valid: %t\n", res.MetadataValid)
	fmt.Fprintf(&sb, "- type matches: %t\n", res.TypeMatches)

	if len(res.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	if len(res.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}

	if !res.IsValid {
		return mcp.NewToolResultError(sb.String()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
