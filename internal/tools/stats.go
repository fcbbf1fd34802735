package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/infer"
)

// StatsTool handles the grove_cache_stats MCP tool.
type StatsTool struct {
	engine *infer.Engine
}

// NewStatsTool creates a StatsTool with its dependencies.
func NewStatsTool(engine *infer.Engine) *StatsTool {
	return &StatsTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("grove_cache_stats",
		mcp.WithDescription(
			"Report inference cache counters: size, capacity, hits, misses, "+
				"evictions, and hit rate.",
		),
	)
}

// Handle processes the grove_cache_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s := t.engine.CacheStats()

	var sb strings.Builder
	sb.WriteString("# Inference Cache\n\n")
	fmt.Fprintf(&sb, "- size: %d / %d\n", s.Size, s.MaxSize)
	fmt.Fprintf(&sb, "- hits: %d\n", s.Hits)
	fmt.Fprintf(&sb, "- misses: %d\n", s.Misses)
	fmt.Fprintf(&sb, "- evictions: %d\n", s.Evictions)
	fmt.Fprintf(&sb, "- hit rate: %.1f%%\n", s.HitRate*100)

	return mcp.NewToolResultText(sb.String()), nil
}
