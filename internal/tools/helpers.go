// Package tools implements the MCP tool handlers over the inference
// engine and the backlog index.
//
// Each tool follows the same pattern:
// - A struct with dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Data errors (bad IDs, missing objects) come back as tool error
// results carrying their taxonomy code; only transport-level failures
// return a Go error.
package tools

import (
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// codedError formats a taxonomy error as a tool error result:
// "CODE: message". Raw filesystem paths never appear in these.
func codedError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", object.Code(err), err))
}

// relPath renders a path relative to the resolution root with forward
// slashes, so tool output never leaks absolute paths.
func relPath(roots paths.Roots, path string) string {
	rel, err := filepath.Rel(roots.Resolution, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
