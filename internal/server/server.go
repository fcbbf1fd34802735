// Package server wires the inference engine, backlog index, tree
// watcher, and MCP tools into a server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on them. No business logic
// lives here, only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/groveplan/grove/internal/index"
	"github.com/groveplan/grove/internal/infer"
	"github.com/groveplan/grove/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server for a planning tree rooted
// at root, with all tools registered.
//
// The returned cleanup function stops the filesystem watcher and closes
// the index database; it must be called on shutdown (typically via
// defer). It is always non-nil and safe to call even when the optional
// subsystems failed to initialize.
func New(root string) (*server.MCPServer, func(), error) {
	// --- Core: inference engine with its own cache ---

	engine, err := infer.NewEngine(infer.Config{Root: root})
	if err != nil {
		return nil, noop, fmt.Errorf("creating inference engine: %w", err)
	}

	s := server.NewMCPServer(
		"grove",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	inferTool := tools.NewInferTool(engine)
	s.AddTool(inferTool.Definition(), inferTool.Handle)

	validateTool := tools.NewValidateTool(engine)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	resolveTool := tools.NewResolveTool(engine)
	s.AddTool(resolveTool.Definition(), resolveTool.Handle)

	childrenTool := tools.NewChildrenTool(engine)
	s.AddTool(childrenTool.Definition(), childrenTool.Handle)

	statsTool := tools.NewStatsTool(engine)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Backlog index ---
	//
	// The index is an independent subsystem: if it fails to initialize,
	// inference and resolution keep working. We log a warning and skip
	// the index tools.

	cleanup := noop
	idx, idxErr := index.Open(engine.Roots())
	if idxErr != nil {
		log.Printf("WARNING: backlog index disabled: %v", idxErr)
	} else {
		if _, _, err := idx.Rebuild(); err != nil {
			log.Printf("WARNING: initial index build: %v", err)
		}

		searchTool := tools.NewSearchTool(idx)
		s.AddTool(searchTool.Definition(), searchTool.Handle)

		reindexTool := tools.NewReindexTool(idx)
		s.AddTool(reindexTool.Definition(), reindexTool.Handle)
	}

	// --- Tree watcher ---
	//
	// Invalidates cache entries (and keeps the index current) when the
	// planning tree changes underneath the server. Best effort: the
	// cache's mtime probing already guarantees correctness without it.

	var watcherIndex infer.Indexer
	if idxErr == nil {
		watcherIndex = idx
	}
	watcher, watchErr := infer.NewWatcher(engine.Roots(), engine.Cache(), watcherIndex)
	if watchErr != nil {
		log.Printf("WARNING: planning tree watcher disabled: %v", watchErr)
	}

	cleanup = func() {
		if watchErr == nil {
			if err := watcher.Close(); err != nil {
				log.Printf("WARNING: watcher close: %v", err)
			}
		}
		if idxErr == nil {
			if err := idx.Close(); err != nil {
				log.Printf("WARNING: index close: %v", err)
			}
		}
	}

	return s, cleanup, nil
}

// noop is the default cleanup when nothing needs tearing down.
func noop() {}

// serverInstructions tells the AI how to use the grove tools.
func serverInstructions() string {
	return `You have access to Grove, a hierarchical planning store served over MCP.

## The planning tree
Objects are markdown files with YAML front matter, identified by typed IDs:
- P-<id>: project (projects/P-<id>/project.md)
- E-<id>: epic, owned by a project
- F-<id>: feature, owned by an epic
- T-<id>: task, owned by a feature OR standalone (no parent)

Tasks live in tasks-open/ until done, then move to tasks-done/ with a
sortable timestamp prefix on the filename.

## Tools
- grove_infer_kind: classify an ID and confirm it against the tree.
  Use this before acting on an ID a user gave you.
- grove_validate_object: full structural report (existence, front
  matter, kind agreement, field checks). Always reads live state.
- grove_resolve_path: find where an object lives, or where a new one
  would be created (set new=true; epics/features need parent).
- grove_children: list every descendant of a project/epic/feature.
- grove_search: substring search over the backlog index.
- grove_reindex: rebuild the index after bulk edits outside the server.
- grove_cache_stats: inference cache counters, for diagnostics.

## Rules
- IDs are lowercase alphanumeric segments joined by single hyphens,
  with an uppercase one-letter prefix: P-, E-, F-, or T-.
- Tools accept IDs with or without the prefix, but always echo the
  canonical form back to the user.
- When a tool reports a validation failure, show the user the detail
  text: it names the failing field or stage.`
}
