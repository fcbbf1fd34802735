// Grove: hierarchical planning store MCP server.
//
// Serves kind inference, path resolution, and backlog search over a
// file-backed planning tree of projects, epics, features, and tasks.
//
// Usage:
//
//	grove serve [root]   # Start MCP server (stdio transport)
//	grove version        # Print version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	groveserver "github.com/groveplan/grove/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("grove v%s\n", groveserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	root, err := planningRoot()
	if err != nil {
		return err
	}

	s, cleanup, err := groveserver.New(root)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt. The stdio server exits when its
	// stdin closes; the signal handler covers terminal interrupts.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s)
	}()

	select {
	case <-sigCh:
		return nil
	case err := <-errCh:
		return err
	}
}

// planningRoot picks the planning tree root, in order of preference:
// positional argument, GROVE_PLANNING_ROOT, current directory.
func planningRoot() (string, error) {
	if len(os.Args) > 2 {
		return os.Args[2], nil
	}
	if env := os.Getenv("GROVE_PLANNING_ROOT"); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determining working directory: %w", err)
	}
	return cwd, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Grove v%s — planning store MCP server

Usage:
  grove serve [root]   Start the MCP server (stdio transport)
  grove version        Print version

The planning root is taken from the positional argument, then the
GROVE_PLANNING_ROOT environment variable, then the current directory.

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "grove": {
        "command": "grove",
        "args": ["serve", "/path/to/planning"]
      }
    }
  }
`, groveserver.Version)
}
