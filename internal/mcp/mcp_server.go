// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/seunfola/repohealth/core"
)

// NewMCPServer initializes and configures the repohealth MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Repository Health Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Analyze a GitHub repository's health from metadata and store the resulting record."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form.")),
		mcp.WithString("url", mcp.Description("Repository URL (https or git@), used when 'repo' is not given.")),
		mcp.WithString("token", mcp.Description("Optional API token overriding the configured fallback.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: analyze_manifest ---
	s.AddTool(mcp.NewTool("analyze_manifest",
		mcp.WithDescription("Run a sandboxed dependency-risk analysis over a raw package.json or package-lock.json."),
		mcp.WithString("manifest", mcp.Description("Raw manifest JSON text."), mcp.Required()),
	), h.handleAnalyzeManifest)

	// --- 3. Tool: get_repository_health ---
	s.AddTool(mcp.NewTool("get_repository_health",
		mcp.WithDescription("Fetch the stored health record for a repository without re-analyzing."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
	), h.handleGetRepositoryHealth)

	return s
}

// StartMCPServer starts the repohealth MCP server over stdio.
func StartMCPServer(_ context.Context, svc *core.Service) error {
	s := NewMCPServer(svc)
	return server.ServeStdio(s)
}
