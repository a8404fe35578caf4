package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/seunfola/repohealth/core"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc *core.Service
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token := request.GetString("token", "")

	var err error
	var record any
	if repo := request.GetString("repo", ""); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repo %q, expected owner/repo", repo)), nil
		}
		record, err = h.svc.AnalyzeRepo(ctx, owner, name, nil, "", token)
	} else if url := request.GetString("url", ""); url != "" {
		record, err = h.svc.AnalyzeRepoURL(ctx, url, nil, "", token)
	} else {
		return mcp.NewToolResultError("either 'repo' or 'url' must be given"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeManifest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	manifest := request.GetString("manifest", "")
	if manifest == "" {
		return mcp.NewToolResultError("'manifest' must be given"), nil
	}

	report, err := h.svc.AnalyzeManifestOnly(ctx, []byte(manifest))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("manifest analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRepositoryHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := request.GetString("repo", "")
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid repo %q, expected owner/repo", repo)), nil
	}

	record, err := h.svc.FindRepoHealth(ctx, owner, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
