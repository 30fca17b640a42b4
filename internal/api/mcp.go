package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/recommend"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *catalog.Store
	Limit int // recommendation shortlist cap
}

// NewMCPServer creates an MCP server exposing the catalog and the
// recommendation engine as tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"artel",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("artel — art marketplace catalog search and recommendations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_filters",
			mcp.WithDescription("List the filterable vocabulary of the catalog: available styles, colors, moods, and the price range."),
		),
		mcpListFilters(deps),
	)

	s.AddTool(
		mcp.NewTool("search_artworks",
			mcp.WithDescription("Search the catalog with exact filter semantics. All given criteria must hold; omitted criteria match everything."),
			mcp.WithString("style", mcp.Description("Style to match (case-insensitive substring)")),
			mcp.WithArray("colors", mcp.Description("Colors to match; an artwork matches if it carries any of them")),
			mcp.WithString("mood", mcp.Description("Mood to match (case-insensitive substring)")),
			mcp.WithNumber("max_price", mcp.Description("Inclusive upper price bound in rupees")),
			mcp.WithNumber("min_price", mcp.Description("Inclusive lower price bound in rupees")),
		),
		mcpSearchArtworks(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_artworks",
			mcp.WithDescription("Rank the catalog against the given preferences and return the top matches. Never empty: falls back to the highest-priced pieces when nothing matches."),
			mcp.WithString("style", mcp.Description("Preferred style")),
			mcp.WithArray("colors", mcp.Description("Preferred colors")),
			mcp.WithString("mood", mcp.Description("Preferred mood")),
			mcp.WithNumber("max_price", mcp.Description("Budget ceiling in rupees")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of recommendations (default 5)")),
		),
		mcpRecommendArtworks(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"catalog://filters",
			"Available Filters",
			mcp.WithResourceDescription("Filterable catalog vocabulary as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceFilters(deps),
	)

	return s
}

func mcpListFilters(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Store.AvailableFilters())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal filters: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchArtworks(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := filtersFromRequest(req)

		matches := recommend.Filter(deps.Store.List(), f)
		if len(matches) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(matches)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecommendArtworks(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		f := filtersFromRequest(req)

		limit := req.GetInt("limit", deps.Limit)
		if limit <= 0 {
			limit = deps.Limit
		}
		if limit > 50 {
			limit = 50
		}

		ranked := recommend.Recommend(deps.Store.List(), f, limit)

		b, err := json.Marshal(ranked)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func filtersFromRequest(req mcp.CallToolRequest) recommend.Filters {
	return recommend.Filters{
		Style:    req.GetString("style", ""),
		Colors:   req.GetStringSlice("colors", nil),
		Mood:     req.GetString("mood", ""),
		MaxPrice: req.GetInt("max_price", 0),
		MinPrice: req.GetInt("min_price", 0),
	}
}

func mcpResourceFilters(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Store.AvailableFilters())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filters: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
