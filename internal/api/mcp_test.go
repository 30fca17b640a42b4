package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rvachev/artel/internal/catalog"
)

func newTestMCPDeps(t *testing.T) MCPDeps {
	t.Helper()
	return MCPDeps{Store: newTestStore(t), Limit: 5}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_ListFilters(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpListFilters(deps)

	result, err := handler(context.Background(), makeCallToolRequest("list_filters", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var got catalog.AvailableFilters
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Styles) != 2 || len(got.Colors) != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestMCPTool_SearchArtworks(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpSearchArtworks(deps)

	req := makeCallToolRequest("search_artworks", map[string]interface{}{
		"style":     "land",
		"max_price": 250000,
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []catalog.Artwork
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("got %+v, want just a1", got)
	}
}

func TestMCPTool_SearchArtworks_NoMatchesIsEmptyArray(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpSearchArtworks(deps)

	req := makeCallToolRequest("search_artworks", map[string]interface{}{
		"style": "cubism",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := toolText(t, result); text != "[]" {
		t.Errorf("text = %q, want []", text)
	}
}

func TestMCPTool_RecommendArtworks_NeverEmpty(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpRecommendArtworks(deps)

	// Nothing in the catalog matches; the tool still returns a shortlist.
	req := makeCallToolRequest("recommend_artworks", map[string]interface{}{
		"style":     "cubism",
		"max_price": 1000,
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []catalog.Artwork
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("recommendations must never be empty")
	}
	if got[0].ID != "a2" {
		t.Errorf("fallback should lead with the priciest piece, got %s", got[0].ID)
	}
}

func TestMCPResource_Filters(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpResourceFilters(deps)

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "catalog://filters"},
	}
	contents, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d", len(contents))
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	var got catalog.AvailableFilters
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatal(err)
	}
	if got.PriceRange.MaxLakhs != 3.0 {
		t.Errorf("PriceRange = %+v", got.PriceRange)
	}
}
