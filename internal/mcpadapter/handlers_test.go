package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/decoder"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/pipeline"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

type stubRetriever struct {
	candidates []models.ProductCandidate
}

func (s stubRetriever) FetchCandidates(context.Context, string) []models.ProductCandidate {
	return s.candidates
}

func newSearcher() *pipeline.Executor {
	logger := zerolog.Nop()
	tax := taxonomy.Default()
	return pipeline.NewExecutor(
		tax,
		decoder.NewDecoder(tax, 0.5),
		stubRetriever{candidates: []models.ProductCandidate{{Title: "Dress maxi length"}, {Title: "Boots"}}},
		nil,
		pipeline.Options{MaxResults: 10, SimilarityThreshold: 0.4},
		&logger,
	)
}

func dressScores() ([]float64, []float64) {
	categories := make([]float64, taxonomy.CategoryCount)
	categories[40] = 0.9
	attributes := make([]float64, taxonomy.AttributeCount)
	attributes[10] = 0.8
	attributes[8] = 0.7
	return categories, attributes
}

func TestFindProducts(t *testing.T) {
	categories, attributes := dressScores()
	maxResults := 1

	_, out, err := FindProducts(context.Background(), newSearcher(), nil, FindProductsInput{
		RequestID:       "mcp-1",
		CategoryScores:  categories,
		AttributeScores: attributes,
		MaxResults:      &maxResults,
	})
	if err != nil {
		t.Fatalf("FindProducts failed: %v", err)
	}

	if out.RequestID != "mcp-1" || out.Group != "FULL_BODY" || out.Keyword != "Dress maxi length" {
		t.Errorf("unexpected output: %+v", out)
	}
	if len(out.Products) != 1 || out.Products[0].Title != "Dress maxi length" {
		t.Errorf("unexpected products: %+v", out.Products)
	}
	if out.CandidateCount != 2 {
		t.Errorf("expected 2 candidates, got %d", out.CandidateCount)
	}
}

func TestFindProducts_InvalidScores(t *testing.T) {
	_, _, err := FindProducts(context.Background(), newSearcher(), nil, FindProductsInput{
		CategoryScores:  []float64{1},
		AttributeScores: []float64{1},
	})
	if !errors.Is(err, decoder.ErrInvalidModelOutput) {
		t.Errorf("expected ErrInvalidModelOutput, got %v", err)
	}
}

func TestComposeKeyword(t *testing.T) {
	categories, attributes := dressScores()

	_, out, err := ComposeKeyword(context.Background(), newSearcher(), nil, ComposeKeywordInput{
		CategoryScores:  categories,
		AttributeScores: attributes,
	})
	if err != nil {
		t.Fatalf("ComposeKeyword failed: %v", err)
	}
	if out.Category != "Dress" || out.Keyword != "Dress maxi length" {
		t.Errorf("unexpected output: %+v", out)
	}
	if len(out.Attributes) != 1 || out.Attributes[0] != "maxi length" {
		t.Errorf("unexpected attributes: %v", out.Attributes)
	}
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()

	server := NewServer(newSearcher(), "test")
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	if !names["find_products"] || !names["compose_keyword"] {
		t.Errorf("expected both tools, got %v", names)
	}

	categories, attributes := dressScores()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "compose_keyword",
		Arguments: map[string]any{
			"category_scores":  categories,
			"attribute_scores": attributes,
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}
}
