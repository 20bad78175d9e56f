package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

// Searcher is the pipeline surface exposed as MCP tools
type Searcher interface {
	Execute(ctx context.Context, req models.SearchRequest) (models.SearchResult, error)
	ComposeKeyword(ctx context.Context, scores models.PredictionScores) (models.KeywordResult, error)
}

// FindProductsInput is the MCP tool input schema (matches HTTP API field names).
type FindProductsInput struct {
	RequestID       string    `json:"request_id,omitempty" jsonschema:"optional request identifier"`
	CategoryScores  []float64 `json:"category_scores" jsonschema:"category probabilities, one per category (50)"`
	AttributeScores []float64 `json:"attribute_scores" jsonschema:"attribute probabilities in [0,1], one per attribute (26)"`
	MaxResults      *int      `json:"max_results,omitempty" jsonschema:"maximum number of products to return"`
}

type ComposeKeywordInput struct {
	CategoryScores  []float64 `json:"category_scores" jsonschema:"category probabilities, one per category (50)"`
	AttributeScores []float64 `json:"attribute_scores" jsonschema:"attribute probabilities in [0,1], one per attribute (26)"`
}

// Labels are flattened to strings so the inferred output schema matches
// the JSON encoding.
type FindProductsOutput struct {
	RequestID      string                    `json:"request_id"`
	Category       string                    `json:"category"`
	Group          string                    `json:"group"`
	Attributes     []string                  `json:"attributes"`
	Keyword        string                    `json:"keyword"`
	CandidateCount int                       `json:"candidate_count"`
	Products       []models.ProductCandidate `json:"products"`
}

type ComposeKeywordOutput struct {
	Category   string   `json:"category"`
	Group      string   `json:"group"`
	Attributes []string `json:"attributes"`
	Keyword    string   `json:"keyword"`
}

// NewFindProductsHandler returns a tool handler that uses the given searcher.
// Pass the returned function to mcp.AddTool.
func NewFindProductsHandler(searcher Searcher) func(context.Context, *mcp.CallToolRequest, FindProductsInput) (*mcp.CallToolResult, FindProductsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FindProductsInput) (*mcp.CallToolResult, FindProductsOutput, error) {
		return FindProducts(ctx, searcher, req, input)
	}
}

// FindProducts runs the full search pipeline and returns the ranked products.
func FindProducts(
	ctx context.Context,
	searcher Searcher,
	req *mcp.CallToolRequest,
	input FindProductsInput,
) (*mcp.CallToolResult, FindProductsOutput, error) {
	result, err := searcher.Execute(ctx, models.SearchRequest{
		RequestID: input.RequestID,
		Scores: models.PredictionScores{
			CategoryScores:  input.CategoryScores,
			AttributeScores: input.AttributeScores,
		},
		MaxResults: input.MaxResults,
	})
	if err != nil {
		return nil, FindProductsOutput{}, err
	}

	return nil, FindProductsOutput{
		RequestID:      result.RequestID,
		Category:       result.Category,
		Group:          result.Group.String(),
		Attributes:     result.Attributes,
		Keyword:        result.Keyword,
		CandidateCount: result.CandidateCount,
		Products:       result.Products,
	}, nil
}

// NewComposeKeywordHandler returns a tool handler for keyword composition.
// Pass the returned function to mcp.AddTool.
func NewComposeKeywordHandler(searcher Searcher) func(context.Context, *mcp.CallToolRequest, ComposeKeywordInput) (*mcp.CallToolResult, ComposeKeywordOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ComposeKeywordInput) (*mcp.CallToolResult, ComposeKeywordOutput, error) {
		return ComposeKeyword(ctx, searcher, req, input)
	}
}

// ComposeKeyword decodes the scores and returns the search phrase without
// calling the search API.
func ComposeKeyword(
	ctx context.Context,
	searcher Searcher,
	req *mcp.CallToolRequest,
	input ComposeKeywordInput,
) (*mcp.CallToolResult, ComposeKeywordOutput, error) {
	result, err := searcher.ComposeKeyword(ctx, models.PredictionScores{
		CategoryScores:  input.CategoryScores,
		AttributeScores: input.AttributeScores,
	})
	if err != nil {
		return nil, ComposeKeywordOutput{}, err
	}

	return nil, ComposeKeywordOutput{
		Category:   result.Category.Name,
		Group:      result.Category.Group.String(),
		Attributes: result.Attributes,
		Keyword:    result.Keyword,
	}, nil
}

// NewServer registers the find_products and compose_keyword tools.
func NewServer(searcher Searcher, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fashion-finder",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_products",
		Description: "Find products matching clothing classifier scores, ranked by title similarity to the composed keyword",
	}, NewFindProductsHandler(searcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compose_keyword",
		Description: "Decode clothing classifier scores into a category, attributes and a search keyword. Does not call the search API.",
	}, NewComposeKeywordHandler(searcher))

	return server
}
