package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/rs/zerolog"
)

const productSearchQuery = `
    query amazonProduct($searchKeyWord: String!) {
        amazonProductSearchResults(
            input: {
                searchTerm: $searchKeyWord,
                domain: %s
            }) {
            productResults {
                results {
                    title
                    brand
                    url
                    isNew
                    price {
                        display
                    }
                    rating
                    mainImageUrl
                }
            }
        }
    }
`

var domainPattern = regexp.MustCompile(`^[A-Z_]+$`)

type ClientConfig struct {
	Endpoint            string
	APIKey              string
	Domain              string
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// GraphQLClient fetches product candidates from the product search GraphQL API.
type GraphQLClient struct {
	endpoint   string
	apiKey     string
	query      string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewGraphQLClient(cfg ClientConfig, logger *zerolog.Logger) (*GraphQLClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("search endpoint is required")
	}
	if !domainPattern.MatchString(cfg.Domain) {
		return nil, fmt.Errorf("invalid search domain %q", cfg.Domain)
	}

	return &GraphQLClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		query:    fmt.Sprintf(productSearchQuery, cfg.Domain),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			},
		},
		logger: logger,
	}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type productSearchResponse struct {
	Data *struct {
		AmazonProductSearchResults *struct {
			ProductResults *struct {
				Results []models.ProductCandidate `json:"results"`
			} `json:"productResults"`
		} `json:"amazonProductSearchResults"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func (r productSearchResponse) results() []models.ProductCandidate {
	if r.Data == nil || r.Data.AmazonProductSearchResults == nil || r.Data.AmazonProductSearchResults.ProductResults == nil {
		return nil
	}
	return r.Data.AmazonProductSearchResults.ProductResults.Results
}

// FetchCandidates sends the keyword to the search API and returns the
// products in the order the API sent them. Any failure is logged and
// reported as an empty list.
func (c *GraphQLClient) FetchCandidates(ctx context.Context, keyword string) []models.ProductCandidate {
	candidates, err := c.fetch(ctx, keyword)
	if err != nil {
		c.logger.Error().Err(err).Str("keyword", keyword).Msg("Product search failed, continuing without candidates")
		return []models.ProductCandidate{}
	}

	c.logger.Debug().Str("keyword", keyword).Int("candidates", len(candidates)).Msg("Product search complete")
	return candidates
}

func (c *GraphQLClient) fetch(ctx context.Context, keyword string) ([]models.ProductCandidate, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     c.query,
		Variables: map[string]any{"searchKeyWord": keyword},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}

	var decoded productSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	for _, e := range decoded.Errors {
		c.logger.Warn().Str("keyword", keyword).Str("error", e.Message).Msg("Search API reported an error")
	}

	results := decoded.results()
	if results == nil {
		return []models.ProductCandidate{}, nil
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
