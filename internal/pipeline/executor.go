package pipeline

//go:generate mockgen -source=executor.go -destination=mocks/executor_mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/keyword"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/ranker"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidRequest          = errors.New("invalid request")
	ErrClassifierNotConfigured = errors.New("classifier not configured")
)

// LabelDecoder turns classifier scores into taxonomy labels
type LabelDecoder interface {
	Decode(scores models.PredictionScores) (models.Prediction, error)
	Labels(prediction models.Prediction) (taxonomy.CategoryEntry, []string, error)
}

// Retriever fetches product candidates for a keyword. Failures are reported
// as an empty list.
type Retriever interface {
	FetchCandidates(ctx context.Context, keyword string) []models.ProductCandidate
}

// Classifier scores an uploaded image
type Classifier interface {
	Predict(ctx context.Context, image []byte, contentType string) (models.PredictionScores, error)
}

type Options struct {
	MaxResults          int
	SimilarityThreshold float64
}

type Executor struct {
	taxonomy   *taxonomy.Taxonomy
	decoder    LabelDecoder
	retriever  Retriever
	classifier Classifier
	options    Options
	logger     *zerolog.Logger
}

// NewExecutor wires the pipeline stages. classifier may be nil when only
// score based requests are served.
func NewExecutor(
	tax *taxonomy.Taxonomy,
	decoder LabelDecoder,
	retriever Retriever,
	classifier Classifier,
	options Options,
	logger *zerolog.Logger,
) *Executor {
	return &Executor{
		taxonomy:   tax,
		decoder:    decoder,
		retriever:  retriever,
		classifier: classifier,
		options:    options,
		logger:     logger,
	}
}

// ComposeKeyword decodes the scores and builds the search phrase without
// calling the search API.
func (e *Executor) ComposeKeyword(_ context.Context, scores models.PredictionScores) (models.KeywordResult, error) {
	prediction, err := e.decoder.Decode(scores)
	if err != nil {
		return models.KeywordResult{}, fmt.Errorf("decode failed: %w", err)
	}

	category, attributes, err := e.decoder.Labels(prediction)
	if err != nil {
		return models.KeywordResult{}, fmt.Errorf("label lookup failed: %w", err)
	}

	phrase, err := keyword.Compose(e.taxonomy, category.Index, attributes)
	if err != nil {
		return models.KeywordResult{}, fmt.Errorf("keyword composition failed: %w", err)
	}

	return models.KeywordResult{
		Category:   category,
		Attributes: attributes,
		Keyword:    phrase,
	}, nil
}

// Execute runs decode, compose, retrieve and rank for one prediction. A
// failed product search yields a result with no products, not an error.
func (e *Executor) Execute(ctx context.Context, req models.SearchRequest) (models.SearchResult, error) {
	start := time.Now()

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	maxResults := e.options.MaxResults
	if req.MaxResults != nil {
		if *req.MaxResults < 0 {
			return models.SearchResult{}, fmt.Errorf("%w: max_results must not be negative", ErrInvalidRequest)
		}
		maxResults = *req.MaxResults
	}

	e.logger.Info().Str("requestID", id).Msg("starting search")

	kw, err := e.ComposeKeyword(ctx, req.Scores)
	if err != nil {
		e.logger.Warn().Err(err).Str("requestID", id).Msg("prediction rejected")
		return models.SearchResult{}, err
	}

	candidates := e.retriever.FetchCandidates(ctx, kw.Keyword)
	products := ranker.Rank(candidates, kw.Keyword, maxResults, e.options.SimilarityThreshold)

	result := models.SearchResult{
		RequestID:      id,
		Category:       kw.Category.Name,
		Group:          kw.Category.Group,
		Attributes:     kw.Attributes,
		Keyword:        kw.Keyword,
		CandidateCount: len(candidates),
		Products:       products,
		Duration:       time.Since(start),
	}

	e.logger.
		Info().
		Str("requestID", id).
		Str("keyword", kw.Keyword).
		Int("candidates", len(candidates)).
		Int("products", len(products)).
		Dur("duration", result.Duration).
		Msg("search complete")

	return result, nil
}

// ExecuteImage classifies the image and runs the search on its scores.
func (e *Executor) ExecuteImage(ctx context.Context, image []byte, contentType string, requestID string) (models.SearchResult, error) {
	if e.classifier == nil {
		return models.SearchResult{}, ErrClassifierNotConfigured
	}

	scores, err := e.classifier.Predict(ctx, image, contentType)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("classification failed: %w", err)
	}

	return e.Execute(ctx, models.SearchRequest{
		RequestID: requestID,
		Scores:    scores,
	})
}
