package batch

import (
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

// Record is one line of the batch input file. The expected_* fields are
// optional ground truth labels used by evaluation mode.
type Record struct {
	ID                 string    `json:"id"`
	CategoryScores     []float64 `json:"category_scores"`
	AttributeScores    []float64 `json:"attribute_scores"`
	MaxResults         *int      `json:"max_results,omitempty"`
	ExpectedCategory   *int      `json:"expected_category,omitempty"`
	ExpectedAttributes []int     `json:"expected_attributes,omitempty"`
}

func (r Record) Scores() models.PredictionScores {
	return models.PredictionScores{
		CategoryScores:  r.CategoryScores,
		AttributeScores: r.AttributeScores,
	}
}

func (r Record) Labelled() bool {
	return r.ExpectedCategory != nil || r.ExpectedAttributes != nil
}

type InputRecord struct {
	LineNumber int
	Record     Record
	Error      error
}

type Result struct {
	ID             string                    `json:"id"`
	LineNumber     int                       `json:"line"`
	Category       string                    `json:"category,omitempty"`
	Attributes     []string                  `json:"attributes,omitempty"`
	Keyword        string                    `json:"keyword,omitempty"`
	CandidateCount int                       `json:"candidate_count"`
	Products       []models.ProductCandidate `json:"products,omitempty"`
	Error          string                    `json:"error,omitempty"`
	Duration       time.Duration             `json:"duration_ns"`
}

func (r Result) Failed() bool {
	return r.Error != ""
}
