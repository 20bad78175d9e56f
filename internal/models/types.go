package models

import (
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
)

// Placeholders rendered for absent product fields.
const (
	PlaceholderText  = "N/A"
	PlaceholderPrice = "Not Available"
	PlaceholderLink  = "#"
)

type Price struct {
	Display string `json:"display"`
}

// ProductCandidate is one product record returned by the search API.
// Every field but Title is optional.
type ProductCandidate struct {
	Title        string   `json:"title"`
	Brand        *string  `json:"brand"`
	URL          *string  `json:"url"`
	IsNew        *bool    `json:"isNew"`
	Price        *Price   `json:"price"`
	Rating       *float64 `json:"rating"`
	MainImageURL *string  `json:"mainImageUrl"`
}

func (p ProductCandidate) DisplayTitle() string {
	if p.Title == "" {
		return PlaceholderText
	}
	return p.Title
}

func (p ProductCandidate) DisplayBrand() string {
	return orPlaceholder(p.Brand, PlaceholderText)
}

func (p ProductCandidate) DisplayPrice() string {
	if p.Price == nil {
		return PlaceholderPrice
	}
	return p.Price.Display
}

func (p ProductCandidate) DisplayRating() string {
	if p.Rating == nil {
		return PlaceholderText
	}
	return strconv.FormatFloat(*p.Rating, 'f', -1, 64)
}

func (p ProductCandidate) Link() string {
	return orPlaceholder(p.URL, PlaceholderLink)
}

func (p ProductCandidate) ImageURL() string {
	return orPlaceholder(p.MainImageURL, PlaceholderLink)
}

func orPlaceholder(v *string, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return *v
}

// PredictionScores is the raw classifier output for one image.
type PredictionScores struct {
	CategoryScores  []float64 `json:"category_scores" jsonschema:"category probabilities, one per category (50)"`
	AttributeScores []float64 `json:"attribute_scores" jsonschema:"attribute probabilities in [0,1], one per attribute (26)"`
}

// Prediction is the decoded classifier output.
type Prediction struct {
	CategoryIndex  int    `json:"category_index"`
	AttributeFlags []bool `json:"attribute_flags"`
}

// Input message

type SearchRequest struct {
	RequestID  string           `json:"request_id,omitempty"`
	Scores     PredictionScores `json:"scores"`
	MaxResults *int             `json:"max_results,omitempty" description:"Overrides the configured result limit"`
}

// KeywordResult is a decoded prediction plus the composed search phrase.
type KeywordResult struct {
	Category   taxonomy.CategoryEntry `json:"category"`
	Attributes []string               `json:"attributes"`
	Keyword    string                 `json:"keyword"`
}

// Final output of one pipeline invocation
type SearchResult struct {
	RequestID      string             `json:"request_id"`
	Category       string             `json:"category"`
	Group          taxonomy.Group     `json:"group"`
	Attributes     []string           `json:"attributes"`
	Keyword        string             `json:"keyword"`
	CandidateCount int                `json:"candidate_count"`
	Products       []ProductCandidate `json:"products"`
	Duration       time.Duration      `json:"duration_ns"`
}

// PredictionEvent is the payload of one message on the predictions stream.
type PredictionEvent struct {
	EventID         string    `json:"event_id"`
	CategoryScores  []float64 `json:"category_scores"`
	AttributeScores []float64 `json:"attribute_scores"`
	MaxResults      *int      `json:"max_results,omitempty"`
}

func (e PredictionEvent) SearchRequest() SearchRequest {
	return SearchRequest{
		RequestID: e.EventID,
		Scores: PredictionScores{
			CategoryScores:  e.CategoryScores,
			AttributeScores: e.AttributeScores,
		},
		MaxResults: e.MaxResults,
	}
}

// FailedEvent is published instead of a SearchResult when an event cannot
// be processed.
type FailedEvent struct {
	EventID   string `json:"event_id"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error"`
}
