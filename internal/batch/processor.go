package batch

import (
	"context"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/evaluation"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/rs/zerolog"
)

// Searcher is the part of the pipeline the batch runner drives
type Searcher interface {
	Execute(ctx context.Context, req models.SearchRequest) (models.SearchResult, error)
	ComposeKeyword(ctx context.Context, scores models.PredictionScores) (models.KeywordResult, error)
}

// Decoder gives evaluation mode access to the raw attribute flags
type Decoder interface {
	Decode(scores models.PredictionScores) (models.Prediction, error)
}

type ProcessorOptions struct {
	Workers     int
	KeywordOnly bool
	Decoder     Decoder
	Accumulator *evaluation.Accumulator
}

type Processor struct {
	searcher Searcher
	options  ProcessorOptions
	logger   *zerolog.Logger
}

func NewProcessor(searcher Searcher, options ProcessorOptions, logger *zerolog.Logger) *Processor {
	if options.Workers < 1 {
		options.Workers = 1
	}
	return &Processor{
		searcher: searcher,
		options:  options,
		logger:   logger,
	}
}

// Process runs the records through a fixed pool of workers. Results arrive
// in completion order.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result, p.options.Workers)

	var wg sync.WaitGroup
	for i := 0; i < p.options.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				results <- p.processOne(ctx, record)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			if ctx.Err() != nil {
				p.logger.Warn().Msg("processing cancelled, skipping remaining records")
				return
			}
			select {
			case jobs <- record:
			case <-ctx.Done():
				p.logger.Warn().Msg("processing cancelled, skipping remaining records")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, input InputRecord) Result {
	start := time.Now()
	result := Result{
		ID:         input.Record.ID,
		LineNumber: input.LineNumber,
	}

	if input.Error != nil {
		result.Error = input.Error.Error()
		return result
	}

	record := input.Record
	p.evaluate(record)

	if p.options.KeywordOnly {
		kw, err := p.searcher.ComposeKeyword(ctx, record.Scores())
		if err != nil {
			p.logger.Error().Err(err).Str("id", record.ID).Msg("keyword composition failed")
			result.Error = err.Error()
			return result
		}
		result.Category = kw.Category.Name
		result.Attributes = kw.Attributes
		result.Keyword = kw.Keyword
		result.Duration = time.Since(start)
		return result
	}

	searchResult, err := p.searcher.Execute(ctx, models.SearchRequest{
		RequestID:  record.ID,
		Scores:     record.Scores(),
		MaxResults: record.MaxResults,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("id", record.ID).Msg("search failed")
		result.Error = err.Error()
		return result
	}

	result.Category = searchResult.Category
	result.Attributes = searchResult.Attributes
	result.Keyword = searchResult.Keyword
	result.CandidateCount = searchResult.CandidateCount
	result.Products = searchResult.Products
	result.Duration = time.Since(start)
	return result
}

func (p *Processor) evaluate(record Record) {
	if p.options.Accumulator == nil || p.options.Decoder == nil || !record.Labelled() {
		return
	}

	sample := evaluation.Sample{CategoryScores: record.CategoryScores}
	if record.ExpectedCategory != nil {
		sample.ExpectedCategory = *record.ExpectedCategory
	}

	if record.ExpectedAttributes != nil {
		prediction, err := p.options.Decoder.Decode(record.Scores())
		if err != nil {
			p.logger.Warn().Err(err).Str("id", record.ID).Msg("skipping attribute evaluation")
		} else {
			sample.ExpectedAttributes = make([]bool, len(record.ExpectedAttributes))
			for i, v := range record.ExpectedAttributes {
				sample.ExpectedAttributes[i] = v == 1
			}
			sample.PredictedAttributes = prediction.AttributeFlags
		}
	}

	p.options.Accumulator.Add(sample)
}
