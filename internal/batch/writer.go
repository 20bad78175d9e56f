package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Summary struct {
	Total         int           `json:"total"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	EmptyResults  int           `json:"empty_results"`
	Products      int           `json:"products"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

type Writer struct {
	out     io.Writer
	format  string
	encoder *json.Encoder
	summary Summary
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSONL && format != FormatSummary {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return &Writer{
		out:     out,
		format:  format,
		encoder: json.NewEncoder(out),
		logger:  logger,
	}, nil
}

// Write records the result. jsonl writes it immediately, summary only
// counts it until Close.
func (w *Writer) Write(result Result) error {
	w.summary.Total++
	w.summary.TotalDuration += result.Duration

	switch {
	case result.Failed():
		w.summary.Failed++
	case len(result.Products) == 0:
		w.summary.Succeeded++
		w.summary.EmptyResults++
	default:
		w.summary.Succeeded++
		w.summary.Products += len(result.Products)
	}

	if w.format != FormatJSONL {
		return nil
	}

	if err := w.encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to write result %s: %w", result.ID, err)
	}
	return nil
}

func (w *Writer) Summary() Summary {
	return w.summary
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	data, err := json.MarshalIndent(w.summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if _, err := fmt.Fprintln(w.out, string(data)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	w.logger.Info().Int("total", w.summary.Total).Int("failed", w.summary.Failed).Msg("summary written")
	return nil
}
