package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/batch"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/evaluation"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file relative path, '-' for stdin")
	output := flag.String("output", "", "Output file relative path")
	format := flag.String("format", batch.FormatJSONL, "Output file format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent pipeline workers")
	keywordOnly := flag.Bool("keyword-only", false, "Compose keywords without calling the search API")
	evaluate := flag.Bool("evaluate", false, "Score labelled records and print an evaluation report")
	report := flag.String("report", "", "Optional file for the evaluation report")
	dryRun := flag.Bool("dry-run", false, "Validate input without searching")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	formatValidator(*format)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, deps.Logger)

	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	if *dryRun {
		dryRunAndExit(records)
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	options := batch.ProcessorOptions{
		Workers:     *workers,
		KeywordOnly: *keywordOnly,
	}

	var accumulator *evaluation.Accumulator
	if *evaluate {
		accumulator = evaluation.NewAccumulator(deps.Taxonomy, deps.Logger)
		options.Decoder = deps.Decoder
		options.Accumulator = accumulator
	}

	processor := batch.NewProcessor(deps.Executor, options, deps.Logger)

	writeErrors := 0
	for result := range processor.Process(ctx, records) {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Str("id", result.ID).Msg("Failed to write result")
			writeErrors++
		}
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close writer")
	}

	summary := writer.Summary()
	log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("empty_results", summary.EmptyResults).
		Int("write_errors", writeErrors).
		Dur("duration", time.Since(startTime)).
		Msg("Processing complete")

	if accumulator != nil {
		writeReport(accumulator, *report)
	}
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func formatValidator(format string) {
	validFormats := map[string]bool{batch.FormatJSONL: true, batch.FormatSummary: true}
	if !validFormats[format] {
		log.Fatal().
			Str("format", format).
			Msg("Invalid format. Supported: jsonl, summary")
	}
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

func writeReport(accumulator *evaluation.Accumulator, path string) {
	report, err := accumulator.Report()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute evaluation report")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal evaluation report")
	}

	// Report goes to stderr so it never mixes with jsonl results on stdout
	fmt.Fprintln(os.Stderr, string(data))

	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to write evaluation report")
		} else {
			log.Info().Str("file", path).Msg("Evaluation report written")
		}
	}

	log.Info().
		Int("records", report.Records).
		Float64("top1_accuracy", report.Top1Accuracy).
		Float64("top3_accuracy", report.Top3Accuracy).
		Float64("hamming_loss", report.HammingLoss).
		Msg("Evaluation complete")
}
