package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/export"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/pipeline"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	image := flag.String("image", "", "Clothing image to classify and search for")
	scores := flag.String("scores", "", "JSON file with category_scores and attribute_scores, instead of -image")
	htmlPath := flag.String("html", "amazon_results.html", "HTML results file")
	jsonPath := flag.String("json", "amazon_results.json", "JSON results file")
	maxResults := flag.Int("max", -1, "Maximum number of products for -scores, overrides the configured limit")
	flag.Parse()

	if (*image == "") == (*scores == "") {
		fmt.Fprintln(os.Stderr, "Usage: search -image <path> | -scores <file.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	result, err := search(ctx, deps.Executor, *image, *scores, *maxResults)
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}

	if err := export.WriteFiles(*htmlPath, *jsonPath, result.Keyword, result.Products); err != nil {
		log.Fatal().Err(err).Msg("Failed to write results")
	}

	log.Info().
		Str("category", result.Category).
		Strs("attributes", result.Attributes).
		Str("keyword", result.Keyword).
		Int("products", len(result.Products)).
		Str("html", *htmlPath).
		Str("json", *jsonPath).
		Msg("Results written")
}

func search(ctx context.Context, exec *pipeline.Executor, imagePath, scoresPath string, maxResults int) (models.SearchResult, error) {
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return models.SearchResult{}, fmt.Errorf("failed to read image: %w", err)
		}
		return exec.ExecuteImage(ctx, data, http.DetectContentType(data), "")
	}

	data, err := os.ReadFile(scoresPath)
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("failed to read scores: %w", err)
	}

	var predictionScores models.PredictionScores
	if err := json.Unmarshal(data, &predictionScores); err != nil {
		return models.SearchResult{}, fmt.Errorf("invalid scores file: %w", err)
	}

	req := models.SearchRequest{Scores: predictionScores}
	if maxResults >= 0 {
		req.MaxResults = &maxResults
	}
	return exec.Execute(ctx, req)
}
