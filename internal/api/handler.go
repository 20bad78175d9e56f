package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/classifier"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/decoder"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/export"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/pipeline"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

const maxUploadSize = 10 << 20

var errUploadTooLarge = errors.New("image upload exceeds the 10MB limit")

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Searcher is the pipeline surface exposed over HTTP
type Searcher interface {
	Execute(ctx context.Context, req models.SearchRequest) (models.SearchResult, error)
	ExecuteImage(ctx context.Context, image []byte, contentType string, requestID string) (models.SearchResult, error)
	ComposeKeyword(ctx context.Context, scores models.PredictionScores) (models.KeywordResult, error)
}

type Handler struct {
	searcher Searcher
	taxonomy *taxonomy.Taxonomy
	logger   *zerolog.Logger
}

func NewHandler(searcher Searcher, tax *taxonomy.Taxonomy, logger *zerolog.Logger) *Handler {
	return &Handler{
		searcher: searcher,
		taxonomy: tax,
		logger:   logger,
	}
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

// GET /api/v1/taxonomy
func (h *Handler) Taxonomy(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, TaxonomyResponse{
		Categories: h.taxonomy.Categories(),
		Attributes: h.taxonomy.Attributes(),
	})
}

// POST /api/v1/keyword
// Body: PredictionScores
// Returns: KeywordResult
func (h *Handler) Keyword(req *restful.Request, resp *restful.Response) {
	var scores models.PredictionScores
	if err := req.ReadEntity(&scores); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	result, err := h.searcher.ComposeKeyword(req.Request.Context(), scores)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Keyword composition failed")
		middleware.HandleError(resp, err, statusFor(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/search
// Body: SearchRequest
// Returns: SearchResult, or an HTML table with ?format=html
func (h *Handler) Search(req *restful.Request, resp *restful.Response) {
	var searchRequest models.SearchRequest
	if err := req.ReadEntity(&searchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().Str("request_id", searchRequest.RequestID).Msg("Start search")

	result, err := h.searcher.Execute(req.Request.Context(), searchRequest)
	if err != nil {
		h.logger.Warn().Err(err).Str("request_id", searchRequest.RequestID).Msg("Search failed")
		middleware.HandleError(resp, err, statusFor(err))
		return
	}

	h.writeResult(req, resp, result)
}

// POST /api/v1/search/image
// Body: multipart form with an "image" file
func (h *Handler) SearchImage(req *restful.Request, resp *restful.Response) {
	if req.Request.ContentLength > maxUploadSize {
		middleware.HandleError(resp, errUploadTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	req.Request.Body = http.MaxBytesReader(resp.ResponseWriter, req.Request.Body, maxUploadSize)

	file, header, err := req.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleError(resp, errUploadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error().Err(err).Msg("Missing image upload")
		middleware.HandleError(resp, fmt.Errorf("missing image file: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		middleware.HandleError(resp, fmt.Errorf("unsupported image type %q", ext), http.StatusBadRequest)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(resp, fmt.Errorf("failed to read image: %w", err), http.StatusBadRequest)
		return
	}
	if len(image) == 0 {
		middleware.HandleError(resp, errors.New("empty image file"), http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(image)
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Int("bytes", len(image)).
		Str("content_type", contentType).
		Msg("Start image search")

	result, err := h.searcher.ExecuteImage(req.Request.Context(), image, contentType, req.QueryParameter("request_id"))
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Image search failed")
		middleware.HandleError(resp, err, statusFor(err))
		return
	}

	h.writeResult(req, resp, result)
}

func (h *Handler) writeResult(req *restful.Request, resp *restful.Response, result models.SearchResult) {
	h.logger.Info().
		Str("request_id", result.RequestID).
		Str("keyword", result.Keyword).
		Int("products", len(result.Products)).
		Msg("Search complete")

	if req.QueryParameter("format") != "html" {
		resp.WriteHeaderAndEntity(http.StatusOK, result)
		return
	}

	page, err := export.HTML(result.Keyword, result.Products)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render results")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/html; charset=utf-8")
	resp.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(resp, page); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, decoder.ErrInvalidModelOutput), errors.Is(err, taxonomy.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, classifier.ErrClassifierUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrClassifierNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
