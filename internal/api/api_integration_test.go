package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/api"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/classifier"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/decoder"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/pipeline"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/retriever"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

const searchAPIResponse = `{"data":{"amazonProductSearchResults":{"productResults":{"results":[
  {"title":"Red Sneakers","brand":"Kicks"},
  {"title":"Dress maxi length","brand":"Acme","price":{"display":"$49.00"},"url":"https://example.com/dress"}
]}}}}`

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func dressScores() models.PredictionScores {
	categories := make([]float64, taxonomy.CategoryCount)
	categories[40] = 0.9
	attributes := make([]float64, taxonomy.AttributeCount)
	attributes[10] = 0.8
	attributes[8] = 0.7
	return models.PredictionScores{CategoryScores: categories, AttributeScores: attributes}
}

type testEnv struct {
	container    *restful.Container
	searchCalls  int
	searchStatus int
}

func setupTestAPI(t *testing.T, classifierHandler http.HandlerFunc) *testEnv {
	t.Helper()

	env := &testEnv{searchStatus: http.StatusOK}

	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.searchCalls++
		if env.searchStatus != http.StatusOK {
			w.WriteHeader(env.searchStatus)
			return
		}
		w.Write([]byte(searchAPIResponse))
	}))
	t.Cleanup(searchServer.Close)

	logger := newTestLogger()
	tax := taxonomy.Default()

	searchClient, err := retriever.NewGraphQLClient(retriever.ClientConfig{
		Endpoint: searchServer.URL,
		APIKey:   "test",
		Domain:   "CA",
		Timeout:  2 * time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("NewGraphQLClient failed: %v", err)
	}

	var imageClassifier pipeline.Classifier
	if classifierHandler != nil {
		sidecar := httptest.NewServer(classifierHandler)
		t.Cleanup(sidecar.Close)

		client, err := classifier.NewClient(sidecar.URL, 2*time.Second)
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		imageClassifier = client
	}

	executor := pipeline.NewExecutor(
		tax,
		decoder.NewDecoder(tax, 0.5),
		searchClient,
		imageClassifier,
		pipeline.Options{MaxResults: 10, SimilarityThreshold: 0.4},
		logger,
	)

	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, api.NewHandler(executor, tax, logger))
	api.RegisterOpenAPI(container)

	env.container = container
	return env
}

func postJSON(t *testing.T, container *restful.Container, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Health(t *testing.T) {
	env := setupTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	env.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_Taxonomy(t *testing.T) {
	env := setupTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/taxonomy", nil)
	recorder := httptest.NewRecorder()
	env.container.ServeHTTP(recorder, req)

	var response api.TaxonomyResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Categories) != 50 || len(response.Attributes) != 26 {
		t.Errorf("unexpected table sizes %d/%d", len(response.Categories), len(response.Attributes))
	}
	if response.Categories[40].Name != "Dress" || response.Categories[40].Group != taxonomy.GroupFullBody {
		t.Errorf("unexpected category 41: %+v", response.Categories[40])
	}
}

func TestAPI_Keyword(t *testing.T) {
	env := setupTestAPI(t, nil)

	recorder := postJSON(t, env.container, "/api/v1/keyword", dressScores())
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.KeywordResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Keyword != "Dress maxi length" {
		t.Errorf("Expected 'Dress maxi length', got %q", result.Keyword)
	}
	if env.searchCalls != 0 {
		t.Error("keyword endpoint must not call the search API")
	}
}

func TestAPI_Search(t *testing.T) {
	env := setupTestAPI(t, nil)

	recorder := postJSON(t, env.container, "/api/v1/search", models.SearchRequest{RequestID: "req-1", Scores: dressScores()})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.RequestID != "req-1" || result.Keyword != "Dress maxi length" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Products) != 2 || result.Products[0].Title != "Dress maxi length" {
		t.Errorf("expected best match first, got %+v", result.Products)
	}
}

func TestAPI_Search_HTML(t *testing.T) {
	env := setupTestAPI(t, nil)

	recorder := postJSON(t, env.container, "/api/v1/search?format=html", models.SearchRequest{Scores: dressScores()})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if !strings.HasPrefix(recorder.Header().Get("Content-Type"), "text/html") {
		t.Errorf("expected text/html, got %q", recorder.Header().Get("Content-Type"))
	}
	if !strings.Contains(recorder.Body.String(), "$49.00") {
		t.Errorf("expected price in HTML output")
	}
}

func TestAPI_Search_SearchAPIDown(t *testing.T) {
	env := setupTestAPI(t, nil)
	env.searchStatus = http.StatusInternalServerError

	recorder := postJSON(t, env.container, "/api/v1/search", models.SearchRequest{Scores: dressScores()})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on search failure, got %d", recorder.Code)
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(result.Products) != 0 || result.CandidateCount != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestAPI_Search_Errors(t *testing.T) {
	badScores := dressScores()
	badScores.CategoryScores = badScores.CategoryScores[:10]
	negative := -1

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"malformed body", "not an object", http.StatusBadRequest},
		{"wrong score length", models.SearchRequest{Scores: badScores}, http.StatusUnprocessableEntity},
		{"negative max results", models.SearchRequest{Scores: dressScores(), MaxResults: &negative}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestAPI(t, nil)
			recorder := postJSON(t, env.container, "/api/v1/search", tt.body)

			if recorder.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, recorder.Code)
			}

			var errResp middleware.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("Failed to parse error: %v", err)
			}
			if errResp.Code != tt.wantStatus || errResp.Error == "" {
				t.Errorf("unexpected error body: %+v", errResp)
			}
		})
	}
}

func imageUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAPI_SearchImage(t *testing.T) {
	env := setupTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dressScores())
	})

	recorder := httptest.NewRecorder()
	env.container.ServeHTTP(recorder, imageUpload(t, "dress.jpg", []byte("\xff\xd8\xff\xe0fake")))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Keyword != "Dress maxi length" {
		t.Errorf("unexpected keyword %q", result.Keyword)
	}
}

func TestAPI_SearchImage_Errors(t *testing.T) {
	sidecarDown := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	tests := []struct {
		name       string
		classifier http.HandlerFunc
		filename   string
		content    []byte
		wantStatus int
	}{
		{"unsupported extension", sidecarDown, "notes.txt", []byte("hello"), http.StatusBadRequest},
		{"empty file", sidecarDown, "dress.png", nil, http.StatusBadRequest},
		{"classifier failure", sidecarDown, "dress.png", []byte("png"), http.StatusBadGateway},
		{"no classifier", nil, "dress.png", []byte("png"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestAPI(t, tt.classifier)

			recorder := httptest.NewRecorder()
			env.container.ServeHTTP(recorder, imageUpload(t, tt.filename, tt.content))

			if recorder.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestAPI_SearchImage_TooLarge(t *testing.T) {
	oversized := bytes.Repeat([]byte{0xff}, 10<<20+1)

	tests := []struct {
		name          string
		contentLength bool
	}{
		{"declared length", true},
		{"unknown length", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			env := setupTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				json.NewEncoder(w).Encode(dressScores())
			})

			req := imageUpload(t, "dress.png", oversized)
			if !tt.contentLength {
				req.ContentLength = -1
			}

			recorder := httptest.NewRecorder()
			env.container.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("Expected status 413, got %d: %s", recorder.Code, recorder.Body.String())
			}
			var errResp middleware.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("Failed to parse error body: %v", err)
			}
			if errResp.Code != http.StatusRequestEntityTooLarge {
				t.Errorf("unexpected error body: %+v", errResp)
			}
			if calls != 0 {
				t.Errorf("Expected classifier not to be called, got %d calls", calls)
			}
		})
	}
}

func TestAPI_OpenAPIDocument(t *testing.T) {
	env := setupTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil)
	recorder := httptest.NewRecorder()
	env.container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, want := range []string{"Fashion Finder API", "/api/v1/search", "/api/v1/keyword"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in OpenAPI document", want)
		}
	}
}
