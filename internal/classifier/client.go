package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

// ErrClassifierUnavailable wraps every failure to obtain scores from the
// model server.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Client calls the model serving sidecar. The trained model stays loaded in
// the sidecar, so one Client is created at startup and shared by all requests.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient(url string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("classifier URL is required")
	}

	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// Predict posts the raw image bytes and returns the category and attribute
// scores. Image decoding and resizing happen in the sidecar.
func (c *Client) Predict(ctx context.Context, image []byte, contentType string) (models.PredictionScores, error) {
	if len(image) == 0 {
		return models.PredictionScores{}, fmt.Errorf("empty image")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(image))
	if err != nil {
		return models.PredictionScores{}, fmt.Errorf("unable to create classifier request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.PredictionScores{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PredictionScores{}, fmt.Errorf("%w: unable to read response: %v", ErrClassifierUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return models.PredictionScores{}, fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, e.Error)
		}
		return models.PredictionScores{}, fmt.Errorf("%w: status %d", ErrClassifierUnavailable, resp.StatusCode)
	}

	var scores models.PredictionScores
	if err := json.Unmarshal(body, &scores); err != nil {
		return models.PredictionScores{}, fmt.Errorf("%w: unable to decode scores: %v", ErrClassifierUnavailable, err)
	}

	return scores, nil
}
