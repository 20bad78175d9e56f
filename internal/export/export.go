package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

//go:embed templates/*
var templatesFS embed.FS

var resultsTmpl = template.Must(template.ParseFS(templatesFS, "templates/results.html"))

type resultsView struct {
	Keyword  string
	Products []models.ProductCandidate
}

// HTML renders the ranked products as a table. Missing fields are shown
// with placeholders.
func HTML(keyword string, products []models.ProductCandidate) (string, error) {
	var buf bytes.Buffer
	if err := resultsTmpl.Execute(&buf, resultsView{Keyword: keyword, Products: products}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// JSON renders the products with a four space indent. A nil list renders
// as [].
func JSON(products []models.ProductCandidate) ([]byte, error) {
	if products == nil {
		products = []models.ProductCandidate{}
	}

	data, err := json.MarshalIndent(products, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal products: %w", err)
	}
	return data, nil
}

// WriteFiles writes both renderings to disk.
func WriteFiles(htmlPath, jsonPath, keyword string, products []models.ProductCandidate) error {
	page, err := HTML(keyword, products)
	if err != nil {
		return err
	}
	if err := os.WriteFile(htmlPath, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}

	data, err := JSON(products)
	if err != nil {
		return err
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	return nil
}
