package api

import "github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type TaxonomyResponse struct {
	Categories []taxonomy.CategoryEntry  `json:"categories" description:"Category table, 1-based"`
	Attributes []taxonomy.AttributeEntry `json:"attributes" description:"Attribute table, 1-based"`
}
