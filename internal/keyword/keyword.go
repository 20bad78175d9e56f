package keyword

import (
	"strings"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
)

// Compose builds the search phrase: the category name followed by every
// non-empty attribute name, separated by single spaces. The phrase is sent
// to the search API as is.
func Compose(tax *taxonomy.Taxonomy, categoryIndex int, attributeNames []string) (string, error) {
	category, err := tax.Category(categoryIndex)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(attributeNames)+1)
	parts = append(parts, category.Name)
	for _, name := range attributeNames {
		if name != "" {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, " "), nil
}
