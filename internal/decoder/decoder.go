package decoder

import (
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
)

// ErrInvalidModelOutput is returned when a score vector does not match the
// taxonomy size.
var ErrInvalidModelOutput = errors.New("invalid model output")

// Decoder turns raw classifier scores into taxonomy labels.
//
// Score vectors must have exactly one entry per taxonomy row. Values inside a
// correctly sized vector are trusted: NaN or out-of-range scores produce an
// unspecified but deterministic result.
type Decoder struct {
	taxonomy           *taxonomy.Taxonomy
	attributeThreshold float64
}

func NewDecoder(tax *taxonomy.Taxonomy, attributeThreshold float64) *Decoder {
	return &Decoder{
		taxonomy:           tax,
		attributeThreshold: attributeThreshold,
	}
}

// DecodeCategory returns the 1-based index of the highest score. The first
// maximum wins ties.
func (d *Decoder) DecodeCategory(scores []float64) (int, error) {
	if len(scores) != d.taxonomy.CategoryCount() {
		return 0, fmt.Errorf("%w: expected %d category scores, got %d",
			ErrInvalidModelOutput, d.taxonomy.CategoryCount(), len(scores))
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return best + 1, nil
}

// DecodeAttributes flags every attribute whose score is strictly above the
// threshold.
func (d *Decoder) DecodeAttributes(scores []float64, threshold float64) ([]bool, error) {
	if len(scores) != d.taxonomy.AttributeCount() {
		return nil, fmt.Errorf("%w: expected %d attribute scores, got %d",
			ErrInvalidModelOutput, d.taxonomy.AttributeCount(), len(scores))
	}

	flags := make([]bool, len(scores))
	for i, score := range scores {
		flags[i] = score > threshold
	}

	return flags, nil
}

// SelectApplicableAttributeNames returns the names of the flagged attributes
// that apply to the group, in table order. Empty names are kept.
func (d *Decoder) SelectApplicableAttributeNames(flags []bool, group taxonomy.Group) []string {
	names := []string{}
	for i, attr := range d.taxonomy.Attributes() {
		if i >= len(flags) {
			break
		}
		if flags[i] && attr.AppliesTo(group) {
			names = append(names, attr.Name)
		}
	}
	return names
}

// Decode runs category and attribute decoding with the configured threshold.
func (d *Decoder) Decode(scores models.PredictionScores) (models.Prediction, error) {
	categoryIndex, err := d.DecodeCategory(scores.CategoryScores)
	if err != nil {
		return models.Prediction{}, err
	}

	flags, err := d.DecodeAttributes(scores.AttributeScores, d.attributeThreshold)
	if err != nil {
		return models.Prediction{}, err
	}

	return models.Prediction{
		CategoryIndex:  categoryIndex,
		AttributeFlags: flags,
	}, nil
}

// Labels resolves a prediction into its category entry and the applicable
// attribute names.
func (d *Decoder) Labels(prediction models.Prediction) (taxonomy.CategoryEntry, []string, error) {
	if len(prediction.AttributeFlags) != d.taxonomy.AttributeCount() {
		return taxonomy.CategoryEntry{}, nil, fmt.Errorf("%w: expected %d attribute flags, got %d",
			ErrInvalidModelOutput, d.taxonomy.AttributeCount(), len(prediction.AttributeFlags))
	}

	category, err := d.taxonomy.Category(prediction.CategoryIndex)
	if err != nil {
		return taxonomy.CategoryEntry{}, nil, err
	}

	return category, d.SelectApplicableAttributeNames(prediction.AttributeFlags, category.Group), nil
}
