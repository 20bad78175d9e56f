package evaluation

import (
	"sync"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

// Sample is one labelled prediction. ExpectedCategory 0 or nil
// ExpectedAttributes leave the sample out of the matching metrics.
type Sample struct {
	ExpectedCategory    int
	CategoryScores      []float64
	ExpectedAttributes  []bool
	PredictedAttributes []bool
}

type AttributePrecision struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Precision float64 `json:"precision"`
}

type Report struct {
	Records            int                  `json:"records"`
	CategoryRecords    int                  `json:"category_records"`
	AttributeRecords   int                  `json:"attribute_records"`
	Top1Accuracy       float64              `json:"top1_accuracy"`
	Top3Accuracy       float64              `json:"top3_accuracy"`
	HammingLoss        float64              `json:"hamming_loss"`
	AttributePrecision []AttributePrecision `json:"attribute_precision"`
}

// Accumulator collects samples from concurrent workers.
type Accumulator struct {
	mu       sync.Mutex
	taxonomy *taxonomy.Taxonomy
	logger   *zerolog.Logger

	records            int
	expectedCategories []int
	categoryScores     [][]float64
	expectedAttributes [][]bool
	predictedAttrs     [][]bool
}

func NewAccumulator(tax *taxonomy.Taxonomy, logger *zerolog.Logger) *Accumulator {
	return &Accumulator{
		taxonomy: tax,
		logger:   logger,
	}
}

func (a *Accumulator) Add(s Sample) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records++

	if s.ExpectedCategory > 0 && len(s.CategoryScores) == a.taxonomy.CategoryCount() {
		a.expectedCategories = append(a.expectedCategories, s.ExpectedCategory)
		a.categoryScores = append(a.categoryScores, s.CategoryScores)
	}

	if s.ExpectedAttributes != nil {
		if len(s.ExpectedAttributes) != a.taxonomy.AttributeCount() || len(s.PredictedAttributes) != a.taxonomy.AttributeCount() {
			a.logger.Warn().
				Int("expected", len(s.ExpectedAttributes)).
				Int("predicted", len(s.PredictedAttributes)).
				Msg("skipping attribute sample with wrong width")
			return
		}
		a.expectedAttributes = append(a.expectedAttributes, s.ExpectedAttributes)
		a.predictedAttrs = append(a.predictedAttrs, s.PredictedAttributes)
	}
}

// Report computes the metrics over everything collected so far.
func (a *Accumulator) Report() (Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := Report{
		Records:            a.records,
		CategoryRecords:    len(a.expectedCategories),
		AttributeRecords:   len(a.expectedAttributes),
		AttributePrecision: []AttributePrecision{},
	}

	var err error
	if report.Top1Accuracy, err = TopKAccuracy(a.expectedCategories, a.categoryScores, 1); err != nil {
		return Report{}, err
	}
	if report.Top3Accuracy, err = TopKAccuracy(a.expectedCategories, a.categoryScores, 3); err != nil {
		return Report{}, err
	}
	if report.HammingLoss, err = HammingLoss(a.expectedAttributes, a.predictedAttrs); err != nil {
		return Report{}, err
	}

	precision, err := PerAttributePrecision(a.expectedAttributes, a.predictedAttrs)
	if err != nil {
		return Report{}, err
	}
	for i, p := range precision {
		attr, err := a.taxonomy.Attribute(i + 1)
		if err != nil {
			return Report{}, err
		}
		report.AttributePrecision = append(report.AttributePrecision, AttributePrecision{
			Index:     attr.Index,
			Name:      attr.Name,
			Precision: p,
		})
	}

	a.logger.
		Info().
		Int("records", report.Records).
		Float64("top3Accuracy", report.Top3Accuracy).
		Float64("hammingLoss", report.HammingLoss).
		Msg("evaluation complete")

	return report, nil
}
