package decoder

import (
	"errors"
	"slices"
	"testing"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
)

func newTestDecoder() *Decoder {
	return NewDecoder(taxonomy.Default(), 0.5)
}

func oneHot(size, position int) []float64 {
	v := make([]float64, size)
	v[position] = 1.0
	return v
}

func TestDecodeCategory(t *testing.T) {
	d := newTestDecoder()

	tests := []struct {
		name   string
		scores []float64
		want   int
	}{
		{"one-hot first", oneHot(50, 0), 1},
		{"one-hot middle", oneHot(50, 40), 41},
		{"one-hot last", oneHot(50, 49), 50},
		{"all equal picks first", make([]float64, 50), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.DecodeCategory(tt.scores)
			if err != nil {
				t.Fatalf("DecodeCategory failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeCategory = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeCategory_TieBreaksToLowestIndex(t *testing.T) {
	scores := make([]float64, 50)
	scores[7] = 0.4
	scores[12] = 0.4
	scores[30] = 0.1

	got, err := newTestDecoder().DecodeCategory(scores)
	if err != nil {
		t.Fatalf("DecodeCategory failed: %v", err)
	}
	if got != 8 {
		t.Errorf("expected first maximum (8), got %d", got)
	}
}

func TestDecodeCategory_WrongLength(t *testing.T) {
	for _, size := range []int{0, 49, 51} {
		_, err := newTestDecoder().DecodeCategory(make([]float64, size))
		if !errors.Is(err, ErrInvalidModelOutput) {
			t.Errorf("size %d: expected ErrInvalidModelOutput, got %v", size, err)
		}
	}
}

func TestDecodeAttributes_StrictThreshold(t *testing.T) {
	scores := make([]float64, 26)
	scores[0] = 0.51
	scores[1] = 0.5
	scores[2] = 0.49

	flags, err := newTestDecoder().DecodeAttributes(scores, 0.5)
	if err != nil {
		t.Fatalf("DecodeAttributes failed: %v", err)
	}

	want := []bool{true, false, false}
	if !slices.Equal(flags[:3], want) {
		t.Errorf("flags = %v, want %v", flags[:3], want)
	}
	if len(flags) != 26 {
		t.Errorf("expected 26 flags, got %d", len(flags))
	}
}

func TestDecodeAttributes_WrongLength(t *testing.T) {
	_, err := newTestDecoder().DecodeAttributes([]float64{0.51, 0.5, 0.49}, 0.5)
	if !errors.Is(err, ErrInvalidModelOutput) {
		t.Errorf("expected ErrInvalidModelOutput, got %v", err)
	}
}

func flagsFor(indexes ...int) []bool {
	flags := make([]bool, 26)
	for _, i := range indexes {
		flags[i-1] = true
	}
	return flags
}

func TestSelectApplicableAttributeNames(t *testing.T) {
	d := newTestDecoder()

	tests := []struct {
		name  string
		flags []bool
		group taxonomy.Group
		want  []string
	}{
		{
			name:  "group restricted attribute excluded on mismatch",
			flags: flagsFor(16),
			group: taxonomy.GroupBottom,
			want:  []string{},
		},
		{
			name:  "group restricted attribute included on match",
			flags: flagsFor(16),
			group: taxonomy.GroupTop,
			want:  []string{"square neckline"},
		},
		{
			name:  "unrestricted attribute included for any group",
			flags: flagsFor(3),
			group: taxonomy.GroupBottom,
			want:  []string{"striped"},
		},
		{
			name:  "table order and empty names kept",
			flags: flagsFor(20, 13, 1, 11),
			group: taxonomy.GroupFullBody,
			want:  []string{"floral", "maxi length", "", "cotton"},
		},
		{
			name:  "short sleeve excluded for full body",
			flags: flagsFor(9, 11),
			group: taxonomy.GroupFullBody,
			want:  []string{"maxi length"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.SelectApplicableAttributeNames(tt.flags, tt.group)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_AndLabels(t *testing.T) {
	d := newTestDecoder()

	attributes := make([]float64, 26)
	attributes[8] = 0.9  // short sleeve
	attributes[10] = 0.7 // maxi length
	attributes[0] = 0.5  // floral, at threshold

	prediction, err := d.Decode(models.PredictionScores{
		CategoryScores:  oneHot(50, 40),
		AttributeScores: attributes,
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if prediction.CategoryIndex != 41 {
		t.Errorf("expected category 41, got %d", prediction.CategoryIndex)
	}

	category, names, err := d.Labels(prediction)
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	if category.Name != "Dress" || category.Group != taxonomy.GroupFullBody {
		t.Errorf("unexpected category %+v", category)
	}
	if !slices.Equal(names, []string{"maxi length"}) {
		t.Errorf("unexpected attribute names %q", names)
	}
}

func TestDecode_ShapeMismatch(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Decode(models.PredictionScores{
		CategoryScores:  oneHot(50, 0),
		AttributeScores: make([]float64, 25),
	})
	if !errors.Is(err, ErrInvalidModelOutput) {
		t.Errorf("expected ErrInvalidModelOutput, got %v", err)
	}

	_, _, err = d.Labels(models.Prediction{CategoryIndex: 1, AttributeFlags: make([]bool, 3)})
	if !errors.Is(err, ErrInvalidModelOutput) {
		t.Errorf("expected ErrInvalidModelOutput for short flags, got %v", err)
	}

	_, _, err = d.Labels(models.Prediction{CategoryIndex: 51, AttributeFlags: make([]bool, 26)})
	if !errors.Is(err, taxonomy.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}
