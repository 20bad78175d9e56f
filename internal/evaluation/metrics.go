package evaluation

import (
	"errors"
	"fmt"
)

var ErrShapeMismatch = errors.New("shape mismatch")

// TopKAccuracy returns the fraction of rows whose 1-based expected category
// is among the k highest scores. Equal scores rank by lower index first.
func TopKAccuracy(expected []int, scores [][]float64, k int) (float64, error) {
	if len(expected) != len(scores) {
		return 0, fmt.Errorf("%w: %d labels for %d score rows", ErrShapeMismatch, len(expected), len(scores))
	}
	if len(expected) == 0 {
		return 0, nil
	}

	hits := 0
	for i, row := range scores {
		if inTopK(row, expected[i]-1, k) {
			hits++
		}
	}

	return float64(hits) / float64(len(expected)), nil
}

func inTopK(row []float64, target, k int) bool {
	if target < 0 || target >= len(row) {
		return false
	}

	rank := 0
	for j, s := range row {
		if s > row[target] || (s == row[target] && j < target) {
			rank++
		}
	}
	return rank < k
}

// HammingLoss returns the fraction of labels that differ between expected
// and predicted.
func HammingLoss(expected, predicted [][]bool) (float64, error) {
	if err := checkShape(expected, predicted); err != nil {
		return 0, err
	}

	total, wrong := 0, 0
	for i := range expected {
		for j := range expected[i] {
			total++
			if expected[i][j] != predicted[i][j] {
				wrong++
			}
		}
	}

	if total == 0 {
		return 0, nil
	}
	return float64(wrong) / float64(total), nil
}

// PerAttributePrecision returns tp/(tp+fp) for every label column. Columns
// that were never predicted score 0.
func PerAttributePrecision(expected, predicted [][]bool) ([]float64, error) {
	if err := checkShape(expected, predicted); err != nil {
		return nil, err
	}
	if len(expected) == 0 {
		return []float64{}, nil
	}

	width := len(expected[0])
	truePositives := make([]int, width)
	predictedPositives := make([]int, width)

	for i := range predicted {
		for j, p := range predicted[i] {
			if !p {
				continue
			}
			predictedPositives[j]++
			if expected[i][j] {
				truePositives[j]++
			}
		}
	}

	precision := make([]float64, width)
	for j := range precision {
		if predictedPositives[j] > 0 {
			precision[j] = float64(truePositives[j]) / float64(predictedPositives[j])
		}
	}
	return precision, nil
}

func checkShape(expected, predicted [][]bool) error {
	if len(expected) != len(predicted) {
		return fmt.Errorf("%w: %d expected rows, %d predicted rows", ErrShapeMismatch, len(expected), len(predicted))
	}
	for i := range expected {
		if len(expected[i]) != len(predicted[i]) || len(expected[i]) != len(expected[0]) {
			return fmt.Errorf("%w: row %d has inconsistent width", ErrShapeMismatch, i)
		}
	}
	return nil
}
