package errors

import (
	"fmt"
	"math"
)

// CheckMatrix returns a ValueError when the matrix holds NaN or Inf values.
// Unmatched rows of a left join reach estimators as NaN, so this is the
// check an estimator runs before fitting.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	bad := 0
	firstRow, firstCol := -1, -1
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				if bad == 0 {
					firstRow, firstCol = i, j
				}
				bad++
			}
		}
	}
	if bad > 0 {
		return NewValueError(operation, fmt.Sprintf(
			"input contains %d NaN or infinite values (first at row %d, column %d)", bad, firstRow, firstCol))
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
