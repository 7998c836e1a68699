// Package split partitions the assembled feature table into train and test
// sets.
package split

import (
	"fmt"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Partition is the result of a split. Rows keep the index labels they had in
// the unsplit table.
type Partition struct {
	XTrain *frame.Frame
	XTest  *frame.Frame
	YTrain *frame.Series
	YTest  *frame.Series
}

// Strategy splits features X and target y.
type Strategy interface {
	Split(X *frame.Frame, y *frame.Series) (Partition, error)
}

// Func adapts a plain function to Strategy.
type Func func(X *frame.Frame, y *frame.Series) (Partition, error)

// Split calls f.
func (f Func) Split(X *frame.Frame, y *frame.Series) (Partition, error) {
	return f(X, y)
}

// Validate checks that p is a partition of a table with the given index:
// every part is present, X and y agree within each side, train is not empty
// and the two sides are disjoint and together cover index.
func (p Partition) Validate(index []int) error {
	if p.XTrain == nil || p.XTest == nil || p.YTrain == nil || p.YTest == nil {
		return errors.NewValidationError("partition", "split returned a nil part", nil)
	}
	if !sameInts(p.XTrain.Index(), p.YTrain.Index()) {
		return errors.NewValidationError("partition", "train features and target are not aligned", nil)
	}
	if !sameInts(p.XTest.Index(), p.YTest.Index()) {
		return errors.NewValidationError("partition", "test features and target are not aligned", nil)
	}
	if p.XTrain.Len() == 0 {
		return errors.NewValidationError("partition", "train set is empty", nil)
	}
	want := make(map[int]bool, len(index))
	for _, label := range index {
		want[label] = true
	}
	seen := make(map[int]bool, len(index))
	for _, label := range append(p.XTrain.Index(), p.XTest.Index()...) {
		if !want[label] {
			return errors.NewValidationError("partition", "row label not in the input table", label)
		}
		if seen[label] {
			return errors.NewValidationError("partition", "row label appears more than once", label)
		}
		seen[label] = true
	}
	if len(seen) != len(want) {
		return errors.NewValidationError("partition",
			fmt.Sprintf("split covers %d of %d rows", len(seen), len(want)), nil)
	}
	return nil
}

// Take builds a Partition from row positions of X and y.
func Take(X *frame.Frame, y *frame.Series, train, test []int) (Partition, error) {
	if X.Len() != y.Len() {
		return Partition{}, errors.NewDimensionError("split", X.Len(), y.Len(), 0)
	}
	var (
		p   Partition
		err error
	)
	if p.XTrain, err = X.Take(train); err != nil {
		return Partition{}, err
	}
	if p.XTest, err = X.Take(test); err != nil {
		return Partition{}, err
	}
	if p.YTrain, err = y.Take(train); err != nil {
		return Partition{}, err
	}
	if p.YTest, err = y.Take(test); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// testSize returns how many of n rows go to test. At least one row stays in
// train; with two or more rows and a positive fraction at least one row is
// tested.
func testSize(n int, fraction float64) (int, error) {
	if fraction < 0 || fraction >= 1 {
		return 0, errors.NewValidationError("test_fraction", "must be in [0, 1)", fraction)
	}
	if n == 0 {
		return 0, errors.NewValueError("split", "cannot split an empty table")
	}
	k := int(float64(n)*fraction + 0.5)
	if fraction > 0 && k == 0 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}
	return k, nil
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
