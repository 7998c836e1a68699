package split

import (
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/ufcpredictor/frame"
)

// Holdout sends a random TestFraction of rows to test. The same Seed always
// gives the same split. With Shuffle false it behaves like Ordered.
type Holdout struct {
	TestFraction float64
	Seed         uint64
	Shuffle      bool
}

// Split implements Strategy. Both sides keep table order.
func (h Holdout) Split(X *frame.Frame, y *frame.Series) (Partition, error) {
	if !h.Shuffle {
		return Ordered{TestFraction: h.TestFraction}.Split(X, y)
	}
	n := X.Len()
	k, err := testSize(n, h.TestFraction)
	if err != nil {
		return Partition{}, err
	}
	rng := rand.New(rand.NewPCG(h.Seed, h.Seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)
	test := append([]int(nil), perm[:k]...)
	train := append([]int(nil), perm[k:]...)
	sort.Ints(test)
	sort.Ints(train)
	return Take(X, y, train, test)
}

// Ordered keeps the first rows for training and the last TestFraction for
// test, which suits tables sorted by event date.
type Ordered struct {
	TestFraction float64
}

// Split implements Strategy.
func (o Ordered) Split(X *frame.Frame, y *frame.Series) (Partition, error) {
	n := X.Len()
	k, err := testSize(n, o.TestFraction)
	if err != nil {
		return Partition{}, err
	}
	return Take(X, y, positions(0, n-k), positions(n-k, n))
}

// Stratified holds out TestFraction of each outcome class separately.
type Stratified struct {
	TestFraction float64
	Seed         uint64
}

// Split implements Strategy. Classes with a single row stay in train.
func (s Stratified) Split(X *frame.Frame, y *frame.Series) (Partition, error) {
	n := X.Len()
	if _, err := testSize(n, s.TestFraction); err != nil {
		return Partition{}, err
	}
	groups := map[any][]int{}
	var order []any
	for i := 0; i < y.Len(); i++ {
		label := y.At(i)
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	var train, test []int
	for _, label := range order {
		rows := groups[label]
		k := 0
		if len(rows) > 1 {
			k, _ = testSize(len(rows), s.TestFraction)
		}
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		test = append(test, rows[:k]...)
		train = append(train, rows[k:]...)
	}
	sort.Ints(test)
	sort.Ints(train)
	return Take(X, y, train, test)
}

func positions(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
