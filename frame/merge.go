package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// JoinHow selects what happens to base rows without a match.
type JoinHow int

const (
	// JoinLeft keeps unmatched base rows with nil in the new columns.
	JoinLeft JoinHow = iota
	// JoinInner drops unmatched base rows.
	JoinInner
	// JoinStrict fails when a base row has no match.
	JoinStrict
)

func (h JoinHow) String() string {
	switch h {
	case JoinLeft:
		return "left"
	case JoinInner:
		return "inner"
	case JoinStrict:
		return "strict"
	}
	return fmt.Sprintf("JoinHow(%d)", int(h))
}

// ParseJoinHow parses "left", "inner" or "strict". The empty string is left.
func ParseJoinHow(s string) (JoinHow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return JoinLeft, nil
	case "inner":
		return JoinInner, nil
	case "strict":
		return JoinStrict, nil
	}
	return JoinLeft, errors.NewValidationError("join", "unknown join mode (want left, inner or strict)", s)
}

// MergeOptions configures Frame.Merge.
type MergeOptions struct {
	// On lists the key columns; both frames must have all of them.
	On []string
	// How picks the treatment of unmatched base rows.
	How JoinHow
	// Label names the right-hand table in error messages.
	Label string
}

// Merge joins right onto f one-to-one on opts.On.
//
// The result keeps f's rows in their original order with f's index, followed
// by right's non-key columns. Duplicate key tuples on either side are a
// CardinalityError, and a non-key column present in both frames is a
// ConfigurationError. Rows whose key contains nil never match.
func (f *Frame) Merge(right *Frame, opts MergeOptions) (*Frame, error) {
	label := opts.Label
	if label == "" {
		label = "right"
	}
	if len(opts.On) == 0 {
		return nil, errors.NewConfigurationError(label, "merge requires at least one key column")
	}
	if missing := f.Missing(opts.On...); len(missing) > 0 {
		return nil, errors.NewMissingJoinKeyError(label, errors.SideBase, missing)
	}
	if missing := right.Missing(opts.On...); len(missing) > 0 {
		return nil, errors.NewMissingJoinKeyError(label, errors.SideFeatures, missing)
	}

	isKey := make(map[string]bool, len(opts.On))
	for _, k := range opts.On {
		isKey[k] = true
	}
	var added []string
	for _, n := range right.names {
		if isKey[n] {
			continue
		}
		if f.Has(n) {
			return nil, errors.NewConfigurationError(label,
				fmt.Sprintf("column %q already exists in the base table", n))
		}
		added = append(added, n)
	}

	rightRows := make(map[string]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		key, ok := right.rowKey(i, opts.On)
		if !ok {
			continue
		}
		if _, dup := rightRows[key]; dup {
			return nil, errors.NewCardinalityError(label, errors.SideFeatures,
				right.displayKey(i, opts.On), "duplicate key")
		}
		rightRows[key] = i
	}

	seen := make(map[string]bool, f.Len())
	positions := make([]int, 0, f.Len())
	matches := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		key, ok := f.rowKey(i, opts.On)
		match := -1
		if ok {
			if seen[key] {
				return nil, errors.NewCardinalityError(label, errors.SideBase,
					f.displayKey(i, opts.On), "duplicate key")
			}
			seen[key] = true
			if j, found := rightRows[key]; found {
				match = j
			}
		}
		if match < 0 {
			switch opts.How {
			case JoinInner:
				continue
			case JoinStrict:
				return nil, errors.NewCardinalityError(label, errors.SideBase,
					f.displayKey(i, opts.On), "no matching row")
			}
		}
		positions = append(positions, i)
		matches = append(matches, match)
	}

	out, err := f.Take(positions)
	if err != nil {
		return nil, err
	}
	names := append(out.names, added...)
	cols := out.shallowCols()
	for _, n := range added {
		src := right.cols[n]
		dst := make([]any, len(matches))
		for i, j := range matches {
			if j >= 0 {
				dst[i] = src[j]
			}
		}
		cols[n] = dst
	}
	return newTrusted(names, cols, out.index), nil
}

// rowKey encodes the key tuple of row i. Each part is length-prefixed so
// that no separator inside a string key can make two tuples collide.
func (f *Frame) rowKey(i int, on []string) (string, bool) {
	var b strings.Builder
	for _, name := range on {
		p, ok := keyPart(f.cols[name][i])
		if !ok {
			return "", false
		}
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String(), true
}

func (f *Frame) displayKey(i int, on []string) string {
	parts := make([]string, len(on))
	for k, name := range on {
		parts[k] = fmt.Sprintf("%s=%v", name, f.cols[name][i])
	}
	return strings.Join(parts, ", ")
}
