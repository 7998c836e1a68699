// Package datasource defines the provider contract for extra per-fight
// columns and the Augment step that joins a provider's table onto the
// training table.
package datasource

import (
	"context"
	"sort"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// DataSource supplies a table keyed by JoinKeys.
type DataSource interface {
	// ID identifies the source in dependency declarations and errors.
	ID() string
	// JoinKeys names the columns shared with the base table. Never empty.
	JoinKeys() []string
	// FeaturePrefix is prepended to colliding column names.
	FeaturePrefix() string
	// Load returns the source's table. Repeated calls return equal tables.
	Load(ctx context.Context) (*frame.Frame, error)
}

// Base carries the identity fields every source shares. Embed it and add
// Load.
type Base struct {
	id     string
	keys   []string
	prefix string
}

// Option configures a Base.
type Option func(*Base)

// WithPrefix overrides the feature prefix, which defaults to the ID.
func WithPrefix(prefix string) Option {
	return func(b *Base) {
		b.prefix = prefix
	}
}

// NewBase validates and returns the identity of a source.
func NewBase(id string, keys []string, opts ...Option) (Base, error) {
	if strings.TrimSpace(id) == "" {
		return Base{}, errors.NewConfigurationError("datasource", "source id must not be empty")
	}
	if len(keys) == 0 {
		return Base{}, errors.NewConfigurationError(id, "at least one join key is required")
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			return Base{}, errors.NewConfigurationError(id, "join key names must not be empty")
		}
		if seen[k] {
			return Base{}, errors.NewConfigurationError(id, "duplicate join key "+k)
		}
		seen[k] = true
	}
	b := Base{id: id, keys: append([]string(nil), keys...), prefix: id}
	for _, opt := range opts {
		opt(&b)
	}
	if b.prefix == "" {
		return Base{}, errors.NewConfigurationError(id, "feature prefix must not be empty")
	}
	return b, nil
}

// ID implements DataSource.
func (b Base) ID() string { return b.id }

// JoinKeys implements DataSource.
func (b Base) JoinKeys() []string { return append([]string(nil), b.keys...) }

// FeaturePrefix implements DataSource.
func (b Base) FeaturePrefix() string { return b.prefix }

// Augment loads src and joins it one-to-one onto base.
//
// Join keys are checked on base before Load runs. Non-key columns present in
// both tables are renamed on the source side to "{prefix}_{column}".
func Augment(ctx context.Context, src DataSource, base *frame.Frame, how frame.JoinHow) (*frame.Frame, error) {
	if err := CheckBaseKeys(src, base); err != nil {
		return nil, err
	}
	features, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Merge(src, base, features, how)
}

// CheckBaseKeys reports a MissingJoinKeyError when base lacks any of src's
// join keys.
func CheckBaseKeys(src DataSource, base *frame.Frame) error {
	if missing := base.Missing(src.JoinKeys()...); len(missing) > 0 {
		return errors.NewMissingJoinKeyError(src.ID(), errors.SideBase, missing)
	}
	return nil
}

// Merge joins an already loaded table for src onto base. It is the part of
// Augment that runs after Load.
func Merge(src DataSource, base, features *frame.Frame, how frame.JoinHow) (*frame.Frame, error) {
	if err := CheckBaseKeys(src, base); err != nil {
		return nil, err
	}
	if features == nil {
		return nil, errors.NewValidationError("source", "load returned no table", src.ID())
	}
	keys := src.JoinKeys()
	if missing := features.Missing(keys...); len(missing) > 0 {
		return nil, errors.NewMissingJoinKeyError(src.ID(), errors.SideFeatures, missing)
	}
	renamed, err := resolveCollisions(src, base, features)
	if err != nil {
		return nil, err
	}
	return base.Merge(renamed, frame.MergeOptions{On: keys, How: how, Label: src.ID()})
}

// RenamedColumns returns the source-side renames Merge would apply, keyed by
// the original column name.
func RenamedColumns(src DataSource, base, features *frame.Frame) map[string]string {
	return collisionMapping(src, base, features)
}

func collisionMapping(src DataSource, base, features *frame.Frame) map[string]string {
	isKey := make(map[string]bool)
	for _, k := range src.JoinKeys() {
		isKey[k] = true
	}
	var mapping map[string]string
	for _, col := range features.Columns() {
		if isKey[col] || !base.Has(col) {
			continue
		}
		if mapping == nil {
			mapping = make(map[string]string)
		}
		mapping[col] = src.FeaturePrefix() + "_" + col
	}
	return mapping
}

func resolveCollisions(src DataSource, base, features *frame.Frame) (*frame.Frame, error) {
	mapping := collisionMapping(src, base, features)
	if len(mapping) == 0 {
		return features, nil
	}
	originals := make([]string, 0, len(mapping))
	for col := range mapping {
		originals = append(originals, col)
	}
	sort.Strings(originals)
	for _, col := range originals {
		alias := mapping[col]
		if base.Has(alias) {
			return nil, errors.NewConfigurationError(src.ID(),
				"renamed column "+alias+" (from "+col+") already exists in the base table")
		}
	}
	renamed, err := features.Rename(mapping)
	if err != nil {
		return nil, errors.NewConfigurationError(src.ID(), err.Error())
	}
	return renamed, nil
}
