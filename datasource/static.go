package datasource

import (
	"context"

	"github.com/YuminosukeSato/ufcpredictor/frame"
)

// Static serves a fixed in-memory table.
type Static struct {
	Base
	table *frame.Frame
}

// NewStatic returns a source that always loads table.
func NewStatic(id string, keys []string, table *frame.Frame, opts ...Option) (*Static, error) {
	base, err := NewBase(id, keys, opts...)
	if err != nil {
		return nil, err
	}
	return &Static{Base: base, table: table}, nil
}

// Load returns the table. Frames are immutable, so the same value is safe to
// hand out on every call.
func (s *Static) Load(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.table, nil
}
