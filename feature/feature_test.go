package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

func table(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.Column{Name: "reach_a", Values: []any{180, 175.5, nil, 170}},
		frame.Column{Name: "reach_b", Values: []any{170, 180, 170, 170}},
		frame.Column{Name: "name", Values: []any{"a", "b", "c", "d"}},
	)
	require.NoError(t, err)
	return f
}

func TestNewFunc(t *testing.T) {
	called := false
	b, err := NewFunc("B1", Requires{Sources: []string{"S"}, Features: []string{"B0"}},
		func(f *frame.Frame) (*frame.Frame, error) {
			called = true
			return f, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "B1", b.ID())
	assert.Equal(t, []string{"S"}, b.RequiredSources())
	assert.Equal(t, []string{"B0"}, b.RequiredFeatures())

	_, err = b.Transform(table(t))
	require.NoError(t, err)
	assert.True(t, called)

	_, err = NewFunc("", Requires{}, func(f *frame.Frame) (*frame.Frame, error) { return f, nil })
	assert.True(t, errors.IsConfiguration(err))
	_, err = NewFunc("x", Requires{}, nil)
	assert.True(t, errors.IsConfiguration(err))
}

func TestDifference(t *testing.T) {
	b, err := Difference("reach_diff", Requires{}, "reach_a", "reach_b", "reach_diff")
	require.NoError(t, err)
	in := table(t)
	out, err := b.Transform(in)
	require.NoError(t, err)

	diff, _ := out.Values("reach_diff")
	assert.Equal(t, []any{int64(10), -4.5, nil, int64(0)}, diff)
	assert.Equal(t, in.Index(), out.Index())
	assert.False(t, in.Has("reach_diff"), "input untouched")

	bad, err := Difference("d", Requires{}, "name", "reach_b", "d")
	require.NoError(t, err)
	_, err = bad.Transform(in)
	assert.Error(t, err)

	missing, err := Difference("d", Requires{}, "nope", "reach_b", "d")
	require.NoError(t, err)
	_, err = missing.Transform(in)
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	diff, err := Difference("reach_diff", Requires{}, "reach_a", "reach_b", "reach_diff")
	require.NoError(t, err)
	sign, err := Sign("reach_sign", Requires{Features: []string{"reach_diff"}}, "reach_diff", "reach_sign")
	require.NoError(t, err)

	out, err := diff.Transform(table(t))
	require.NoError(t, err)
	out, err = sign.Transform(out)
	require.NoError(t, err)

	got, _ := out.Values("reach_sign")
	assert.Equal(t, []any{int64(1), int64(-1), nil, int64(0)}, got)
}

func TestZScore(t *testing.T) {
	b, err := ZScore("z", Requires{}, "reach_b")
	require.NoError(t, err)
	out, err := b.Transform(table(t))
	require.NoError(t, err)

	z, _ := out.Values("reach_b_z")
	// mean 172.5, sample sd 5
	want := []float64{-0.5, 1.5, -0.5, -0.5}
	for i, w := range want {
		assert.InDelta(t, w, z[i].(float64), 1e-9)
	}

	a, err := ZScore("z", Requires{}, "reach_a")
	require.NoError(t, err)
	out, err = a.Transform(table(t))
	require.NoError(t, err)
	za, _ := out.Values("reach_a_z")
	assert.Nil(t, za[2])

	constant, err := frame.New(frame.Column{Name: "c", Values: []any{3, 3}})
	require.NoError(t, err)
	c, err := ZScore("z", Requires{}, "c")
	require.NoError(t, err)
	out, err = c.Transform(constant)
	require.NoError(t, err)
	zc, _ := out.Values("c_z")
	assert.Equal(t, []any{0.0, 0.0}, zc)
	assert.False(t, math.IsNaN(zc[0].(float64)))

	_, err = ZScore("z", Requires{})
	assert.True(t, errors.IsConfiguration(err))
}

func TestBuildersRejectExistingOutputColumn(t *testing.T) {
	in, err := table(t).WithColumn("outcome", []any{0, 1, 2, 0})
	require.NoError(t, err)

	overwrite, err := Difference("reach_diff", Requires{}, "reach_a", "reach_b", "outcome")
	require.NoError(t, err)
	out, err := overwrite.Transform(in)
	assert.Nil(t, out)
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "outcome", ve.Value)

	withZ, err := in.WithColumn("reach_b_z", []any{0, 0, 0, 0})
	require.NoError(t, err)
	z, err := ZScore("z", Requires{}, "reach_b")
	require.NoError(t, err)
	_, err = z.Transform(withZ)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "reach_b_z", ve.Value)
}
