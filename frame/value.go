package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Normalize converts v to one of the cell types a Frame stores:
// nil, bool, int64, float64 or string.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, int64, float64, string:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, errors.NewValueError("frame.Normalize", fmt.Sprintf("unsigned value %d overflows int64", x))
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, errors.NewValueError("frame.Normalize", fmt.Sprintf("unsigned value %d overflows int64", x))
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case []byte:
		return string(x), nil
	default:
		return nil, errors.NewValueError("frame.Normalize", fmt.Sprintf("unsupported cell type %T", v))
	}
}

// IsNumeric reports whether v is a bool, int64 or float64 cell.
func IsNumeric(v any) bool {
	switch v.(type) {
	case bool, int64, float64:
		return true
	}
	return false
}

// ToFloat converts a numeric cell to float64. nil becomes NaN.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// ParseCell turns raw text (a CSV field, say) into a cell: empty text is nil,
// integers become int64, other numbers float64, everything else stays a string.
func ParseCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return raw
}

func cellEqual(a, b any) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return a == b
}

// keyPart encodes a cell for join-key matching. Integral floats encode like
// the equal int64 so that 7 and 7.0 join. nil never matches anything and
// reports ok=false.
func keyPart(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case bool:
		return "b:" + strconv.FormatBool(x), true
	case int64:
		return "n:" + strconv.FormatInt(x, 10), true
	case float64:
		if math.IsNaN(x) {
			return "", false
		}
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return "n:" + strconv.FormatInt(int64(x), 10), true
		}
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64), true
	case string:
		return "s:" + x, true
	}
	return fmt.Sprintf("?:%v", v), true
}
