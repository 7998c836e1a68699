// Package pipeline assembles the fight-outcome training table and runs a
// model over it.
//
// A run seeds a table from BaseFightInput records, augments it with each
// DataSource in order, applies FeatureBuilders whose dependencies are checked
// before any of them runs, splits the result with a split.Strategy and fits
// and evaluates an estimator.Model.
package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Column names of the seed table and the test output.
const (
	ColFightID    = "fight_id"
	ColEventID    = "event_id"
	ColFighterA   = "fighter_id_a"
	ColFighterB   = "fighter_id_b"
	ColOutcome    = "outcome"
	ColPrediction = "prediction"
	ColActual     = "actual"
)

// Stages of a run, used for logging and metrics.
const (
	StageSeed     = "seed"
	StageAugment  = "augment"
	StageFeatures = "features"
	StageSplit    = "split"
	StageFit      = "fit"
	StagePredict  = "predict"
)

// ID is an integer or string identifier of a fighter, fight or event. Its
// table value is int64 or string, and it keeps the type it was read with so
// that seed cells join against source cells of the same type.
type ID struct {
	value any
}

// FighterID identifies a participant.
type FighterID = ID

// IntID returns an integer identifier.
func IntID(id int64) ID { return ID{value: id} }

// StringID returns a string identifier.
func StringID(id string) ID { return ID{value: id} }

// Value returns the identifier as a table cell.
func (i ID) Value() any { return i.value }

// IsZero reports whether i was never set.
func (i ID) IsZero() bool { return i.value == nil }

func (i ID) String() string {
	if i.value == nil {
		return "<none>"
	}
	return fmt.Sprint(i.value)
}

// Outcome is the result of a fight from the red corner's point of view.
type Outcome int64

// Outcome codes.
const (
	RedWin        Outcome = 0
	BlueWin       Outcome = 1
	DrawNoContest Outcome = 2
)

// Outcomes lists every code in ascending order.
var Outcomes = []Outcome{RedWin, BlueWin, DrawNoContest}

func (o Outcome) String() string {
	switch o {
	case RedWin:
		return "red_win"
	case BlueWin:
		return "blue_win"
	case DrawNoContest:
		return "draw_no_contest"
	default:
		return "outcome(" + strconv.FormatInt(int64(o), 10) + ")"
	}
}

// Valid reports whether o is one of the defined codes.
func (o Outcome) Valid() bool {
	return o >= RedWin && o <= DrawNoContest
}

// ParseOutcome coerces a table cell or config value to an Outcome.
// Integers, integral floats, numeric strings and the words red, blue, draw
// and nc are accepted.
func ParseOutcome(v any) (Outcome, error) {
	var code int64
	switch x := v.(type) {
	case Outcome:
		code = int64(x)
	case int:
		code = int64(x)
	case int32:
		code = int64(x)
	case int64:
		code = x
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return 0, errors.NewValueError("ParseOutcome", fmt.Sprintf("outcome %v is not an integral code", x))
		}
		code = int64(x)
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		switch s {
		case "red", "red_win":
			return RedWin, nil
		case "blue", "blue_win":
			return BlueWin, nil
		case "draw", "nc", "draw_no_contest":
			return DrawNoContest, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, errors.NewValueError("ParseOutcome", fmt.Sprintf("unrecognised outcome %q", x))
		}
		code = n
	default:
		return 0, errors.NewValueError("ParseOutcome", fmt.Sprintf("unsupported outcome type %T", v))
	}
	o := Outcome(code)
	if !o.Valid() {
		return 0, errors.NewValueError("ParseOutcome", fmt.Sprintf("outcome code %d out of range", code))
	}
	return o, nil
}

// BaseFightInput is one fight to seed the table with. Fighters[0] is the red
// corner (A), Fighters[1] the blue corner (B).
type BaseFightInput struct {
	EventID  ID
	Fighters [2]FighterID
	Outcome  Outcome
	// FightID is optional. When any input sets it the seed table gains a
	// fight_id column so fight-keyed sources can join.
	FightID ID
}

// Record flattens the input to its seed-table cells.
func (b BaseFightInput) Record() map[string]any {
	rec := map[string]any{
		ColEventID:  b.EventID.Value(),
		ColFighterA: b.Fighters[0].Value(),
		ColFighterB: b.Fighters[1].Value(),
		ColOutcome:  int64(b.Outcome),
	}
	if !b.FightID.IsZero() {
		rec[ColFightID] = b.FightID.Value()
	}
	return rec
}
