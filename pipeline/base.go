package pipeline

import (
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// SeedColumns are the columns of a seed table without fight IDs, in order.
var SeedColumns = []string{ColEventID, ColFighterA, ColFighterB, ColOutcome}

// BuildBaseTable turns the inputs into the seed table: one row per input, in
// order, with index 0..n-1. An empty input is a ConfigurationError.
// The table gains a leading fight_id column when any input carries one.
func BuildBaseTable(inputs []BaseFightInput) (*frame.Frame, error) {
	if len(inputs) == 0 {
		return nil, errors.NewConfigurationError("pipeline", "at least one base fight input is required")
	}
	columns := append([]string(nil), SeedColumns...)
	for _, in := range inputs {
		if !in.FightID.IsZero() {
			columns = append([]string{ColFightID}, columns...)
			break
		}
	}
	rows := make([][]any, len(inputs))
	for i, in := range inputs {
		if !in.Outcome.Valid() {
			return nil, errors.NewValidationError("outcome", "input has an undefined outcome code", int64(in.Outcome))
		}
		rec := in.Record()
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return frame.FromRows(columns, rows)
}
