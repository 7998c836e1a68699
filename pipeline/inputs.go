package pipeline

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/ufcpredictor/datasource"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// InputsFromFights converts a table loaded by datasource.Fights into seed
// inputs, one per row in table order. The fight_id column is optional.
func InputsFromFights(t *frame.Frame, outcomeColumn string) ([]BaseFightInput, error) {
	if outcomeColumn == "" {
		outcomeColumn = datasource.DefaultOutcomeName
	}
	required := []string{datasource.ColEventID, datasource.ColRedID, datasource.ColBlueID, outcomeColumn}
	if missing := t.Missing(required...); len(missing) > 0 {
		return nil, errors.NewValidationError("columns", "fight table is missing columns", missing)
	}
	hasFightID := t.Has(datasource.ColFightID)

	inputs := make([]BaseFightInput, t.Len())
	for i := range inputs {
		outcome, err := ParseOutcome(t.At(i, outcomeColumn))
		if err != nil {
			return nil, errors.Wrapf(err, "fight row %d", i)
		}
		event, err := identifier(t.At(i, datasource.ColEventID))
		if err != nil {
			return nil, errors.Wrapf(err, "fight row %d event", i)
		}
		red, err := identifier(t.At(i, datasource.ColRedID))
		if err != nil {
			return nil, errors.Wrapf(err, "fight row %d red corner", i)
		}
		blue, err := identifier(t.At(i, datasource.ColBlueID))
		if err != nil {
			return nil, errors.Wrapf(err, "fight row %d blue corner", i)
		}
		in := BaseFightInput{
			EventID:  event,
			Fighters: [2]FighterID{red, blue},
			Outcome:  outcome,
		}
		if hasFightID {
			if in.FightID, err = identifier(t.At(i, datasource.ColFightID)); err != nil {
				return nil, errors.Wrapf(err, "fight row %d fight", i)
			}
		}
		inputs[i] = in
	}
	return inputs, nil
}

// identifier keeps the cell's type: int64 stays an IntID and strings stay
// StringIDs, so the seed joins against sources read the same way.
func identifier(v any) (ID, error) {
	switch x := v.(type) {
	case nil:
		return ID{}, nil
	case int64:
		return IntID(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return ID{}, errors.NewValueError("identifier", fmt.Sprintf("id %v is not integral", x))
		}
		return IntID(int64(x)), nil
	case string:
		return StringID(x), nil
	default:
		return ID{}, errors.NewValueError("identifier", fmt.Sprintf("unsupported id type %T", v))
	}
}
