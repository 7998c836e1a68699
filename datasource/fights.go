package datasource

import (
	"context"
	"strings"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Fight record columns kept by Fights.
const (
	FightsID           = "base_fights"
	FightsPrefix       = "base"
	ColFightID         = "fight_id"
	ColFightURL        = "fight_url"
	ColEventID         = "event_id"
	ColEventDate       = "event_date"
	ColRedID           = "red_id"
	ColRedName         = "red_name"
	ColBlueID          = "blue_id"
	ColBlueName        = "blue_name"
	ColReferee         = "referee"
	DefaultOutcomeName = "outcome"

	colRedResult  = "red_result"
	colBlueResult = "blue_result"
)

// Outcome codes written by Fights. They match pipeline.Outcome.
const (
	outcomeRedWin        int64 = 0
	outcomeBlueWin       int64 = 1
	outcomeDrawNoContest int64 = 2
)

var fightColumns = map[string]bool{
	ColFightID: true, ColFightURL: true, ColEventID: true, ColEventDate: true,
	ColRedID: true, ColRedName: true, ColBlueID: true, ColBlueName: true,
	ColReferee: true,
}

// Fights reads scraped fight records and derives the outcome code from the
// per-corner result columns.
type Fights struct {
	Base
	path          string
	outcomeColumn string
}

// FightsOption configures a Fights source.
type FightsOption func(*fightsConfig)

type fightsConfig struct {
	keys    []string
	outcome string
}

// WithFightsJoinKeys replaces the default fight_id join key.
func WithFightsJoinKeys(keys ...string) FightsOption {
	return func(c *fightsConfig) { c.keys = keys }
}

// WithOutcomeColumn renames the derived outcome column.
func WithOutcomeColumn(name string) FightsOption {
	return func(c *fightsConfig) { c.outcome = name }
}

// NewFights returns the canonical fight records source for path.
func NewFights(path string, opts ...FightsOption) (*Fights, error) {
	cfg := fightsConfig{keys: []string{ColFightID}, outcome: DefaultOutcomeName}
	for _, opt := range opts {
		opt(&cfg)
	}
	base, err := NewBase(FightsID, cfg.keys, WithPrefix(FightsPrefix))
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.NewConfigurationError(FightsID, "csv path must not be empty")
	}
	if cfg.outcome == "" {
		return nil, errors.NewConfigurationError(FightsID, "outcome column name must not be empty")
	}
	return &Fights{Base: base, path: path, outcomeColumn: cfg.outcome}, nil
}

// Load implements DataSource. Columns outside the fight record set are
// dropped; the outcome column comes last.
func (f *Fights) Load(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header, records, err := readCSV(f.path)
	if err != nil {
		return nil, errors.NewLoadError(f.ID(), err)
	}
	out, err := f.build(header, records)
	if err != nil {
		return nil, errors.NewLoadError(f.ID(), err)
	}
	return out, nil
}

func (f *Fights) build(header []string, records [][]string) (*frame.Frame, error) {
	red, blue := -1, -1
	var cols []frame.Column
	var positions []int
	for j, name := range header {
		switch {
		case name == colRedResult:
			red = j
		case name == colBlueResult:
			blue = j
		}
		if fightColumns[name] && name != f.outcomeColumn {
			cols = append(cols, frame.Column{Name: name, Values: make([]any, len(records))})
			positions = append(positions, j)
		}
	}
	outcomes := make([]any, len(records))
	for i, rec := range records {
		for k, j := range positions {
			cols[k].Values[i] = frame.ParseCell(rec[j])
		}
		outcomes[i] = mapOutcome(field(rec, red), field(rec, blue))
	}
	cols = append(cols, frame.Column{Name: f.outcomeColumn, Values: outcomes})
	return frame.New(cols...)
}

func field(rec []string, j int) string {
	if j < 0 {
		return ""
	}
	return rec[j]
}

// mapOutcome: a red result starting with W is a red win, otherwise a blue
// result starting with W is a blue win, anything else is draw/no contest.
func mapOutcome(red, blue string) int64 {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(red)), "W") {
		return outcomeRedWin
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(blue)), "W") {
		return outcomeBlueWin
	}
	return outcomeDrawNoContest
}
