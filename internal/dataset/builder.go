package dataset

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/speedwagon-io/eohchart/internal/config"
	"github.com/speedwagon-io/eohchart/internal/model"
)

// Strategy selects where row values come from.
type Strategy int

const (
	// StrategyDefaults seeds every row from the same values.
	StrategyDefaults Strategy = iota
	// StrategyManual takes one explicit entry per row.
	StrategyManual
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefaults:
		return "defaults"
	case StrategyManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseStrategy maps the wire name of a strategy. The empty string means
// defaults.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "defaults":
		return StrategyDefaults, nil
	case "manual":
		return StrategyManual, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

type RowValues struct {
	CurrentHours float64          `json:"current_hours"`
	Thresholds   model.Thresholds `json:"thresholds"`
}

// RowInput is one manually entered row. An empty ID is replaced with the
// fleet prefix and the 1-based row number.
type RowInput struct {
	ID string `json:"id"`
	RowValues
}

type Input struct {
	Strategy Strategy
	Count    int
	// Defaults overrides the configured seed values for StrategyDefaults.
	Defaults *RowValues
	Rows     []RowInput
}

type Builder struct {
	fleet config.FleetConfig
}

func NewBuilder(fleet config.FleetConfig) *Builder {
	return &Builder{fleet: fleet}
}

// Bounds returns the accepted unit count range.
func (b *Builder) Bounds() (int, int) {
	return b.fleet.MinUnits, b.fleet.MaxUnits
}

func (b *Builder) SeedValues() RowValues {
	d := b.fleet.Defaults
	return RowValues{
		CurrentHours: d.CurrentHours,
		Thresholds: model.Thresholds{
			CI:   d.CI,
			HGPI: d.HGPI,
			MI:   d.MI,
			RLE:  d.RLE,
		},
	}
}

func (b *Builder) Build(in Input) (*model.Dataset, error) {
	if in.Count < b.fleet.MinUnits || in.Count > b.fleet.MaxUnits {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrUnitCount, in.Count, b.fleet.MinUnits, b.fleet.MaxUnits)
	}

	var rows []RowInput
	switch in.Strategy {
	case StrategyDefaults:
		seed := b.SeedValues()
		if in.Defaults != nil {
			seed = *in.Defaults
		}
		rows = make([]RowInput, in.Count)
		for i := range rows {
			rows[i] = RowInput{RowValues: seed}
		}
	case StrategyManual:
		if len(in.Rows) != in.Count {
			return nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowCount, len(in.Rows), in.Count)
		}
		rows = in.Rows
	default:
		return nil, fmt.Errorf("unknown strategy %d", in.Strategy)
	}

	ds := &model.Dataset{Units: make([]model.UnitRecord, 0, len(rows))}
	seen := make(map[string]int, len(rows))

	var result *multierror.Error
	for i, row := range rows {
		id := row.ID
		if id == "" {
			id = b.fleet.IDPrefix + strconv.Itoa(i+1)
		}

		if prev, dup := seen[id]; dup {
			result = multierror.Append(result, fmt.Errorf("%w %d: id %q duplicates row %d", ErrInvalidRow, i+1, id, prev+1))
		}
		seen[id] = i

		if err := checkHours(row.RowValues); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w %d (%s): %w", ErrInvalidRow, i+1, id, err))
		}

		ds.Units = append(ds.Units, model.UnitRecord{
			ID:           id,
			CurrentHours: row.CurrentHours,
			Thresholds:   row.Thresholds,
		})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return ds, nil
}

func checkHours(v RowValues) error {
	if err := checkValue("current hours", v.CurrentHours); err != nil {
		return err
	}
	for _, key := range model.ThresholdKeys {
		if err := checkValue(string(key), v.Thresholds.Value(key)); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s is not a finite number", field)
	}
	if v < 0 {
		return fmt.Errorf("%s must be non-negative, got %g", field, v)
	}
	return nil
}
