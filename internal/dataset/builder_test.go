package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/eohchart/internal/config"
	"github.com/speedwagon-io/eohchart/internal/model"
)

func newTestBuilder() *Builder {
	return NewBuilder(config.DefaultFleet())
}

func TestBuildDefaultsAcrossBounds(t *testing.T) {
	b := newTestBuilder()
	lo, hi := b.Bounds()

	for n := lo; n <= hi; n++ {
		ds, err := b.Build(Input{Strategy: StrategyDefaults, Count: n})
		require.NoError(t, err)
		require.Len(t, ds.Units, n)

		ids := make(map[string]struct{}, n)
		for _, u := range ds.Units {
			assert.NotEmpty(t, u.ID)
			ids[u.ID] = struct{}{}
			assert.Equal(t, model.Thresholds{CI: 12000, HGPI: 32000, MI: 64000, RLE: 200000}, u.Thresholds)
			assert.Equal(t, 5000.0, u.CurrentHours)
		}
		assert.Len(t, ids, n)
		assert.Nil(t, ds.Extra)
	}
}

func TestBuildDefaultsLabels(t *testing.T) {
	ds, err := newTestBuilder().Build(Input{Strategy: StrategyDefaults, Count: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"GT1", "GT2", "GT3"}, ds.IDs())
}

func TestBuildDefaultsOverride(t *testing.T) {
	seed := RowValues{CurrentHours: 100, Thresholds: model.Thresholds{CI: 1, HGPI: 2, MI: 3, RLE: 4}}
	ds, err := newTestBuilder().Build(Input{Strategy: StrategyDefaults, Count: 2, Defaults: &seed})
	require.NoError(t, err)

	for _, u := range ds.Units {
		assert.Equal(t, 100.0, u.CurrentHours)
		assert.Equal(t, seed.Thresholds, u.Thresholds)
	}
}

func TestBuildCountOutOfRange(t *testing.T) {
	b := newTestBuilder()
	for _, n := range []int{0, -1, 21} {
		_, err := b.Build(Input{Strategy: StrategyDefaults, Count: n})
		assert.ErrorIs(t, err, ErrUnitCount, "count %d", n)
	}
}

func TestBuildManual(t *testing.T) {
	rows := []RowInput{
		{ID: "Alpha", RowValues: RowValues{CurrentHours: 5000, Thresholds: model.Thresholds{CI: 1, HGPI: 2, MI: 3, RLE: 4}}},
		{RowValues: RowValues{CurrentHours: 6000}},
	}

	ds, err := newTestBuilder().Build(Input{Strategy: StrategyManual, Count: 2, Rows: rows})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "GT2"}, ds.IDs())
	assert.Equal(t, 6000.0, ds.Units[1].CurrentHours)
	assert.Equal(t, 4.0, ds.Units[0].Thresholds.RLE)
}

func TestBuildManualRowCountMismatch(t *testing.T) {
	_, err := newTestBuilder().Build(Input{Strategy: StrategyManual, Count: 3, Rows: make([]RowInput, 2)})
	assert.ErrorIs(t, err, ErrRowCount)
}

func TestBuildManualCollectsRowErrors(t *testing.T) {
	rows := []RowInput{
		{ID: "GT1", RowValues: RowValues{CurrentHours: -5}},
		{ID: "GT1"},
		{ID: "GT3", RowValues: RowValues{Thresholds: model.Thresholds{MI: math.NaN()}}},
	}

	_, err := newTestBuilder().Build(Input{Strategy: StrategyManual, Count: 3, Rows: rows})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRow)
	assert.Contains(t, err.Error(), "current hours must be non-negative")
	assert.Contains(t, err.Error(), "duplicates row 1")
	assert.Contains(t, err.Error(), "MI is not a finite number")
}

func TestBuildUnknownStrategy(t *testing.T) {
	_, err := newTestBuilder().Build(Input{Strategy: Strategy(7), Count: 1})
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyDefaults, s)

	s, err = ParseStrategy("manual")
	require.NoError(t, err)
	assert.Equal(t, StrategyManual, s)
	assert.Equal(t, "manual", s.String())

	_, err = ParseStrategy("bulk")
	assert.Error(t, err)
}

func TestParseErrorIs(t *testing.T) {
	err := error(&ParseError{Index: 0, Token: "x", Err: errors.New("bad")})
	assert.ErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrCardinality)
}
