package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/eohchart/internal/model"
)

func threeUnits(t *testing.T) *model.Dataset {
	t.Helper()
	rows := make([]RowInput, 3)
	for i, h := range []float64{5000, 6000, 7000} {
		rows[i] = RowInput{RowValues: RowValues{
			CurrentHours: h,
			Thresholds:   model.Thresholds{CI: 12000, HGPI: 32000, MI: 64000, RLE: 200000},
		}}
	}
	ds, err := newTestBuilder().Build(Input{Strategy: StrategyManual, Count: 3, Rows: rows})
	require.NoError(t, err)
	return ds
}

func TestAddExtraColumn(t *testing.T) {
	ds := threeUnits(t)

	out, err := AddExtraColumn(ds, " Inspection ", "1000, 2000,3000")
	require.NoError(t, err)

	require.NotNil(t, out.Extra)
	assert.Equal(t, "Inspection", out.Extra.Name)
	assert.Equal(t, []float64{1000, 2000, 3000}, out.Extra.Values)
	assert.Nil(t, ds.Extra, "input dataset must not change")
	assert.Equal(t, ds.Units, out.Units)
}

func TestAddExtraColumnIdempotent(t *testing.T) {
	ds := threeUnits(t)

	first, err := AddExtraColumn(ds, "Inspection", "1000,2000,3000")
	require.NoError(t, err)
	second, err := AddExtraColumn(first, "Inspection", "1000,2000,3000")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAddExtraColumnReplaces(t *testing.T) {
	ds := threeUnits(t)

	first, err := AddExtraColumn(ds, "A", "1,2,3")
	require.NoError(t, err)
	second, err := AddExtraColumn(first, "B", "4,5,6")
	require.NoError(t, err)

	assert.Equal(t, "B", second.Extra.Name)
	assert.Equal(t, "A", first.Extra.Name)
}

func TestAddExtraColumnParseError(t *testing.T) {
	for _, raw := range []string{"1,2,abc", "1000,x,3000", "1,,3", "1,NaN,3", "1,2,inf"} {
		ds := threeUnits(t)
		before := ds.Clone()

		out, err := AddExtraColumn(ds, "Bad", raw)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrParse, raw)

		var pe *ParseError
		require.True(t, errors.As(err, &pe), raw)
		assert.Equal(t, before, ds, raw)
	}
}

func TestAddExtraColumnParseErrorPosition(t *testing.T) {
	_, err := AddExtraColumn(threeUnits(t), "Bad", "1000,x,3000")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Index)
	assert.Equal(t, "x", pe.Token)
}

func TestAddExtraColumnCardinalityError(t *testing.T) {
	for _, raw := range []string{"1,2", "1,2,3,4", "7"} {
		ds := threeUnits(t)
		before := ds.Clone()

		_, err := AddExtraColumn(ds, "Short", raw)
		assert.ErrorIs(t, err, ErrCardinality, raw)

		var ce *CardinalityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 3, ce.Want)
		assert.Equal(t, before, ds)
	}
}

func TestAddExtraColumnName(t *testing.T) {
	ds := threeUnits(t)

	for _, name := range []string{"", "   ", "ci", "Current EOH", "GT"} {
		_, err := AddExtraColumn(ds, name, "1,2,3")
		assert.ErrorIs(t, err, ErrColumnName, name)
	}
	assert.Nil(t, ds.Extra)
}

func TestParseValuesNegativeAllowed(t *testing.T) {
	values, err := ParseValues("-1, 2.5,3e3")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 2.5, 3000}, values)
}

func TestAddExtraColumnNilDataset(t *testing.T) {
	ds, err := AddExtraColumn(nil, "Fired Starts", "1, 2, 3")
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.Nil(t, ds)
}
