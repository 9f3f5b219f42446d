package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/speedwagon-io/eohchart/internal/model"
)

// reservedColumns are the fixed table columns an extra column may not shadow.
var reservedColumns = [...]string{"GT", "ID", "Current EOH", "CI", "HGPI", "MI", "RLE"}

// AddExtraColumn returns a copy of ds with a column named name holding the
// values parsed from raw, a comma-delimited list. It replaces any extra
// column ds already has. ds itself is never modified.
func AddExtraColumn(ds *model.Dataset, name, raw string) (*model.Dataset, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}

	name = strings.TrimSpace(name)
	if err := checkColumnName(name); err != nil {
		return nil, err
	}

	values, err := ParseValues(raw)
	if err != nil {
		return nil, err
	}

	if len(values) != ds.Len() {
		return nil, &CardinalityError{Got: len(values), Want: ds.Len()}
	}

	out := ds.Clone()
	out.Extra = &model.ExtraColumn{Name: name, Values: values}
	return out, nil
}

// ParseValues parses a comma-delimited list of finite numbers.
func ParseValues(raw string) ([]float64, error) {
	tokens := strings.Split(raw, ",")
	values := make([]float64, 0, len(tokens))

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Index: i, Token: tok, Err: errors.New("not a finite number")}
		}
		values = append(values, v)
	}

	return values, nil
}

func checkColumnName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrColumnName)
	}
	for _, r := range reservedColumns {
		if strings.EqualFold(name, r) {
			return fmt.Errorf("%w: %q is a fixed column", ErrColumnName, name)
		}
	}
	return nil
}
