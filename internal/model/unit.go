package model

// ThresholdKey names one of the fixed maintenance intervals.
type ThresholdKey string

const (
	ThresholdCI   ThresholdKey = "CI"
	ThresholdHGPI ThresholdKey = "HGPI"
	ThresholdMI   ThresholdKey = "MI"
	ThresholdRLE  ThresholdKey = "RLE"
)

// ThresholdKeys lists the thresholds in their declared order.
var ThresholdKeys = [...]ThresholdKey{ThresholdCI, ThresholdHGPI, ThresholdMI, ThresholdRLE}

// Thresholds holds the maintenance interval hours of one unit.
type Thresholds struct {
	CI   float64 `json:"ci"`
	HGPI float64 `json:"hgpi"`
	MI   float64 `json:"mi"`
	RLE  float64 `json:"rle"`
}

func (t Thresholds) Value(key ThresholdKey) float64 {
	switch key {
	case ThresholdCI:
		return t.CI
	case ThresholdHGPI:
		return t.HGPI
	case ThresholdMI:
		return t.MI
	case ThresholdRLE:
		return t.RLE
	default:
		return 0
	}
}

type UnitRecord struct {
	ID           string     `json:"id"`
	CurrentHours float64    `json:"current_hours"`
	Thresholds   Thresholds `json:"thresholds"`
}
