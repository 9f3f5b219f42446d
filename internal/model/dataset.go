package model

// ExtraColumn is the optional user-named series shared by all units.
// Values is parallel to Dataset.Units.
type ExtraColumn struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type Dataset struct {
	Units []UnitRecord `json:"units"`
	Extra *ExtraColumn `json:"extra,omitempty"`
}

func (d *Dataset) Len() int {
	return len(d.Units)
}

func (d *Dataset) HasExtra() bool {
	return d.Extra != nil
}

// IDs returns the unit identifiers in dataset order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Units))
	for i, u := range d.Units {
		ids[i] = u.ID
	}
	return ids
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Units: make([]UnitRecord, len(d.Units))}
	copy(out.Units, d.Units)
	if d.Extra != nil {
		out.Extra = &ExtraColumn{
			Name:   d.Extra.Name,
			Values: append([]float64(nil), d.Extra.Values...),
		}
	}
	return out
}
