// Package model contains domain models passed between layers.
package model

// Row is one labeled observation from the tournament dataset.
type Row struct {
	ID     string  // row identifier, shared with prediction tables
	Era    string  // temporal partition, e.g. "era42"
	Region string  // data subset, e.g. "train", "validation"
	Target float64 // binary label stored as 0 or 1
}

// Dataset is an ordered collection of labeled rows.
type Dataset struct {
	Rows []Row
}

// NewDataset wraps rows in a Dataset.
func NewDataset(rows []Row) *Dataset {
	return &Dataset{Rows: rows}
}

// Len returns the number of rows; a nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Eras returns the distinct eras in order of first appearance.
func (d *Dataset) Eras() []string {
	return d.distinct(func(r Row) string { return r.Era })
}

// Regions returns the distinct regions in order of first appearance.
func (d *Dataset) Regions() []string {
	return d.distinct(func(r Row) string { return r.Region })
}

func (d *Dataset) distinct(key func(Row) string) []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.Rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
