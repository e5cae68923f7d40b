// Package prediction holds model predictions aligned on a shared row
// identifier index.
//
// A Table is a set of named model columns. Every column spans the same
// identifier universe (the union of all ids ever inserted); a cell either
// holds a value or is missing. Tables only grow through Insert and its
// variants; sub-selection always returns a new Table.
package prediction

import (
	"iter"
	"math"
	"slices"
)

// Batch is a set of predictions from a single model keyed by row id.
// A NaN or infinite value marks the id as present but missing.
type Batch map[string]float64

// Table is an ordered set of model columns over a shared, sorted id index.
// The zero value is an empty table ready for use. A Table is not safe for
// concurrent mutation; readers must not overlap with Insert.
type Table struct {
	names []string
	ids   []string                      // sorted identifier universe
	cols  map[string]map[string]float64 // model -> id -> value; absent means missing
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// FromBatch builds a single-model table.
func FromBatch(name string, b Batch) (*Table, error) {
	t := New()
	if err := t.Insert(name, b); err != nil {
		return nil, err
	}
	return t, nil
}

// Names returns model names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

// IDs returns the identifier universe in sorted order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.ids)
}

// Contains reports whether the table has a column called name.
func (t *Table) Contains(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cols[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

// Shape returns (rows, models).
func (t *Table) Shape() (int, int) {
	if t == nil {
		return 0, 0
	}
	return len(t.ids), len(t.names)
}

// Size returns the number of cells, missing ones included.
func (t *Table) Size() int {
	rows, models := t.Shape()
	return rows * models
}

// Empty reports whether the table has no models.
func (t *Table) Empty() bool {
	return t == nil || len(t.names) == 0
}

// Value returns the prediction of model name for id; ok is false when the
// cell is missing or either key is unknown.
func (t *Table) Value(name, id string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.cols[name][id]
	return v, ok
}

// Column returns the predictions of name aligned to IDs, NaN where missing.
func (t *Table) Column(name string) ([]float64, error) {
	if !t.Contains(name) {
		return nil, unknownModelError(name)
	}
	col := t.cols[name]
	out := make([]float64, len(t.ids))
	for i, id := range t.ids {
		v, ok := col[id]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// Batch returns the non-missing predictions of name.
func (t *Table) Batch(name string) (Batch, error) {
	if !t.Contains(name) {
		return nil, unknownModelError(name)
	}
	out := make(Batch, len(t.cols[name]))
	for id, v := range t.cols[name] {
		out[id] = v
	}
	return out, nil
}

// Missing counts the missing cells of name.
func (t *Table) Missing(name string) int {
	if !t.Contains(name) {
		return 0
	}
	return len(t.ids) - len(t.cols[name])
}

// Model returns a single-model view of name over the full id universe.
func (t *Table) Model(name string) (*Table, error) {
	return t.Models([]string{name})
}

// Models returns a view restricted to names, in the given order. Repeated
// names are kept once.
func (t *Table) Models(names []string) (*Table, error) {
	out := &Table{cols: make(map[string]map[string]float64, len(names))}
	for _, name := range names {
		if !t.Contains(name) {
			return nil, unknownModelError(name)
		}
		if _, ok := out.cols[name]; ok {
			continue
		}
		out.names = append(out.names, name)
		out.cols[name] = cloneColumn(t.cols[name])
	}
	if len(out.names) > 0 {
		out.ids = slices.Clone(t.ids)
	}
	return out, nil
}

// ByIDs returns a view restricted to rows whose id is in ids. Unknown ids
// are ignored.
func (t *Table) ByIDs(ids []string) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for _, id := range t.ids {
		if _, ok := keep[id]; ok {
			out.ids = append(out.ids, id)
		}
	}
	out.names = slices.Clone(t.names)
	out.cols = make(map[string]map[string]float64, len(t.names))
	for _, name := range t.names {
		col := make(map[string]float64)
		for id, v := range t.cols[name] {
			if _, ok := keep[id]; ok {
				col[id] = v
			}
		}
		out.cols[name] = col
	}
	return out
}

// Iter yields one single-model table per column in Names order. Each call
// walks the table as it is at that moment.
func (t *Table) Iter() iter.Seq[*Table] {
	return func(yield func(*Table) bool) {
		for _, name := range t.Names() {
			m, err := t.Model(name)
			if err != nil {
				return
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	out.names = slices.Clone(t.names)
	out.ids = slices.Clone(t.ids)
	out.cols = make(map[string]map[string]float64, len(t.cols))
	for name, col := range t.cols {
		out.cols[name] = cloneColumn(col)
	}
	return out
}

// CompleteRows returns the ids for which every model has a value.
func (t *Table) CompleteRows() []string {
	if t.Empty() {
		return nil
	}
	var out []string
	for _, id := range t.ids {
		complete := true
		for _, name := range t.names {
			if _, ok := t.cols[name][id]; !ok {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, id)
		}
	}
	return out
}

func cloneColumn(col map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(col))
	for id, v := range col {
		out[id] = v
	}
	return out
}
