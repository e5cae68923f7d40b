package prediction

import (
	"fmt"
	"math"
	"slices"
)

// Insert adds the predictions of model name to the table. Non-finite
// values add their id to the universe and leave the cell missing.
//
//   - empty table: the table becomes this single column;
//   - new model: outer join on id, cells absent on either side are missing;
//   - existing model: the batch may only fill missing cells. Any id that
//     already holds a value fails with ErrDuplicateID and the table is left
//     untouched.
func (t *Table) Insert(name string, b Batch) error {
	ids := make([]string, 0, len(b))
	col := make(map[string]float64, len(b))
	for id, v := range b {
		ids = append(ids, id)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		col[id] = v
	}
	return t.insert(name, ids, col)
}

// InsertArrays adds the parallel slices ids and yhat as model name.
func (t *Table) InsertArrays(name string, ids []string, yhat []float64) error {
	if len(ids) != len(yhat) {
		return fmt.Errorf("%w: %d ids but %d predictions", ErrDimension, len(ids), len(yhat))
	}
	b := make(Batch, len(ids))
	var repeated []string
	for i, id := range ids {
		if _, ok := b[id]; ok {
			repeated = append(repeated, id)
			continue
		}
		b[id] = yhat[i]
	}
	if len(repeated) > 0 {
		return duplicateIDError("", repeated)
	}
	return t.Insert(name, b)
}

// InsertTable adds the only column of p under name, whatever p calls it.
func (t *Table) InsertTable(name string, p *Table) error {
	if p == nil || len(p.names) != 1 {
		_, models := p.Shape()
		return fmt.Errorf("%w: got %d", ErrDimension, models)
	}
	return t.insert(name, p.ids, p.cols[p.names[0]])
}

// Merge adds the single column of p under its own name.
func (t *Table) Merge(p *Table) error {
	if p == nil || len(p.names) != 1 {
		_, models := p.Shape()
		return fmt.Errorf("%w: got %d", ErrDimension, models)
	}
	return t.InsertTable(p.names[0], p)
}

func (t *Table) insert(name string, ids []string, col map[string]float64) error {
	if name == "" {
		return ErrEmptyName
	}
	if t.cols == nil {
		t.cols = make(map[string]map[string]float64)
	}

	switch prev, exists := t.cols[name]; {
	case t.Empty():
		t.names = []string{name}
		t.cols[name] = cloneColumn(col)
		t.ids = nil
	case !exists:
		t.names = append(t.names, name)
		t.cols[name] = cloneColumn(col)
	default:
		// Checked before anything is written.
		if dup := overlap(prev, col); len(dup) > 0 {
			return duplicateIDError(name, dup)
		}
		merged := cloneColumn(prev)
		for id, v := range col {
			merged[id] = v
		}
		t.cols[name] = merged
	}
	t.extend(ids)
	return nil
}

// extend adds ids missing from the universe and keeps it sorted.
func (t *Table) extend(ids []string) {
	var fresh []string
	for _, id := range ids {
		if _, found := slices.BinarySearch(t.ids, id); !found {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return
	}
	t.ids = append(t.ids, fresh...)
	slices.Sort(t.ids)
	t.ids = slices.Compact(t.ids)
}

// overlap returns the sorted ids that carry a value in both columns.
func overlap(a, b map[string]float64) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	var out []string
	for id := range a {
		if _, ok := b[id]; ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
