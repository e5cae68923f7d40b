package prediction

import (
	"slices"
)

// Concat stacks the rows of tables. Ids must not repeat across inputs,
// otherwise ErrDuplicateID is returned. Columns are the union of the
// inputs' models in first-seen order.
func Concat(tables ...*Table) (*Table, error) {
	owner := make(map[string]int)
	var dup []string
	for i, p := range tables {
		if p == nil {
			continue
		}
		for _, id := range p.ids {
			if j, ok := owner[id]; ok && j != i {
				dup = append(dup, id)
				continue
			}
			owner[id] = i
		}
	}
	if len(dup) > 0 {
		slices.Sort(dup)
		return nil, duplicateIDError("", slices.Compact(dup))
	}

	out := &Table{cols: make(map[string]map[string]float64)}
	for _, p := range tables {
		if p == nil {
			continue
		}
		for _, name := range p.names {
			col, ok := out.cols[name]
			if !ok {
				col = make(map[string]float64)
				out.cols[name] = col
				out.names = append(out.names, name)
			}
			for id, v := range p.cols[name] {
				col[id] = v
			}
		}
		out.extend(p.ids)
	}
	return out, nil
}
