package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/pkg/metrics"
)

// datasetColumns are the required dataset header fields.
var datasetColumns = []string{"id", "era", "region", "target"}

// LoadDataset reads a labeled CSV dataset from path.
func LoadDataset(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return d, nil
}

// ReadDataset parses a CSV with a header naming at least id, era, region and
// target, in any order. Extra columns are ignored.
func ReadDataset(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadDataset, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(datasetColumns))
	for i, name := range datasetColumns {
		j, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadDataset, name)
		}
		cols[i] = j
	}

	seen := make(map[string]struct{})
	var rows []model.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDataset, err)
		}
		id := rec[cols[0]]
		if id == "" {
			return nil, fmt.Errorf("%w: line %d: empty id", ErrBadDataset, line)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: line %d: repeated id %q", ErrBadDataset, line, id)
		}
		seen[id] = struct{}{}
		target, err := strconv.ParseFloat(rec[cols[3]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: target: %w", ErrBadDataset, line, err)
		}
		rows = append(rows, model.Row{ID: id, Era: rec[cols[1]], Region: rec[cols[2]], Target: target})
	}

	metrics.UpdateDatasetRows(len(rows))
	return model.NewDataset(rows), nil
}
