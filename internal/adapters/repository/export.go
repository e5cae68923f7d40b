package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/okian/numerox/internal/domain/prediction"
)

// WriteCSV writes the predictions of model name as "id,probability" rows
// in id order. Missing cells are skipped.
func WriteCSV(w io.Writer, t *prediction.Table, name string, decimals int) error {
	if !t.Contains(name) {
		return fmt.Errorf("%w: %q", prediction.ErrUnknownModel, name)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "probability"}); err != nil {
		return err
	}
	for _, id := range t.IDs() {
		v, ok := t.Value(name, id)
		if !ok {
			continue
		}
		if err := cw.Write([]string{id, strconv.FormatFloat(v, 'f', decimals, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the CSV export of model name to path.
func SaveCSV(path string, t *prediction.Table, name string, decimals int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export %s: %w", path, cerr)
		}
	}()
	if err := WriteCSV(f, t, name, decimals); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
