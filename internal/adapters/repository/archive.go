// Package repository reads and writes prediction archives, labeled datasets
// and CSV exports.
package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/pkg/metrics"
)

// archiveKey is the top-level key of an archive document.
const archiveKey = "numerox_prediction"

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// document is the on-disk layout. Values are aligned to IDs; null marks a
// missing cell.
type document struct {
	Models []string              `json:"models"`
	IDs    []string              `json:"ids"`
	Values map[string][]*float64 `json:"values"`
}

// Save writes t to path, zstd-compressed unless WithCompression(false).
func Save(path string, t *prediction.Table, opts ...Option) (err error) {
	if t.Empty() {
		return ErrEmptyArchive
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save %s: %w", path, cerr)
		}
	}()

	if err := Encode(f, t, opts...); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Encode writes the archive form of t to w.
func Encode(w io.Writer, t *prediction.Table, opts ...Option) error {
	if t.Empty() {
		return ErrEmptyArchive
	}
	o := newOptions(opts)

	bw := bufio.NewWriter(w)
	out := io.Writer(bw)
	var enc *zstd.Encoder
	if o.compress {
		var err error
		enc, err = zstd.NewWriter(bw, zstd.WithEncoderLevel(o.level))
		if err != nil {
			return err
		}
		out = enc
	}

	if err := json.NewEncoder(out).Encode(map[string]document{archiveKey: toDocument(t)}); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads an archive written by Save, compressed or not.
func Load(path string) (*prediction.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Decode reads an archive from r, sniffing for zstd compression.
func Decode(r io.Reader) (*prediction.Table, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	in := io.Reader(br)
	encoding := "json"
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		in = dec
		encoding = "zstd"
	}

	var wrapper map[string]document
	if err := json.NewDecoder(in).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArchive, err)
	}
	doc, ok := wrapper[archiveKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrBadArchive, archiveKey)
	}
	t, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	metrics.RecordArchiveLoad(encoding)
	return t, nil
}

// LoadDir loads every *.ext archive in dir, in file name order, into one
// table. Each archive must hold a single model, which is inserted under the
// file name without its extension.
func LoadDir(ctx context.Context, dir, ext string) (*prediction.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load dir %s: %w", dir, err)
	}
	suffix := "." + strings.TrimPrefix(ext, ".")

	t := prediction.New()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, e.Name())
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), suffix)
		if err := t.InsertTable(name, p); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return t, nil
}

func toDocument(t *prediction.Table) document {
	ids := t.IDs()
	doc := document{Models: t.Names(), IDs: ids, Values: make(map[string][]*float64, len(ids))}
	for _, name := range doc.Models {
		col := make([]*float64, len(ids))
		for i, id := range ids {
			if v, ok := t.Value(name, id); ok {
				col[i] = &v
			}
		}
		doc.Values[name] = col
	}
	return doc
}

func fromDocument(doc document) (*prediction.Table, error) {
	t := prediction.New()
	for _, name := range doc.Models {
		col, ok := doc.Values[name]
		if !ok || len(col) != len(doc.IDs) {
			return nil, fmt.Errorf("%w: model %q has %d values for %d ids", ErrBadArchive, name, len(col), len(doc.IDs))
		}
		b := make(prediction.Batch, len(doc.IDs))
		for i, id := range doc.IDs {
			if col[i] == nil {
				b[id] = math.NaN()
				continue
			}
			b[id] = *col[i]
		}
		if len(b) != len(doc.IDs) {
			return nil, fmt.Errorf("%w: repeated ids", ErrBadArchive)
		}
		if err := t.Insert(name, b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadArchive, err)
		}
	}
	return t, nil
}
