package repository

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, "m2", 3))
	assert.Equal(t, "id,probability\nb,0.700\nd,0.400\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, tbl, "m1", 6))
	assert.Equal(t, "id,probability\na,0.100000\nb,0.200000\n", buf.String())
}

func TestWriteCSVUnknownModel(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleTable(t), "ghost", 6)
	require.ErrorIs(t, err, prediction.ErrUnknownModel)
	assert.Zero(t, buf.Len())
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m1.csv")
	require.NoError(t, SaveCSV(path, sampleTable(t), "m1", 2))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,probability\na,0.10\nb,0.20\n", string(raw))
}
