package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataset(t *testing.T) {
	body := "era,id,target,region,feature1\n" +
		"era1,a,1,validation,0.3\n" +
		"era1,b,0,validation,0.1\n" +
		"era2,c,1,test,0.9\n"

	d, err := ReadDataset(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	assert.Equal(t, "a", d.Rows[0].ID)
	assert.Equal(t, "era1", d.Rows[0].Era)
	assert.Equal(t, "validation", d.Rows[0].Region)
	assert.Equal(t, 1.0, d.Rows[0].Target)
	assert.Equal(t, []string{"era1", "era2"}, d.Eras())
	assert.Equal(t, []string{"validation", "test"}, d.Regions())
}

func TestReadDatasetErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "id,era,target\na,era1,1\n",
		"bad target":     "id,era,region,target\na,era1,train,yes\n",
		"repeated id":    "id,era,region,target\na,era1,train,1\na,era1,train,0\n",
		"empty id":       "id,era,region,target\n,era1,train,1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(body))
			require.ErrorIs(t, err, ErrBadDataset)
		})
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,era,region,target\na,era1,train,1\n"), 0o600))

	d, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	_, err = LoadDataset(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
