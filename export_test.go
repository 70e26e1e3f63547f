package sile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/sile"
	"github.com/simonhull/sile/internal/types"
)

func TestSaveRecord(t *testing.T) {
	in := writeFile(t, "TIMES", []byte(timesFile))
	out := filepath.Join(t.TempDir(), "times.tsv")

	err := sile.With(in, func(s sile.Sile) error {
		rec, err := sile.ReadData(s)
		if err != nil {
			return err
		}
		return sile.SaveRecord(out, rec)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"processors\tthreads\troutine\tcalls\tcomm\ttime\timbalance\n"+
			"4\t2\tsiesta\t1\t0.002\t12.5\t12.4\n"+
			"4\t2\thop\t10\t0.01\t0.45\t0.02\n",
		string(data))
}

func TestSaveRecord_InvalidKeepsExisting(t *testing.T) {
	out := writeFile(t, "times.tsv", []byte("previous\n"))

	rec := &sile.Record{
		KeyAxis: "routine",
		Keys:    []string{"a", "a"},
		Columns: []types.Column{{Name: "calls", Kind: types.KindInt, Ints: []int64{1, 2}}},
	}
	require.Error(t, sile.SaveRecord(out, rec))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}
