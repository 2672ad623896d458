package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2dash/pkg/sentinel"
)

func TestRenderCommand(t *testing.T) {
	out := t.TempDir()
	rootCmd.SetArgs([]string{"render", "--csv", "pkg/dataset/testdata/co2.csv", "--out", out, "--year", "2019", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{"top10_2019.png", "scatter_2019.png", "co2_2019.xlsx", "co2_2019.md"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	_, err := os.Stat(filepath.Join(out, "map_2019.png"))
	assert.True(t, os.IsNotExist(err), "no map without a gazetteer")
}

func TestRenderCommand_InvalidSelection(t *testing.T) {
	rootCmd.SetArgs([]string{"render", "--csv", "pkg/dataset/testdata/co2.csv", "--out", t.TempDir(), "--year", "2019", "--x", "co2_per_capita", "--log-level", "error"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, sentinel.ErrInvalidSelection)
}

func TestRenderCommand_ExplicitAbsentYear(t *testing.T) {
	out := t.TempDir()
	rootCmd.SetArgs([]string{"render", "--csv", "pkg/dataset/testdata/co2.csv", "--out", out, "--year", "0", "--x", "", "--log-level", "error"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, sentinel.ErrInvalidSelection)

	_, statErr := os.Stat(filepath.Join(out, "top10_0.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderCommand_MissingData(t *testing.T) {
	rootCmd.SetArgs([]string{"render", "--csv", filepath.Join(t.TempDir(), "none.csv"), "--year", "0", "--x", "", "--log-level", "error"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, sentinel.ErrDataUnavailable)
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestCloseAfter(t *testing.T) {
	flush := errors.New("flush failed")
	write := errors.New("write failed")

	c := &closer{err: flush}
	assert.ErrorIs(t, closeAfter(c, nil), flush)
	assert.True(t, c.closed)

	c = &closer{err: flush}
	assert.ErrorIs(t, closeAfter(c, write), write)
	assert.True(t, c.closed)

	c = &closer{}
	assert.NoError(t, closeAfter(c, nil))
}
