package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLastStartxrefOffset(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "pdflayer-*.pdf")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("%PDF-1.7\n...\nstartxref\n1234\n%%EOF\n")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	offset, err := findLastStartxrefOffset(f)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, offset)
}

func TestFindLastStartxrefOffset_TakesLastMatch(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "pdflayer-*.pdf")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("startxref\n1\n%%EOF\n...\nstartxref\n9999\n%%EOF\n")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	offset, err := findLastStartxrefOffset(f)
	require.NoError(t, err)
	assert.EqualValues(t, 9999, offset)
}

func TestFindLastStartxrefOffset_MissingKeyword(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "pdflayer-*.pdf")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("%PDF-1.7\nno xref here\n")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	_, err = findLastStartxrefOffset(f)
	assert.Error(t, err)
}
