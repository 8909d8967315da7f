package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	in := "  Ada Lovelace  \n\n\n   Staff Engineer\r\n\t\nGo, SQL  "
	assert.Equal(t, "Ada Lovelace\nStaff Engineer\nGo, SQL", CleanText(in))
	assert.Equal(t, "", CleanText(" \n \n"))
}

func TestPDFExtractorMissingFile(t *testing.T) {
	_, err := NewPDFExtractor(nil).ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestPDFExtractorRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0600))

	_, err := NewPDFExtractor(nil).ExtractText(path)
	require.ErrorIs(t, err, ErrInvalidInput)
}
