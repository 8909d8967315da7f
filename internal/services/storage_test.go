package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewUploadStore(dir, 1024, nil)

	stored, err := store.Save("Resume.PDF", 9, strings.NewReader("%PDF-1.4\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Filename, "cv_"))
	assert.True(t, strings.HasSuffix(stored.Filename, ".pdf"))
	assert.Equal(t, "Resume.PDF", stored.OriginalName)
	assert.Equal(t, int64(9), stored.Size)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\n", string(data))

	require.NoError(t, store.Delete(stored.Filename))
	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadStoreRejects(t *testing.T) {
	store := NewUploadStore(t.TempDir(), 8, nil)

	_, err := store.Save("cv.docx", 3, strings.NewReader("abc"))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Save("cv.pdf", 100, strings.NewReader("abc"))
	require.ErrorIs(t, err, ErrInvalidInput)

	// Declared size is small but the body is not.
	_, err = store.Save("cv.pdf", 4, bytes.NewReader(make([]byte, 64)))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadStorePathStaysInDir(t *testing.T) {
	store := NewUploadStore("/srv/uploads", 0, nil)
	assert.Equal(t, filepath.Join("/srv/uploads", "passwd"), store.Path("../../etc/passwd"))
}
