package media

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := store.Save(uploadHeader(t, "fern.png", []byte("png-bytes")))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// the stored filename is random, not the client's
	assert.NotContains(t, url, "fern")

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, err := NewStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = store.Save(uploadHeader(t, "script.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveDistinctNamesForSameFile(t *testing.T) {
	store, err := NewStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	first, err := store.Save(uploadHeader(t, "a.jpg", []byte("x")))
	require.NoError(t, err)
	second, err := store.Save(uploadHeader(t, "a.jpg", []byte("x")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
