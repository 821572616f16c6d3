package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func TestImageStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 1<<20)

	stored, err := store.Save("../../etc/cat picture.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored, PublicPrefix+"/"))
	assert.True(t, strings.HasSuffix(stored, "_cat_picture.png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(stored)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestImageStore_SaveRejectsNonImages(t *testing.T) {
	store := NewImageStore(t.TempDir(), 1<<20)

	_, err := store.Save("notes.png", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestImageStore_SaveRejectsLargeFiles(t *testing.T) {
	store := NewImageStore(t.TempDir(), 16)

	_, err := store.Save("big.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestImageStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 1<<20)

	stored, err := store.Save("a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.NoError(t, store.Remove(stored))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(stored)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove(stored), "removing twice is not an error")
	assert.NoError(t, store.Remove(""))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":               "photo.jpg",
		"../../secret.png":        "secret.png",
		`C:\Users\me\shot 1.png`: "shot_1.png",
		"..":                      "image.png",
		"":                        "image.png",
	}

	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in, ".png"), "input %q", in)
	}
}
