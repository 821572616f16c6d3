// Package storage writes uploaded question and answer images to disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the path stored on rows, relative to the static root.
const PublicPrefix = "images"

var (
	ErrNotImage = errors.New("uploaded file is not an image")
	ErrTooLarge = errors.New("uploaded file is too large")
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ImageStore saves images under Dir, which is served as /static/images.
type ImageStore struct {
	dir      string
	maxBytes int64
}

func NewImageStore(dir string, maxBytes int64) *ImageStore {
	return &ImageStore{dir: dir, maxBytes: maxBytes}
}

// Save validates and stores an upload and returns the "images/<name>" path.
//
// The content type is sniffed from the bytes, the client supplied name is
// reduced to a safe base name and prefixed with a random id.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	name := uuid.NewString() + "_" + SanitizeFilename(filename, mtype.Extension())

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a stored image. Empty paths and missing files are not errors.
func (s *ImageStore) Remove(stored string) error {
	if stored == "" {
		return nil
	}

	name := path.Base(stored)
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image %s: %w", name, err)
	}
	return nil
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-]. fallbackExt is used when nothing usable remains.
func SanitizeFilename(filename, fallbackExt string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")

	if base == "" {
		return "image" + fallbackExt
	}
	return base
}
