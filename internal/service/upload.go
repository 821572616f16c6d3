package service

import (
	"io"

	"github.com/deppfellow/askmate/internal/lib/storage"
)

// ImageUpload is an optional file posted with a question or answer.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// saveImage stores upload and returns the path kept on the row, or "" when
// nothing was uploaded.
func saveImage(images *storage.ImageStore, upload *ImageUpload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", nil
	}
	stored, err := images.Save(upload.Filename, upload.Content)
	if err != nil {
		return "", translate(err, "image")
	}
	return stored, nil
}
