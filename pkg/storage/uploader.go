package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotImage is returned for files whose extension is not an accepted image type.
var ErrNotImage = errors.New("only image files are allowed")

// Uploader stores an object and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImage reports whether filename has one of the accepted image extensions.
func IsImage(filename string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ContentType guesses the MIME type from the extension, falling back to the declared one.
func ContentType(filename, declared string) string {
	if ct, ok := imageExts[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

// BuildPath returns a collision-free object key "<kind>/<uuid><ext>".
// The original filename never reaches the key.
func BuildPath(kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(kind, uuid.NewString()+ext)
}
