// Package imagestore decodes base64 data-URI images from recipe payloads
// and stores them as bounded-size JPEGs on disk.
package imagestore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxDimension bounds the stored image on its longer side.
const maxDimension = 1280

// Store writes uploaded images under a media directory.
type Store struct {
	dir    string
	logger *logrus.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SaveDataURI decodes a "data:image/...;base64," payload, shrinks it to fit
// maxDimension, and writes it as a JPEG. It returns the relative path the
// image is served from.
func (s *Store) SaveDataURI(dataURI string) (string, error) {
	payload, err := stripDataURIHeader(dataURI)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(s.dir, name)
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.WithField("path", path).Debug("Stored recipe image")
	return "/media/" + name, nil
}

func stripDataURIHeader(dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", fmt.Errorf("not an image data URI")
	}
	idx := strings.Index(dataURI, ";base64,")
	if idx < 0 {
		return "", fmt.Errorf("data URI is not base64 encoded")
	}
	return dataURI[idx+len(";base64,"):], nil
}
