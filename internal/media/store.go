package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadBytes caps a single upload at 10 MiB.
const MaxUploadBytes = 10 << 20

var (
	// ErrUnsupportedType is returned for file extensions outside the
	// image allow-list.
	ErrUnsupportedType = errors.New("media: unsupported file type")
	// ErrTooLarge is returned when the upload exceeds MaxUploadBytes.
	ErrTooLarge = errors.New("media: file too large")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Store writes uploads to a local directory and serves them back under a
// public base URL. Filenames are random so uploads never collide or leak
// the original name.
type Store struct {
	dir     string
	baseURL string
}

// NewStore ensures the upload directory exists and returns a Store.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save persists an uploaded file and returns its public URL.
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxUploadBytes+1)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

// Dir returns the directory uploads are written to, for static serving.
func (s *Store) Dir() string {
	return s.dir
}
