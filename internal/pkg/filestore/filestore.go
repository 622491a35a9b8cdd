package filestore

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Store persists proof-of-payment uploads under a local directory and
// hands back opaque file IDs. Nothing outside this package knows the
// on-disk layout; records carry only the ID.
type Store struct {
	dir string
}

// New creates the upload directory if missing and returns a store
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// allowed proof-of-payment extensions
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// MaxUploadSize caps proof uploads at 5 MB
const MaxUploadSize = 5 << 20

// Save streams an uploaded file to disk under a uuid name and returns
// the opaque file ID
func (s *Store) Save(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", file.Size, MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	fileID := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(s.dir, fileID)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return fileID, nil
}

// Path resolves a file ID to its on-disk path, rejecting IDs that
// try to escape the upload directory
func (s *Store) Path(fileID string) (string, error) {
	if fileID == "" || fileID != filepath.Base(fileID) {
		return "", fmt.Errorf("invalid file id")
	}
	p := filepath.Join(s.dir, fileID)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}
