package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Store persists proof-of-delivery images and hands back the URL the outcome
// row references. The backing store is a local media directory served under
// /media/; swapping in an object-storage provider only means another Store.
type Store interface {
	SaveProofImage(c *fiber.Ctx, file *multipart.FileHeader, awbNo string) (string, error)
}

type MediaStore struct {
	root string
}

// NewMediaStore ensures the media root exists. MEDIA_ROOT defaults to ./media.
func NewMediaStore() (*MediaStore, error) {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "media"
	}
	if err := os.MkdirAll(filepath.Join(root, "pod"), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &MediaStore{root: root}, nil
}

func (m *MediaStore) Root() string {
	return m.root
}

func (m *MediaStore) SaveProofImage(c *fiber.Ctx, file *multipart.FileHeader, awbNo string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%s_%s_%s%s", awbNo, time.Now().Format("20060102"), uuid.NewString()[:8], ext)
	if err := c.SaveFile(file, filepath.Join(m.root, "pod", name)); err != nil {
		return "", fmt.Errorf("save proof image: %w", err)
	}
	return "/media/pod/" + name, nil
}
