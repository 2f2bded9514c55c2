package uploader

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

// MaxFileSize is the per-file upload limit.
const MaxFileSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var ErrNotAnImage = errors.New("only image files are allowed")
var ErrFileTooLarge = errors.New("file exceeds the 5MB limit")

// DiskUploader stores uploaded images on the local filesystem. Stored names
// are unique; the returned path is the public /uploads path the catalog
// serves statically.
type DiskUploader struct {
	dir string
}

// NewDiskUploader creates the upload directory if needed.
func NewDiskUploader(dir string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskUploader{dir: dir}, nil
}

// Save writes one multipart file to disk under a unique name and returns its
// public path.
func (u *DiskUploader) Save(fileHeader *multipart.FileHeader, field string) (string, error) {
	if fileHeader.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	// Both the extension and the declared media type must look like an
	// image; a renamed non-image fails one or the other.
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", ErrNotAnImage
	}

	if ct := fileHeader.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return "", ErrNotAnImage
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}
