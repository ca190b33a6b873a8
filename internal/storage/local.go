package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore persists uploaded product images and hands back the relative URL
// stored on the product row.
type FileStore interface {
	Save(r io.Reader, filename string) (string, error)
	Remove(relURL string) error
}

type localStore struct{ dir string }

// NewLocalStore creates the upload directory if needed and returns a store
// that writes files under it. Saved files are served via /uploads/.
func NewLocalStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(r io.Reader, filename string) (string, error) {
	name := uuid.NewString() + filepath.Ext(filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return "/uploads/" + name, nil
}

// Remove deletes the file behind a stored relative URL. Only the base name
// is used, so a corrupted URL cannot escape the upload directory.
func (s *localStore) Remove(relURL string) error {
	name := path.Base(relURL)
	if name == "" || name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
