// Package blob persists reading images and returns durable URLs for them.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// ErrInvalidPath is returned for empty, absolute or escaping object paths.
var ErrInvalidPath = errors.New("invalid blob path")

// Store uploads a base64 data URL to an object path and returns its URL.
type Store interface {
	Put(ctx context.Context, objectPath, dataURL string) (string, error)
}

// Owner is implemented by stores that can recognize their own URLs.
type Owner interface {
	Owns(url string) bool
}

// ObjectPath builds "{kind}s/{userID}/{unixMillis}_{slot}.jpg".
func ObjectPath(kind domain.Kind, userID string, ts time.Time, slot domain.Slot) string {
	return fmt.Sprintf("%s/%s/%d_%s.jpg", kind.BlobPrefix(), userID, ts.UnixMilli(), slot)
}

// FSStore writes objects under Root and serves them from BaseURL.
type FSStore struct {
	Root    string
	BaseURL string
}

// NewFSStore creates root if needed.
func NewFSStore(root, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put decodes dataURL and writes it atomically under Root.
func (s *FSStore) Put(ctx context.Context, objectPath, dataURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	return s.BaseURL + "/" + clean, nil
}

// Owns reports whether u is a URL this store returned from Put.
func (s *FSStore) Owns(u string) bool {
	rest, ok := strings.CutPrefix(u, s.BaseURL+"/")
	if !ok {
		return false
	}
	_, err := cleanPath(rest)
	return err == nil
}

// cleanPath rejects paths with empty, "." or ".." segments so every object
// lands exactly where ObjectPath put it.
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrInvalidPath
		}
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidPath
	}
	return c, nil
}
