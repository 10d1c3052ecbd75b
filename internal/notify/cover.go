package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CoverFetcher downloads album cover images.
type CoverFetcher interface {
	Cover(ctx context.Context, albumID string) ([]byte, error)
}

// CoverCache keeps album covers on disk so the notification daemon can show
// them by path.
type CoverCache struct {
	dir   string
	fetch CoverFetcher
}

// NewCoverCache stores covers under dir.
func NewCoverCache(dir string, fetch CoverFetcher) *CoverCache {
	return &CoverCache{dir: dir, fetch: fetch}
}

// Path returns the local path of the album's cover, downloading it on first
// use. It returns "" when the album has no cover.
func (c *CoverCache) Path(ctx context.Context, albumID string) (string, error) {
	if albumID == "" || c == nil {
		return "", nil
	}
	path := filepath.Join(c.dir, coverFileName(albumID))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat cover: %w", err)
	}

	data, err := c.fetch.Cover(ctx, albumID)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover dir: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial image.
	tmp, err := os.CreateTemp(c.dir, ".cover-*")
	if err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write cover: %w", err)
	}
	return path, nil
}

func coverFileName(albumID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, albumID)
	return safe + ".jpg"
}
