package subtitles

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultExt is used for cached copies of files without an extension.
const DefaultExt = ".srt"

// Cache stages subtitle files in a scratch directory under stable names, so
// the player always loads a local copy.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir. The directory is created on first use.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the scratch directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Name returns the cached file name for src: the hex MD5 of the path plus
// its extension.
func Name(src string) string {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = DefaultExt
	}
	sum := md5.Sum([]byte(src))
	return hex.EncodeToString(sum[:]) + ext
}

// Store copies src into the cache, replacing an earlier copy, and returns the
// cached path.
func (c *Cache) Store(src string) (string, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create cache dir %s", c.dir)
	}

	dst := filepath.Join(c.dir, Name(src))
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to remove stale copy %s", dst)
	}

	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(ErrNotFound, src)
		}
		return "", errors.Wrapf(err, "failed to open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrapf(err, "failed to copy subtitle to %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", errors.Wrapf(err, "failed to copy subtitle to %s", dst)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to copy subtitle to %s", dst)
	}

	return dst, nil
}
