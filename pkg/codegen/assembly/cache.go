package assembly

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Cache keeps linked executables keyed by the target and the exact assembly
// they were built from.
type Cache struct {
	dir string
}

// NewCache uses dir, creating it if needed
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{dir: dir}, nil
}

// DefaultCache lives under the user cache directory. It is nil when caching
// is disabled with KILN_NO_CACHE or no cache directory is available.
func DefaultCache() *Cache {
	if os.Getenv("KILN_NO_CACHE") != "" {
		return nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return nil
	}

	c, err := NewCache(filepath.Join(base, "kiln"))
	if err != nil {
		return nil
	}
	return c
}

// Key computes the xxhash of target and code
func Key(target, code string) string {
	h := xxhash.New()
	h.WriteString(target)
	h.WriteString("\x00")
	h.WriteString(code)
	return fmt.Sprintf("%016x", h.Sum64())
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key)
}

// Lookup returns the cached executable for key
func (c *Cache) Lookup(key string) (string, bool) {
	p := c.path(key)
	if info, err := os.Stat(p); err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return p, true
}

// Store copies the executable at exe into the cache under key
func (c *Cache) Store(key, exe string) error {
	tmp := c.path(key + ".tmp")
	if err := copyFile(exe, tmp); err != nil {
		return err
	}

	return os.Rename(tmp, c.path(key))
}

// copyFile copies src to dst as an executable
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
