package metadata

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

type fileCache struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time
}

func newFileCache(fs afero.Fs, dir string, ttlHours int) *fileCache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &fileCache{fs: fs, dir: dir, ttl: time.Duration(ttlHours) * time.Hour, now: time.Now}
}

func cacheKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h[:])
}

// jitteredTTL staggers expiry between ttl and ttl+6h, derived from the key so
// the same key always expires at the same age.
func (c *fileCache) jitteredTTL(key string) time.Duration {
	h := sha256.Sum256([]byte(key))
	n := binary.BigEndian.Uint64(h[:8])
	jitter := time.Duration(n % uint64(6*time.Hour))
	return c.ttl + jitter
}

func (c *fileCache) get(key string, v any) (bool, error) {
	if c == nil {
		return false, nil
	}
	if key == "" {
		return false, errors.New("empty key")
	}
	path := filepath.Join(c.dir, key+".json")
	fi, err := c.fs.Stat(path)
	if err != nil {
		return false, nil
	}
	if c.now().Sub(fi.ModTime()) > c.jitteredTTL(key) {
		_ = c.fs.Remove(path)
		return false, nil
	}
	f, err := c.fs.Open(path)
	if err != nil {
		return false, nil
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *fileCache) set(key string, v any) error {
	if c == nil {
		return nil
	}
	if key == "" {
		return errors.New("empty key")
	}
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.dir, key+".json")
	tmp := path + ".tmp"
	f, err := c.fs.Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		_ = c.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	return c.fs.Rename(tmp, path)
}

// clear removes all cached files, used when the API key changes.
func (c *fileCache) clear() error {
	if c == nil {
		return nil
	}
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		_ = c.fs.Remove(filepath.Join(c.dir, entry.Name()))
	}
	return nil
}
