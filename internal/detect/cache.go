package detect

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logpeek/internal/util/logx"
)

// CacheDir is where detected formats are remembered between runs.
var CacheDir = func() string {
	return filepath.Join(os.TempDir(), "logpeek-format-cache")
}

// cacheKey derives a stable key from the absolute file path.
func cacheKey(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	h := sha1.Sum([]byte(abs))
	return hex.EncodeToString(h[:]), nil
}

func cachePath(key string) string {
	return filepath.Join(CacheDir(), fmt.Sprintf("format_%s.json", key))
}

// LoadCached returns the format remembered for filePath.
func LoadCached(filePath string) (Format, bool) {
	key, err := cacheKey(filePath)
	if err != nil {
		return Format{}, false
	}
	f, err := os.Open(cachePath(key))
	if err != nil {
		return Format{}, false
	}
	defer f.Close()
	var out Format
	if err := json.NewDecoder(f).Decode(&out); err != nil || out.Strategy == "" {
		return Format{}, false
	}
	return out, true
}

// SaveCached remembers the format of filePath. The write goes through a
// temporary file so a crash never leaves a truncated entry behind.
func SaveCached(filePath string, format Format) error {
	key, err := cacheKey(filePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return err
	}
	p := cachePath(key)
	tmp := p + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(format); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	logx.Debugf("detect: cached format %s for %s", format.Name, filePath)
	return nil
}
