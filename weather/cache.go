package weather

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aclements/bipv/solar"
	"go.uber.org/zap"
)

// A CacheKey names a cached value in a cache directory.
type CacheKey struct {
	dir, key string
}

// MakeCacheKey hashes args into a key in dir. args must be
// gob-encodable.
func MakeCacheKey(dir string, args ...any) (*CacheKey, error) {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return nil, fmt.Errorf("error encoding cache key: %w", err)
		}
	}

	return &CacheKey{dir, hex.EncodeToString(h.Sum(nil))}, nil
}

func (ck *CacheKey) path() string {
	return filepath.Join(ck.dir, ck.key)
}

// Load decodes the cached value into out. It returns false if there is
// no usable cached value.
func (ck *CacheKey) Load(out any) bool {
	f, err := os.Open(ck.path())
	if err != nil {
		return false
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if dec.Decode(out) != nil {
		return false
	}
	return true
}

func (ck *CacheKey) Save(val any) error {
	if err := os.MkdirAll(ck.dir, 0777); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}
	f, err := os.CreateTemp(ck.dir, ck.key+".*")
	if err != nil {
		return fmt.Errorf("error saving to cache: %w", err)
	}
	defer os.Remove(f.Name())
	enc := gob.NewEncoder(f)
	if err := enc.Encode(val); err != nil {
		f.Close()
		return fmt.Errorf("error encoding cache value: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), ck.path())
}

// Cached wraps a Provider with an on-disk cache keyed by provider name
// and location.
type Cached struct {
	provider Provider
	name     string
	dir      string
	logger   *zap.Logger
}

func NewCached(p Provider, name, dir string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{provider: p, name: name, dir: dir, logger: logger.Named("cache")}
}

func (c *Cached) TMY(ctx context.Context, latitude, longitude float64) (*solar.HourlySeries, error) {
	ck, err := MakeCacheKey(c.dir, c.name, latitude, longitude)
	if err != nil {
		return nil, err
	}
	var s solar.HourlySeries
	if ck.Load(&s) {
		c.logger.Debug("Using cached TMY", zap.String("key", ck.key))
		return &s, nil
	}
	out, err := c.provider.TMY(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}
	if err := ck.Save(out); err != nil {
		c.logger.Warn("Failed to cache TMY", zap.Error(err))
	}
	return out, nil
}
