// Package thumbs is the content-addressed thumbnail cache. Rendered
// previews live as files in the per-app cache directory; their
// bookkeeping records (last access, byte size) live in a bbolt bucket
// next to them. Identical image bytes across entries share one record.
package thumbs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vib1240n/overlayd/internal/backend"
)

const (
	recordBucket = "thumbs"

	// negativeTTL is how long a failed render is remembered before the
	// input may be retried.
	negativeTTL = 30 * time.Second

	// maxRenders bounds concurrent converter subprocesses.
	maxRenders = 4
)

// ErrRenderFailed marks a conversion failure, including ones replayed
// from the negative cache.
var ErrRenderFailed = errors.New("thumbnail render failed")

// Record is the bookkeeping entry for one cached render.
type Record struct {
	Hash       string    `json:"hash"`
	Path       string    `json:"path"`
	LastAccess time.Time `json:"last_access"`
	Size       int64     `json:"size"`
}

// Cache is the on-disk thumbnail cache.
type Cache struct {
	db       *bbolt.DB
	dir      string
	maxBytes int64
	conv     backend.Converter
	logger   *zap.Logger

	group singleflight.Group
	sem   chan struct{}

	mu       sync.Mutex
	negative map[string]time.Time
	pinned   map[string]bool
}

// Open prepares the cache directory and its record database.
func Open(dir string, maxBytes int64, conv backend.Converter, logger *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(dir, "thumbs.db"), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Cache{
		db:       db,
		dir:      dir,
		maxBytes: maxBytes,
		conv:     conv,
		logger:   logger,
		sem:      make(chan struct{}, maxRenders),
		negative: make(map[string]time.Time),
		pinned:   make(map[string]bool),
	}, nil
}

// Close releases the record database.
func (c *Cache) Close() error { return c.db.Close() }

// Hash derives the content hash for raw entry bytes.
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// SetPinned replaces the set of hashes currently rendered on screen.
// Pinned records are never evicted.
func (c *Cache) SetPinned(hashes map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = hashes
}

// GetOrRender returns the cached render for hash, producing it with
// the external converter on a miss. Concurrent misses for the same
// hash collapse into a single conversion; everyone gets the one
// result. Render failures are negatively cached for a short window.
func (c *Cache) GetOrRender(ctx context.Context, hash string, raw []byte) (string, error) {
	if path, ok := c.hit(hash); ok {
		return path, nil
	}

	if c.isNegative(hash) {
		return "", ErrRenderFailed
	}

	v, err, _ := c.group.Do(hash, func() (interface{}, error) {
		// Re-check under the flight: a sibling may have just filled
		// the record in.
		if path, ok := c.hit(hash); ok {
			return path, nil
		}

		select {
		case c.sem <- struct{}{}:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		defer func() { <-c.sem }()

		path := filepath.Join(c.dir, hash+".png")
		if err := c.conv.Render(ctx, raw, path); err != nil {
			c.markNegative(hash)
			c.logger.Warn("thumbnail render failed", zap.String("hash", hash), zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			c.markNegative(hash)
			return "", fmt.Errorf("%w: converter produced no output", ErrRenderFailed)
		}

		rec := Record{Hash: hash, Path: path, LastAccess: time.Now(), Size: info.Size()}
		if err := c.put(rec); err != nil {
			c.logger.Warn("failed to record thumbnail", zap.String("hash", hash), zap.Error(err))
		}

		// Eviction runs detached so the inserting caller never waits
		// for it.
		go c.evict()

		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// hit looks the hash up and refreshes its last-access on success. A
// record whose file vanished behind our back is dropped.
func (c *Cache) hit(hash string) (string, bool) {
	var rec Record
	found := false
	c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(recordBucket)).Get([]byte(hash)); v != nil {
			found = json.Unmarshal(v, &rec) == nil
		}
		return nil
	})
	if !found {
		return "", false
	}
	if _, err := os.Stat(rec.Path); err != nil {
		c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(recordBucket)).Delete([]byte(hash))
		})
		return "", false
	}
	rec.LastAccess = time.Now()
	if err := c.put(rec); err != nil {
		c.logger.Debug("failed to refresh last-access", zap.String("hash", hash), zap.Error(err))
	}
	return rec.Path, true
}

func (c *Cache) put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(recordBucket)).Put([]byte(rec.Hash), data)
	})
}

func (c *Cache) isNegative(hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	expiry, ok := c.negative[hash]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(c.negative, hash)
		return false
	}
	return true
}

func (c *Cache) markNegative(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.negative[hash] = time.Now().Add(negativeTTL)
}

// evict walks records in ascending last-access order, removing
// unpinned ones until the total size is back under the ceiling.
func (c *Cache) evict() {
	records, total := c.snapshot()
	if c.maxBytes <= 0 || total <= c.maxBytes {
		return
	}

	sort.Slice(records, func(a, b int) bool {
		return records[a].LastAccess.Before(records[b].LastAccess)
	})

	c.mu.Lock()
	pinned := c.pinned
	c.mu.Unlock()

	for _, rec := range records {
		if total <= c.maxBytes {
			break
		}
		if pinned[rec.Hash] {
			continue
		}
		if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("failed to remove thumbnail", zap.String("path", rec.Path), zap.Error(err))
			continue
		}
		c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(recordBucket)).Delete([]byte(rec.Hash))
		})
		total -= rec.Size
		c.logger.Debug("evicted thumbnail", zap.String("hash", rec.Hash), zap.Int64("size", rec.Size))
	}
}

func (c *Cache) snapshot() ([]Record, int64) {
	var records []Record
	var total int64
	c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(recordBucket)).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil
			}
			records = append(records, rec)
			total += rec.Size
			return nil
		})
	})
	return records, total
}
