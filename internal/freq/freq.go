// Package freq persists per-application launch counts. The counts
// feed the search engine's ranking bonus so frequently launched apps
// drift toward the top.
package freq

import (
	"encoding/base64"
	"strconv"

	"github.com/peterbourgon/diskv/v3"
)

// Store is a diskv-backed counter keyed by application name.
type Store struct {
	d *diskv.Diskv
}

// Open prepares the store under dir.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 64 * 1024,
	})}
}

// toKey makes an app name filesystem-safe.
func toKey(name string) string {
	return base64.URLEncoding.EncodeToString([]byte(name))
}

// Count returns the recorded launch count for an app, zero when the
// app was never launched.
func (s *Store) Count(name string) int {
	data, err := s.d.Read(toKey(name))
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return 0
	}
	return n
}

// Bump increments an app's launch count.
func (s *Store) Bump(name string) error {
	n := s.Count(name) + 1
	return s.d.Write(toKey(name), []byte(strconv.Itoa(n)))
}

// All loads every recorded count. Unreadable records are skipped.
func (s *Store) All() map[string]int {
	counts := make(map[string]int)
	for key := range s.d.Keys(nil) {
		raw, err := base64.URLEncoding.DecodeString(key)
		if err != nil {
			continue
		}
		data, err := s.d.Read(key)
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(string(data)); err == nil {
			counts[string(raw)] = n
		}
	}
	return counts
}
