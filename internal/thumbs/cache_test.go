package thumbs

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConverter writes a fixed payload and counts invocations.
type fakeConverter struct {
	renders atomic.Int32
	fail    bool
	delay   time.Duration
	payload []byte
}

func (f *fakeConverter) Render(ctx context.Context, raw []byte, outPath string) error {
	f.renders.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.fail {
		return errors.New("converter exploded")
	}
	payload := f.payload
	if payload == nil {
		payload = []byte("thumbnail")
	}
	return os.WriteFile(outPath, payload, 0o644)
}

func openTestCache(t *testing.T, maxBytes int64, conv *fakeConverter) *Cache {
	t.Helper()
	c, err := Open(t.TempDir(), maxBytes, conv, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetOrRenderMissThenHit(t *testing.T) {
	conv := &fakeConverter{}
	c := openTestCache(t, 0, conv)

	raw := []byte("image bytes")
	hash := Hash(raw)

	path, err := c.GetOrRender(context.Background(), hash, raw)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, int32(1), conv.renders.Load())

	again, err := c.GetOrRender(context.Background(), hash, raw)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), conv.renders.Load(), "hit skips the converter")
}

func TestGetOrRenderCollapsesConcurrentMisses(t *testing.T) {
	conv := &fakeConverter{delay: 50 * time.Millisecond}
	c := openTestCache(t, 0, conv)

	raw := []byte("shared image")
	hash := Hash(raw)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrRender(context.Background(), hash, raw)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), conv.renders.Load(),
		"identical content renders at most once")
}

func TestGetOrRenderDistinctHashesRenderSeparately(t *testing.T) {
	conv := &fakeConverter{}
	c := openTestCache(t, 0, conv)

	for _, raw := range [][]byte{[]byte("a"), []byte("b"), []byte("c")} {
		_, err := c.GetOrRender(context.Background(), Hash(raw), raw)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), conv.renders.Load())
}

func TestGetOrRenderFailureIsNegativelyCached(t *testing.T) {
	conv := &fakeConverter{fail: true}
	c := openTestCache(t, 0, conv)

	raw := []byte("bad image")
	hash := Hash(raw)

	_, err := c.GetOrRender(context.Background(), hash, raw)
	require.ErrorIs(t, err, ErrRenderFailed)
	require.Equal(t, int32(1), conv.renders.Load())

	// The retry inside the negative window never reaches the converter.
	_, err = c.GetOrRender(context.Background(), hash, raw)
	require.ErrorIs(t, err, ErrRenderFailed)
	assert.Equal(t, int32(1), conv.renders.Load())
}

func TestVanishedFileDropsRecord(t *testing.T) {
	conv := &fakeConverter{}
	c := openTestCache(t, 0, conv)

	raw := []byte("transient")
	hash := Hash(raw)

	path, err := c.GetOrRender(context.Background(), hash, raw)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	// The stale record is detected and the content re-rendered.
	_, err = c.GetOrRender(context.Background(), hash, raw)
	require.NoError(t, err)
	assert.Equal(t, int32(2), conv.renders.Load())
}

func TestEvictRespectsPins(t *testing.T) {
	conv := &fakeConverter{payload: make([]byte, 1000)}
	c := openTestCache(t, 0, conv)

	hashes := make([]string, 0, 4)
	for _, raw := range [][]byte{[]byte("w"), []byte("x"), []byte("y"), []byte("z")} {
		h := Hash(raw)
		hashes = append(hashes, h)
		_, err := c.GetOrRender(context.Background(), h, raw)
		require.NoError(t, err)
		// Distinct last-access stamps keep the eviction order stable.
		time.Sleep(5 * time.Millisecond)
	}

	// Lower the ceiling only now so the background eviction inside
	// GetOrRender stayed inert while inserting.
	c.maxBytes = 2500

	// Pin the oldest; eviction must pass over it.
	c.SetPinned(map[string]bool{hashes[0]: true})
	c.evict()

	_, total := c.snapshot()
	assert.LessOrEqual(t, total, int64(2500))

	_, ok := c.hit(hashes[0])
	assert.True(t, ok, "pinned record survives eviction")
}

func TestEvictNoCeiling(t *testing.T) {
	conv := &fakeConverter{payload: make([]byte, 1000)}
	c := openTestCache(t, 0, conv)

	for _, raw := range [][]byte{[]byte("1"), []byte("2"), []byte("3")} {
		_, err := c.GetOrRender(context.Background(), Hash(raw), raw)
		require.NoError(t, err)
	}
	c.evict()

	records, _ := c.snapshot()
	assert.Len(t, records, 3, "zero ceiling disables eviction")
}

func TestHashStable(t *testing.T) {
	assert.Equal(t, Hash([]byte("x")), Hash([]byte("x")))
	assert.NotEqual(t, Hash([]byte("x")), Hash([]byte("y")))
	assert.Len(t, Hash(nil), 64)
}
