package texture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/rcp/backend"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the number of decoded textures kept by default.
const DefaultCapacity = 500

// Key identifies a decoded texture by where it came from, not by content.
// Source addresses are assumed stable for the lifetime of a cache.
type Key struct {
	Address uint32
	Format  Format
	Size    Size
}

func (k Key) String() string {
	return fmt.Sprintf("%#08x/%s%s", k.Address, k.Format, k.Size)
}

// Entry is a decoded texture and the backend texture holding it.
type Entry struct {
	Key           Key
	Width, Height int
	RGBA          []byte
	Handle        backend.TextureID

	sampled bool
	cms     uint8
	cmt     uint8
	linear  bool
}

// CacheStats contains texture cache statistics.
type CacheStats struct {
	Len             int
	Capacity        int
	Hits            uint64
	Misses          uint64
	Evictions       uint64
	ReleaseFailures uint64
}

// Cache keeps decoded textures in least-recently-used order. When full,
// inserting a new key evicts the oldest entry and releases its backend
// texture. A release failure is logged and the entry is dropped anyway.
//
// Cache is not safe for concurrent use; each RCP owns its own.
type Cache struct {
	lru      *simplelru.LRU[Key, *Entry]
	capacity int
	releaser backend.TextureReleaser
	logger   *slog.Logger

	hits            uint64
	misses          uint64
	evictions       uint64
	releaseFailures uint64
}

// NewCache creates a cache holding at most capacity textures. releaser
// may be nil; logger may be nil to discard release warnings.
func NewCache(capacity int, releaser backend.TextureReleaser, logger *slog.Logger) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Cache{capacity: capacity, releaser: releaser, logger: logger}
	l, err := simplelru.NewLRU[Key, *Entry](capacity, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("texture: new cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// Lookup returns the entry for key and marks it most recently used.
func (c *Cache) Lookup(key Key) (*Entry, bool) {
	e, ok := c.lru.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

// Peek returns the entry for key without touching its recency.
func (c *Cache) Peek(key Key) (*Entry, bool) {
	return c.lru.Peek(key)
}

// Insert stores e under e.Key. An entry already stored under the key is
// replaced and its backend texture released.
func (c *Cache) Insert(e *Entry) {
	if old, ok := c.lru.Peek(e.Key); ok && old != e {
		c.release(old)
	}
	if c.lru.Add(e.Key, e) {
		c.evictions++
	}
}

// Create decodes texels into a new entry, uploads it through up and stores
// it. palette is only used by color-index formats.
func (c *Cache) Create(key Key, width, height int, texels, palette []byte, up backend.TextureUploader) (*Entry, error) {
	rgba, err := Decode(key.Format, key.Size, texels, width, height, palette)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", key, err)
	}
	e := &Entry{Key: key, Width: width, Height: height, RGBA: rgba}
	if up != nil {
		id, err := up.NewTexture()
		if err != nil {
			return nil, fmt.Errorf("texture %s: new: %w", key, err)
		}
		e.Handle = id
		if err := up.UploadTexture(id, rgba, width, height); err != nil {
			c.release(e)
			return nil, fmt.Errorf("texture %s: upload: %w", key, err)
		}
	}
	c.Insert(e)
	return e, nil
}

// SetSampler applies the tile clamp/mirror flags and filter to e, calling
// the backend only when they changed since the last call.
func (c *Cache) SetSampler(e *Entry, up backend.TextureUploader, cms, cmt uint8, linear bool) error {
	if e.sampled && e.cms == cms && e.cmt == cmt && e.linear == linear {
		return nil
	}
	if up != nil && e.Handle != 0 {
		if err := up.SetSampler(e.Handle, Sampler(cms, cmt, linear)); err != nil {
			return fmt.Errorf("texture %s: sampler: %w", e.Key, err)
		}
	}
	e.sampled, e.cms, e.cmt, e.linear = true, cms, cmt, linear
	return nil
}

// Remove drops one entry, releasing its backend texture.
func (c *Cache) Remove(key Key) bool {
	return c.lru.Remove(key)
}

// Purge drops every entry, releasing their backend textures.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Keys returns the cached keys from oldest to newest.
func (c *Cache) Keys() []Key {
	return c.lru.Keys()
}

// Len returns the number of cached textures.
func (c *Cache) Len() int { return c.lru.Len() }

// Capacity returns the maximum number of cached textures.
func (c *Cache) Capacity() int { return c.capacity }

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Len:             c.lru.Len(),
		Capacity:        c.capacity,
		Hits:            c.hits,
		Misses:          c.misses,
		Evictions:       c.evictions,
		ReleaseFailures: c.releaseFailures,
	}
}

func (c *Cache) onEvict(_ Key, e *Entry) {
	c.release(e)
}

func (c *Cache) release(e *Entry) {
	if c.releaser == nil || e.Handle == 0 {
		return
	}
	id := e.Handle
	e.Handle = 0
	if err := c.releaser.ReleaseTexture(id); err != nil && !errors.Is(err, backend.ErrReleased) {
		c.releaseFailures++
		c.logger.Warn("texture: release failed", "key", e.Key.String(), "texture", uint64(id), "err", err)
	}
}
