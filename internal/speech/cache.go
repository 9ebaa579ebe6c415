package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// AudioCache keeps synthesized clips in memory and, when dir is set, on
// disk. Keys are sha256(voice + ":" + text) so a voice change misses.
type AudioCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	voice   string
	dir     string
	log     *logger.Logger

	hits, misses int64
}

// NewAudioCache creates a cache. An empty dir disables the disk layer.
func NewAudioCache(voice, dir string, log *logger.Logger) *AudioCache {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("cache: creating %s: %v", dir, err)
			dir = ""
		}
	}
	return &AudioCache{
		entries: make(map[string][]byte),
		voice:   voice,
		dir:     dir,
		log:     log,
	}
}

// Get returns the clip for text from memory, then disk.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries[key]; ok {
		c.hits++
		return data, true
	}
	if c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			c.entries[key] = data
			c.hits++
			c.log.Debug("cache hit (disk): %s", key[:12])
			return data, true
		}
	}
	c.misses++
	return nil, false
}

// Put stores a clip in memory and on disk.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.key(text)

	c.mu.Lock()
	c.entries[key] = audio
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	if err := os.WriteFile(c.path(key), audio, 0o644); err != nil {
		c.log.Error("cache: disk write failed for %s: %v", key[:12], err)
	}
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
