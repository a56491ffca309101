package favicon

import (
	"os"
	"path/filepath"
	"sync"

	domainurl "github.com/strataview/strata/internal/domain/url"
)

const (
	diskWriteBufferSize = 100
	diskCacheDirPerm    = 0750
	diskCacheFilePerm   = 0600
)

type diskWrite struct {
	hostname string
	data     []byte
}

// Cache is a two-tier favicon cache: memory first, disk behind it. Disk
// writes happen asynchronously on a single writer goroutine.
type Cache struct {
	mu        sync.RWMutex
	memCache  map[string][]byte
	diskDir   string
	writeChan chan diskWrite
	closeOnce sync.Once
}

// NewCache creates a cache. An empty diskDir disables the disk tier.
func NewCache(diskDir string) *Cache {
	c := &Cache{
		memCache:  make(map[string][]byte),
		diskDir:   diskDir,
		writeChan: make(chan diskWrite, diskWriteBufferSize),
	}
	if diskDir != "" {
		go c.diskWriter()
	}
	return c
}

// Get returns the cached favicon for hostname, promoting disk hits into the
// memory tier.
func (c *Cache) Get(hostname string) ([]byte, bool) {
	if hostname == "" {
		return nil, false
	}

	c.mu.RLock()
	data, ok := c.memCache[hostname]
	c.mu.RUnlock()
	if ok {
		return data, true
	}

	data = c.loadFromDisk(hostname)
	if data != nil {
		c.mu.Lock()
		c.memCache[hostname] = data
		c.mu.Unlock()
		return data, true
	}
	return nil, false
}

// Set stores favicon bytes for hostname in memory and queues an async disk
// write.
func (c *Cache) Set(hostname string, data []byte) {
	if hostname == "" || len(data) == 0 {
		return
	}

	c.mu.Lock()
	c.memCache[hostname] = data
	c.mu.Unlock()

	if c.diskDir == "" {
		return
	}
	select {
	case c.writeChan <- diskWrite{hostname: hostname, data: data}:
	default:
		// Writer backlog full; the memory tier still has the icon.
	}
}

// Close stops the disk writer goroutine.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.writeChan)
	})
}

func (c *Cache) diskPath(hostname string) string {
	if c.diskDir == "" || hostname == "" {
		return ""
	}
	return filepath.Join(c.diskDir, domainurl.SanitizeHostForFilename(hostname))
}

func (c *Cache) loadFromDisk(hostname string) []byte {
	path := c.diskPath(hostname)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

func (c *Cache) diskWriter() {
	for w := range c.writeChan {
		path := c.diskPath(w.hostname)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(c.diskDir, diskCacheDirPerm); err != nil {
			continue
		}
		_ = os.WriteFile(path, w.data, diskCacheFilePerm)
	}
}
