package source

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of decoded files kept in memory
const DefaultCacheSize = 256

type cachedFile struct {
	text  string
	codec Codec
}

// Cache keeps recently decoded files in memory. Many smells are reported
// against the same file, so builder workers share one Cache. It is safe for
// concurrent use.
type Cache struct {
	files *lru.Cache[string, cachedFile]
}

// NewCache creates a cache holding up to size decoded files
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	files, err := lru.New[string, cachedFile](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}
	return &Cache{files: files}, nil
}

// Load returns the decoded content of path, reading it on a miss
func (c *Cache) Load(path string) (string, Codec, error) {
	if f, ok := c.files.Get(path); ok {
		return f.text, f.codec, nil
	}

	text, codec, err := ReadFile(path)
	if err != nil {
		return "", "", err
	}
	c.files.Add(path, cachedFile{text: text, codec: codec})
	return text, codec, nil
}

// Len returns the number of cached files
func (c *Cache) Len() int {
	return c.files.Len()
}
