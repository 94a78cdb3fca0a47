package compiler

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rubiojr/rgsl/backend"
	"github.com/rubiojr/rgsl/shader"
)

const spvCacheMaxBytes = 256 * 1024 * 1024 // 256 MB

// spvCache stores compiled SPIR-V modules keyed by their preprocessed
// source. A zero dir disables it.
type spvCache struct {
	dir string
}

func newSPVCache(dir string) spvCache {
	return spvCache{dir: dir}
}

// spvCacheKey hashes everything that determines the compiled words.
func spvCacheKey(backendName string, stage shader.Stage, source string) string {
	h := sha256.New()
	h.Write([]byte(backendName))
	h.Write([]byte{0})
	h.Write([]byte(stage))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

func (c spvCache) path(key string) string {
	return filepath.Join(c.dir, key+".spv.gz")
}

// lookup returns the cached words for key and touches the entry to update
// its LRU timestamp. Unreadable entries count as misses.
func (c spvCache) lookup(key string) ([]uint32, bool) {
	if c.dir == "" {
		return nil, false
	}
	cached := c.path(key)
	f, err := os.Open(cached)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, false
	}
	words, err := backend.DecodeWords(data)
	if err != nil {
		return nil, false
	}
	now := time.Now()
	os.Chtimes(cached, now, now)
	return words, true
}

// store compresses words into the cache, then evicts the oldest entries
// if the cache exceeds its size cap. Failures leave the cache untouched.
func (c spvCache) store(key string, words []uint32) {
	if c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}

	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return
	}
	if _, err := gw.Write(backend.EncodeWords(words)); err != nil {
		gw.Close()
		return
	}
	if err := gw.Close(); err != nil {
		return
	}

	// Write then rename so parallel embeds never read a partial entry.
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	tmp.Close()
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return
	}

	c.evict(spvCacheMaxBytes)
}

// evict removes the oldest entries until the cache is under limit bytes.
func (c spvCache) evict(limit int64) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	var files []entry
	var totalSize int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".gz" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entry{path: filepath.Join(c.dir, e.Name()), size: info.Size(), modTime: info.ModTime()})
		totalSize += info.Size()
	}

	if totalSize <= limit {
		return
	}

	// Oldest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if totalSize <= limit {
			break
		}
		os.Remove(f.path)
		totalSize -= f.size
	}
}
