package dataset

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/paludash/internal/indicator"
)

// Snapshot is a loaded dataset with its indicator index. It is never
// mutated after construction and may be shared between requests.
type Snapshot struct {
	Table    *Table
	Index    *indicator.Index
	Source   string
	LoadedAt time.Time

	modTime time.Time
	size    int64
}

// Cache keeps the most recent Snapshot of one file and reloads it only when
// the file's modification time or size changes.
type Cache struct {
	path string
	opt  Options
	meta []string

	mu    sync.Mutex
	snap  *Snapshot
	group singleflight.Group
	now   func() time.Time
}

// NewCache returns a cache for the dataset at path. meta lists the columns
// excluded from indicator parsing.
func NewCache(path string, opt Options, meta []string) *Cache {
	return &Cache{path: path, opt: opt, meta: meta, now: time.Now}
}

// Path returns the file backing the cache.
func (c *Cache) Path() string { return c.path }

// Get returns the current snapshot, loading the file on first use or after
// it changed on disk. Concurrent callers share a single load.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	c.mu.Lock()
	cur := c.snap
	c.mu.Unlock()
	if cur != nil && cur.modTime.Equal(info.ModTime()) && cur.size == info.Size() {
		return cur, nil
	}

	ch := c.group.DoChan(c.path, func() (any, error) {
		t, err := Load(c.path, c.opt)
		if err != nil {
			return nil, err
		}
		s := &Snapshot{
			Table:    t,
			Index:    indicator.Build(t.Columns, c.meta),
			Source:   c.path,
			LoadedAt: c.now(),
			modTime:  info.ModTime(),
			size:     info.Size(),
		}
		c.mu.Lock()
		c.snap = s
		c.mu.Unlock()
		return s, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}
