package editor

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// PageOpener builds the page of a certificate.
type PageOpener func(ctx context.Context, certificateID string) (*Page, error)

// PageCache keeps one Page per certificate while it is being edited. An
// entry expires after ttl without access. Concurrent opens of one
// certificate share a single call; other certificates are not blocked.
type PageCache struct {
	c     *gocache.Cache
	open  PageOpener
	group singleflight.Group
}

func NewPageCache(ttl time.Duration, open PageOpener) *PageCache {
	return &PageCache{c: gocache.New(ttl, time.Minute), open: open}
}

// Get returns the page of certificateID, opening it on first use.
func (pc *PageCache) Get(ctx context.Context, certificateID string) (*Page, error) {
	if p, ok := pc.touch(certificateID); ok {
		return p, nil
	}

	v, err, _ := pc.group.Do(certificateID, func() (any, error) {
		if p, ok := pc.touch(certificateID); ok {
			return p, nil
		}
		p, err := pc.open(ctx, certificateID)
		if err != nil {
			return nil, err
		}
		pc.c.SetDefault(certificateID, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// touch returns the cached page and restarts its expiry.
func (pc *PageCache) touch(certificateID string) (*Page, bool) {
	v, ok := pc.c.Get(certificateID)
	if !ok {
		return nil, false
	}
	p := v.(*Page)
	pc.c.SetDefault(certificateID, p)
	return p, true
}

// Lookup returns the page of certificateID if it is open.
func (pc *PageCache) Lookup(certificateID string) (*Page, bool) {
	v, ok := pc.c.Get(certificateID)
	if !ok {
		return nil, false
	}
	return v.(*Page), true
}

func (pc *PageCache) Evict(certificateID string) {
	pc.c.Delete(certificateID)
}

// Len returns the number of open pages.
func (pc *PageCache) Len() int {
	return pc.c.ItemCount()
}
