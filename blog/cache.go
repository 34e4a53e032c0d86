package blog

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when a requested post does not exist upstream.
// Upstream failures degrade to the same signal: callers must treat
// not-found as a legitimate state, not an error.
var ErrNotFound = errors.New("blog: post not found")

// Cache fronts a Client with two in-memory tiers: one listing entry with a
// short TTL and a per-slug map with a longer TTL. The listing stays
// fresher because the set of published posts changes more often than any
// individual post.
//
// Entries are replaced whole, never mutated, so readers can hold returned
// slices without a copy. Concurrent refreshes of the same key are
// collapsed into a single upstream call.
type Cache struct {
	client *Client
	log    *zap.Logger

	listTTL time.Duration
	postTTL time.Duration

	mu          sync.RWMutex
	listing     []PostMetadata
	listFetched time.Time
	posts       map[string]postEntry

	group singleflight.Group
}

type postEntry struct {
	post    Post
	fetched time.Time
}

// NewCache creates a Cache with the given TTLs. The listing TTL should be
// shorter than the per-post TTL.
func NewCache(client *Client, listTTL, postTTL time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		client:  client,
		log:     log,
		listTTL: listTTL,
		postTTL: postTTL,
		posts:   make(map[string]postEntry),
	}
}

// Invalidate clears the per-slug cache and expires the listing so the next
// access refetches from upstream.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.listing = nil
	c.listFetched = time.Time{}
	c.posts = make(map[string]postEntry)
	c.mu.Unlock()
}

// AllPosts returns every published post, newest first. An upstream failure
// is logged and degrades to an empty list.
func (c *Cache) AllPosts(ctx context.Context) []PostMetadata {
	c.mu.RLock()
	if c.listing != nil && time.Since(c.listFetched) < c.listTTL {
		posts := c.listing
		c.mu.RUnlock()
		return posts
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("listing", func() (any, error) {
		posts, err := c.client.QueryPosts(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.listing = posts
		c.listFetched = time.Now()
		c.mu.Unlock()
		return posts, nil
	})
	if err != nil {
		c.log.Error("fetching post listing failed", zap.Error(err))
		return []PostMetadata{}
	}
	return v.([]PostMetadata)
}

// AllSlugs returns the slugs of every published post, reusing the listing
// cache when it is fresh.
func (c *Cache) AllSlugs(ctx context.Context) []string {
	c.mu.RLock()
	fresh := c.listing != nil && time.Since(c.listFetched) < c.listTTL
	listing := c.listing
	c.mu.RUnlock()

	if fresh {
		slugs := make([]string, 0, len(listing))
		for _, p := range listing {
			slugs = append(slugs, p.Slug)
		}
		return slugs
	}
	slugs, err := c.client.QuerySlugs(ctx)
	if err != nil {
		c.log.Error("fetching post slugs failed", zap.Error(err))
		return []string{}
	}
	return slugs
}

// PostBySlug returns one full post with body and reading time, or
// ErrNotFound. The slug is queried upstream directly; the body is a second
// upstream call and the composite result is cached under the longer TTL.
func (c *Cache) PostBySlug(ctx context.Context, slug string) (Post, error) {
	c.mu.RLock()
	if entry, ok := c.posts[slug]; ok && time.Since(entry.fetched) < c.postTTL {
		c.mu.RUnlock()
		return entry.post, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("post:"+slug, func() (any, error) {
		meta, ok, err := c.client.QueryPostBySlug(ctx, slug)
		if err != nil {
			return Post{}, err
		}
		if !ok {
			return Post{}, ErrNotFound
		}
		body, err := c.client.FetchBody(ctx, meta.ID)
		if err != nil {
			return Post{}, err
		}
		post := Post{
			PostMetadata: meta,
			Content:      body,
			ReadingTime:  CalculateReadingTime(body),
		}
		c.mu.Lock()
		c.posts[slug] = postEntry{post: post, fetched: time.Now()}
		c.mu.Unlock()
		return post, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Error("fetching post failed", zap.String("slug", slug), zap.Error(err))
		}
		return Post{}, ErrNotFound
	}
	return v.(Post), nil
}
