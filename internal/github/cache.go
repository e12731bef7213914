package github

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/escuadron-404/sitio/internal/content"
	"github.com/escuadron-404/sitio/internal/logfields"
)

// Lister abstracts the repository listing for the cache and the aggregator.
type Lister interface {
	ListProjects(ctx context.Context) ([]content.ProjectCard, error)
}

// Cache serves the last successful project listing between periodic
// refreshes so page renders don't hit the GitHub API on every request.
// A cold cache fetches inline on first use.
type Cache struct {
	mu        sync.RWMutex
	lister    Lister
	scheduler gocron.Scheduler
	interval  time.Duration

	projects  []content.ProjectCard
	err       error
	fetchedAt time.Time
}

// NewCache wraps a lister with a refresh interval.
func NewCache(lister Lister, interval time.Duration) *Cache {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Cache{lister: lister, interval: interval}
}

// Start begins the periodic refresh schedule. The first refresh runs
// immediately so the cache is warm before the first request in most cases.
func (c *Cache) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create refresh scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(c.interval),
		gocron.NewTask(func() { c.Refresh(context.Background()) }),
		gocron.WithName("github-projects-refresh"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	c.scheduler = s
	s.Start()
	return nil
}

// Stop shuts down the refresh schedule.
func (c *Cache) Stop() error {
	if c.scheduler == nil {
		return nil
	}
	return c.scheduler.Shutdown()
}

// Refresh fetches the listing and replaces the cached state. Failures are
// recorded so renders show the section error until the next success.
func (c *Cache) Refresh(ctx context.Context) {
	projects, err := c.lister.ListProjects(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Now()
	if err != nil {
		slog.Warn("project listing refresh failed", logfields.Error(err))
		// Keep serving the previous listing if we ever had one.
		if c.projects == nil {
			c.err = err
		}
		return
	}
	c.projects, c.err = projects, nil
}

// ListProjects implements Lister from the cached state, fetching inline
// when the cache has never been filled.
func (c *Cache) ListProjects(ctx context.Context) ([]content.ProjectCard, error) {
	c.mu.RLock()
	projects, err, fetched := c.projects, c.err, !c.fetchedAt.IsZero()
	c.mu.RUnlock()
	if fetched {
		return projects, err
	}
	c.Refresh(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projects, c.err
}
