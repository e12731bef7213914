package github

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/content"
)

type fakeLister struct {
	mu       sync.Mutex
	calls    int
	projects []content.ProjectCard
	err      error
}

func (f *fakeLister) ListProjects(context.Context) ([]content.ProjectCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.projects, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeLister) set(projects []content.ProjectCard, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects, f.err = projects, err
}

func TestCacheColdFetchesInline(t *testing.T) {
	lister := &fakeLister{projects: []content.ProjectCard{{Title: "sitio"}}}
	c := NewCache(lister, time.Hour)

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 1, lister.callCount())

	// Subsequent reads serve the cached listing.
	_, err = c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, lister.callCount())
}

func TestCacheKeepsLastGoodListing(t *testing.T) {
	lister := &fakeLister{projects: []content.ProjectCard{{Title: "sitio"}}}
	c := NewCache(lister, time.Hour)
	c.Refresh(context.Background())

	lister.set(nil, fmt.Errorf("github down"))
	c.Refresh(context.Background())

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err, "stale data beats an error once we have data")
	assert.Len(t, projects, 1)
}

func TestCacheColdFailureSurfaces(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("github down")}
	c := NewCache(lister, time.Hour)

	_, err := c.ListProjects(context.Background())
	require.Error(t, err)

	// Recovery on a later refresh clears the error.
	lister.set([]content.ProjectCard{{Title: "back"}}, nil)
	c.Refresh(context.Background())
	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestCacheStartRefreshesImmediately(t *testing.T) {
	lister := &fakeLister{projects: []content.ProjectCard{{Title: "sitio"}}}
	c := NewCache(lister, time.Hour)

	require.NoError(t, c.Start(context.Background()))
	defer func() { require.NoError(t, c.Stop()) }()

	require.Eventually(t, func() bool { return lister.callCount() >= 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestCacheDefaultInterval(t *testing.T) {
	c := NewCache(&fakeLister{}, 0)
	assert.Equal(t, time.Hour, c.interval)
}
