// Package feedview drives the publications screen: it loads the user profile
// and the remote posts concurrently and exposes a render model.
package feedview

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

// ProfileLoader yields the first profile snapshot.
type ProfileLoader interface {
	Load(ctx context.Context) (models.UserProfile, error)
}

// PostFetcher returns every post ordered by timestamp.
type PostFetcher interface {
	FetchAll(ctx context.Context) ([]models.Post, error)
}

// Model is what the publications screen renders.
type Model struct {
	Profile models.UserProfile
	Posts   []models.Post

	ProfileLoaded bool
	PostsLoaded   bool

	ProfileErr error
	FeedErr    error
}

// Ready reports whether both loads have completed, successfully or not.
func (m Model) Ready() bool {
	return m.ProfileLoaded && m.PostsLoaded
}

type Controller struct {
	profiles ProfileLoader
	posts    PostFetcher
	logger   logging.Logger

	mu     sync.Mutex
	model  Model
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

func New(profiles ProfileLoader, posts PostFetcher, logger logging.Logger) *Controller {
	return &Controller{
		profiles: profiles,
		posts:    posts,
		logger:   logging.OrNop(logger).With("module", "feed_view"),
		model:    Model{Posts: []models.Post{}},
	}
}

// Activate cancels any previous activation and starts loading the profile
// and the posts. It does not block; use Wait or poll Model.
func (c *Controller) Activate(ctx context.Context) {
	c.Deactivate()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.model = Model{Posts: []models.Post{}}
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		p, err := c.profiles.Load(ctx)
		c.update(gen, func(m *Model) {
			m.ProfileLoaded = true
			m.ProfileErr = err
			if err == nil {
				m.Profile = p
			}
		})
	}()

	go func() {
		defer wg.Done()
		posts, err := c.posts.FetchAll(ctx)
		if err != nil {
			c.logger.Warn(ctx, "posts unavailable", "error", err)
			posts = nil
		}
		if posts == nil {
			posts = []models.Post{}
		}
		c.update(gen, func(m *Model) {
			m.PostsLoaded = true
			m.FeedErr = err
			m.Posts = posts
		})
	}()

	go func() {
		wg.Wait()
		close(done)
	}()
}

// update applies fn unless the activation gen belongs to is stale.
func (c *Controller) update(gen uint64, fn func(*Model)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	fn(&c.model)
}

// Wait blocks until the current activation has finished loading or ctx is
// done. It returns immediately when nothing is active.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load activates and waits, returning the resulting model.
func (c *Controller) Load(ctx context.Context) (Model, error) {
	c.Activate(ctx)
	if err := c.Wait(ctx); err != nil {
		return c.Model(), err
	}
	return c.Model(), nil
}

// Model returns a copy of the current render model.
func (c *Controller) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.model
	m.Posts = append([]models.Post{}, c.model.Posts...)
	return m
}

// Deactivate cancels the current activation and waits for its loaders to
// return. Results arriving afterwards are discarded.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.gen++
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
