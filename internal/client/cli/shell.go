package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/logging"
)

type Route string

const (
	RouteHome         Route = "home"
	RoutePublications Route = "publications"
	RouteProfile      Route = "profile"
)

// StartRoute is shown when the shell opens.
const StartRoute = RouteProfile

var ErrUnknownRoute = errors.New("unknown route")

// Screen is a controller mounted on a route. Enter is called when the route
// becomes current and Leave when another route replaces it.
type Screen interface {
	Enter(ctx context.Context) error
	Leave()
}

// Shell switches between routes. At most one screen is entered at a time.
type Shell struct {
	screens map[Route]Screen
	current Route
	logger  logging.Logger
}

// NewShell registers the three routes. A route without a screen (home) is
// still navigable.
func NewShell(screens map[Route]Screen, logger logging.Logger) *Shell {
	s := &Shell{screens: make(map[Route]Screen, 3), logger: logging.OrNop(logger).With("module", "shell")}
	for _, r := range []Route{RouteHome, RoutePublications, RouteProfile} {
		s.screens[r] = screens[r]
	}
	return s
}

// Current returns the current route, or "" before the first Navigate.
func (s *Shell) Current() Route {
	return s.current
}

// Navigate leaves the current screen and enters the one mounted on r.
// Navigating to the current route does nothing.
func (s *Shell) Navigate(ctx context.Context, r Route) error {
	next, ok := s.screens[r]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, r)
	}
	if r == s.current {
		return nil
	}

	s.leave()
	if next != nil {
		if err := next.Enter(ctx); err != nil {
			return fmt.Errorf("open %s: %w", r, err)
		}
	}
	s.logger.Debug(ctx, "route changed", "route", r)
	s.current = r
	return nil
}

// Close leaves the current screen.
func (s *Shell) Close() {
	s.leave()
}

func (s *Shell) leave() {
	if cur := s.screens[s.current]; cur != nil {
		cur.Leave()
	}
	s.current = ""
}
