package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/feedview"
	"github.com/dmitrijs2005/gophblog/internal/client/profileform"
)

type profileScreen struct {
	form *profileform.Controller
}

func (s *profileScreen) Enter(ctx context.Context) error { return s.form.Activate(ctx) }
func (s *profileScreen) Leave()                          { s.form.Deactivate() }

// feedScreen bounds one activation of the feed view by timeout.
type feedScreen struct {
	view    *feedview.Controller
	timeout time.Duration
	cancel  context.CancelFunc
}

func (s *feedScreen) Enter(ctx context.Context) error {
	if s.timeout > 0 {
		ctx, s.cancel = context.WithTimeout(ctx, s.timeout)
	}
	s.view.Activate(ctx)
	return nil
}

func (s *feedScreen) Leave() {
	s.view.Deactivate()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
