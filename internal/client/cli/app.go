package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
	"github.com/dmitrijs2005/gophblog/internal/client/feedview"
	"github.com/dmitrijs2005/gophblog/internal/client/profileform"
	"github.com/dmitrijs2005/gophblog/internal/client/services"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db     *sql.DB
	store  *services.ProfileStore
	remote client.Client

	form  *profileform.Controller
	feed  *feedview.Controller
	shell *Shell

	location *time.Location
}

// NewApp opens the local database, creates the single profile store of this
// process and connects the feed client.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	installationID, err := services.InstallationID(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	remote, err := client.NewFeedClientService(c.ServerEndpointAddr, c.AccessToken, installationID)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("feed client: %w", err)
	}

	store := services.NewProfileStore(ctx, db, logger)
	feedService := services.NewFeedService(remote, logger)

	a := newApp(c, logger, store, feedService)
	a.db = db
	a.remote = remote
	logger.Info(ctx, "client started", "server", c.ServerEndpointAddr, "installation_id", installationID)
	return a, nil
}

// newApp wires controllers and routes; storage and transport are owned by
// the caller.
func newApp(c *config.Config, logger logging.Logger, store *services.ProfileStore, posts feedview.PostFetcher) *App {
	form := profileform.New(store, logger)
	feed := feedview.New(store, posts, logger)

	return &App{
		config: c,
		logger: logger,
		store:  store,
		form:   form,
		feed:   feed,
		shell: NewShell(map[Route]Screen{
			RouteHome:         nil,
			RoutePublications: &feedScreen{view: feed, timeout: c.RequestTimeout},
			RouteProfile:      &profileScreen{form: form},
		}, logger),
		location: time.Local,
	}
}

// Run opens the start route and serves commands from stdin until the user
// exits. All resources are released before Run returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to gophblog (type 'help' for commands)")
	if err := a.Navigate(ctx, StartRoute); err != nil {
		printlnFn("Error:", err)
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// Close leaves the current route and releases the store, the remote
// connection and the database.
func (a *App) Close() {
	a.shell.Close()
	if a.store != nil {
		a.store.Close()
	}
	var errs []error
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(context.Background(), "shutdown", "error", err)
	}
}

func (a *App) status() string {
	s := string(a.shell.Current())
	if a.shell.Current() == RouteProfile && a.form.View().Dirty {
		s += "*"
	}
	return s
}
