package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/client/profileform"
)

const datePickLayout = "2006-01-02"

var (
	ErrNotOnProfile = errors.New("open the profile screen first")
	ErrNoRemote     = errors.New("no server connection configured")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

func (a *App) Route() Route {
	return a.shell.Current()
}

// Navigate switches routes and shows the new screen.
func (a *App) Navigate(ctx context.Context, r Route) error {
	if err := a.shell.Navigate(ctx, r); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Show renders the current route. On publications it waits for the loads
// of the current activation.
func (a *App) Show(ctx context.Context) error {
	width := terminalWidth()

	switch a.shell.Current() {
	case RouteProfile:
		printlnFn(RenderProfile(a.form.View(), width))
	case RoutePublications:
		if err := a.feed.Wait(ctx); err != nil {
			return err
		}
		printlnFn(RenderFeed(a.feed.Model(), a.location, width))
	default:
		printlnFn(RenderHome(width))
	}
	return nil
}

func (a *App) SetField(field, value string) error {
	if a.shell.Current() != RouteProfile {
		return ErrNotOnProfile
	}
	return a.form.UpdateField(profileform.Field(field), value)
}

// PickDate stores a YYYY-MM-DD date as the birth date, in the same text
// form the date picker produces.
func (a *App) PickDate(value string) error {
	if a.shell.Current() != RouteProfile {
		return ErrNotOnProfile
	}
	t, err := time.Parse(datePickLayout, value)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return a.form.UpdateField(profileform.FieldBirthDate, models.FormatBirthDate(t))
}

// Save submits the form and prints the confirmation dialog.
func (a *App) Save(ctx context.Context) error {
	if a.shell.Current() != RouteProfile {
		return ErrNotOnProfile
	}
	conf, err := a.form.Submit(ctx)
	if err != nil {
		return err
	}
	printlnFn(RenderConfirmation(conf))
	return nil
}

func (a *App) Acknowledge() error {
	if a.shell.Current() != RouteProfile {
		return ErrNotOnProfile
	}
	return a.form.Acknowledge()
}

func (a *App) Revert(ctx context.Context) error {
	if a.shell.Current() != RouteProfile {
		return ErrNotOnProfile
	}
	a.form.Revert()
	return a.Show(ctx)
}

// Ping checks that the document service is reachable.
func (a *App) Ping(ctx context.Context) error {
	if a.remote == nil {
		return ErrNoRemote
	}
	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}
	if err := a.remote.Ping(ctx); err != nil {
		return err
	}
	printlnFn("Server is reachable.")
	return nil
}
