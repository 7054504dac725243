// Package profileform holds the editable profile form shown on the profile
// route. The form is seeded from the profile store, edited locally and
// written back only through Submit.
package profileform

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/observable"
)

// ProfileSource is the part of services.ProfileStore the form uses.
type ProfileSource interface {
	Subscribe() *observable.Subscription[models.UserProfile]
	Save(ctx context.Context, p models.UserProfile) error
}

type State string

const (
	StateEditing    State = "editing"
	StateConfirming State = "confirming"
)

type Field string

const (
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
	FieldBirthDate Field = "birth_date"
	FieldAge       Field = "age"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldBirthDate, FieldAge}

var (
	ErrUnknownField  = errors.New("unknown profile field")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrNotActive     = errors.New("profile form is not active")
	ErrAlreadyActive = errors.New("profile form is already active")
)

// Form is the text content of the five inputs.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	BirthDate string
	Age       string
}

// FormFromProfile fills the inputs from a stored profile; age 0 is shown as
// an empty input.
func FormFromProfile(p models.UserProfile) Form {
	return Form{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		BirthDate: p.BirthDate,
		Age:       models.FormatAge(p.Age),
	}
}

// Profile converts the inputs to a record; age text is coerced leniently.
func (f Form) Profile() models.UserProfile {
	return models.UserProfile{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		BirthDate: f.BirthDate,
		Age:       models.ParseAge(f.Age),
	}
}

// Get returns the value of one input.
func (f Form) Get(field Field) (string, error) {
	switch field {
	case FieldFirstName:
		return f.FirstName, nil
	case FieldLastName:
		return f.LastName, nil
	case FieldEmail:
		return f.Email, nil
	case FieldBirthDate:
		return f.BirthDate, nil
	case FieldAge:
		return f.Age, nil
	default:
		return "", ErrUnknownField
	}
}

func (f *Form) set(field Field, value string) error {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldBirthDate:
		f.BirthDate = value
	case FieldAge:
		f.Age = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Confirmation is the outcome of a submit, shown until acknowledged.
type Confirmation struct {
	Profile models.UserProfile
	Err     error
}

// Succeeded reports whether the profile was committed.
func (c Confirmation) Succeeded() bool { return c.Err == nil }

// View is a consistent snapshot of the controller for rendering.
type View struct {
	Form  Form
	State State

	// Dirty is set while local edits have not been saved.
	Dirty bool

	// ExternalPending is set when a newer stored profile arrived while the
	// form was dirty. Revert applies it.
	ExternalPending bool

	Confirmation *Confirmation
}

type Controller struct {
	source ProfileSource
	logger logging.Logger

	mu              sync.Mutex
	form            Form
	latest          models.UserProfile
	applied         uint64 // snapshots taken since Activate
	dirty           bool
	externalPending bool
	state           State
	confirmation    *Confirmation

	// lifetime of the current activation
	ctx    context.Context
	cancel context.CancelFunc
	sub    *observable.Subscription[models.UserProfile]
	wg     sync.WaitGroup
}

func New(source ProfileSource, logger logging.Logger) *Controller {
	return &Controller{
		source: source,
		logger: logging.OrNop(logger).With("module", "profile_form"),
		state:  StateEditing,
	}
}

// Activate subscribes to the profile source. The first snapshot is applied
// before Activate returns; later ones are applied in the background until
// Deactivate or until ctx is done.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.sub = c.source.Subscribe()
	c.state = StateEditing
	c.confirmation = nil
	c.dirty = false
	c.externalPending = false
	c.applied = 0
	lifetime, sub := c.ctx, c.sub
	c.wg.Add(1)
	c.mu.Unlock()

	select {
	case p, ok := <-sub.C:
		if ok {
			c.apply(p)
		}
	case <-lifetime.Done():
		c.wg.Done()
		c.Deactivate()
		return lifetime.Err()
	}

	go c.follow(lifetime, sub)
	return nil
}

func (c *Controller) follow(ctx context.Context, sub *observable.Subscription[models.UserProfile]) {
	defer c.wg.Done()
	for {
		select {
		case p, ok := <-sub.C:
			if !ok {
				return
			}
			c.apply(p)
		case <-ctx.Done():
			return
		}
	}
}

// apply takes a stored snapshot. Pending local edits are never overwritten.
func (c *Controller) apply(p models.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = p
	c.applied++
	if c.dirty {
		if FormFromProfile(p) != c.form {
			c.externalPending = true
			c.logger.Debug(context.Background(), "stored profile changed while editing")
		}
		return
	}
	c.form = FormFromProfile(p)
	c.externalPending = false
}

// Deactivate ends the subscription and cancels an in-flight Submit. Local
// edits are discarded on the next Activate.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	cancel, sub := c.cancel, c.sub
	c.cancel, c.sub = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	sub.Unsubscribe()
	c.wg.Wait()
}

// UpdateField changes one input locally and marks the form dirty.
func (c *Controller) UpdateField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.form.set(field, value); err != nil {
		return err
	}
	c.dirty = true
	return nil
}

// Submit saves the current inputs and moves to the confirming state. The
// save result is carried in the returned Confirmation (and in View), so a
// failed save is reported as a failure. The returned error is only set when
// the form is not in a state to submit or was torn down mid-save; in the
// latter case no state is changed.
func (c *Controller) Submit(ctx context.Context) (Confirmation, error) {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return Confirmation{}, ErrNotActive
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return Confirmation{}, ErrInvalidState
	}
	p := c.form.Profile()
	lifetime := c.ctx
	applied := c.applied
	c.mu.Unlock()

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(lifetime, cancel)
	defer stop()

	err := c.source.Save(opCtx, p)

	c.mu.Lock()
	defer c.mu.Unlock()

	if lifetime.Err() != nil || c.ctx != lifetime {
		c.logger.Debug(ctx, "save finished after teardown, result dropped", "error", err)
		return Confirmation{Profile: p, Err: err}, ErrNotActive
	}

	conf := Confirmation{Profile: p, Err: err}
	c.confirmation = &conf
	c.state = StateConfirming

	if err != nil {
		c.logger.Warn(ctx, "profile save failed", "error", err)
		return conf, nil
	}

	// Snapshots that arrived during the save may be newer than p; the
	// stored profile wins over the submitted one.
	if c.applied == applied {
		c.latest = p
	}
	c.form = FormFromProfile(c.latest)
	c.dirty = false
	c.externalPending = false
	return conf, nil
}

// Acknowledge dismisses the confirmation and returns to editing.
func (c *Controller) Acknowledge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirming {
		return ErrInvalidState
	}
	c.state = StateEditing
	c.confirmation = nil
	return nil
}

// Revert drops local edits and shows the latest stored profile.
func (c *Controller) Revert() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = FormFromProfile(c.latest)
	c.dirty = false
	c.externalPending = false
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Form:            c.form,
		State:           c.state,
		Dirty:           c.dirty,
		ExternalPending: c.externalPending,
	}
	if c.confirmation != nil {
		conf := *c.confirmation
		v.Confirmation = &conf
	}
	return v
}
