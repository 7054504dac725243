package profileform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/observable"
)

type fakeSource struct {
	value *observable.Value[models.UserProfile]

	mu      sync.Mutex
	saved   []models.UserProfile
	saveErr error
	block   chan struct{}
	started chan struct{}

	// afterSave runs once the saved profile has been published.
	afterSave func()
}

func newFakeSource(initial models.UserProfile) *fakeSource {
	return &fakeSource{value: observable.NewValue(initial)}
}

func (f *fakeSource) Subscribe() *observable.Subscription[models.UserProfile] {
	return f.value.Subscribe()
}

func (f *fakeSource) Save(ctx context.Context, p models.UserProfile) error {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, p)
	f.value.Set(p)
	if f.afterSave != nil {
		f.afterSave()
	}
	return nil
}

func (f *fakeSource) savedProfiles() []models.UserProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UserProfile(nil), f.saved...)
}

var ann = models.UserProfile{FirstName: "Ann", LastName: "Lee", Email: "a@x.io", BirthDate: "1/2/1990", Age: 34}

func activate(t *testing.T, src ProfileSource) *Controller {
	t.Helper()
	c := New(src, nil)
	require.NoError(t, c.Activate(context.Background()))
	t.Cleanup(c.Deactivate)
	return c
}

func TestFormFromProfile(t *testing.T) {
	f := FormFromProfile(ann)
	assert.Equal(t, Form{FirstName: "Ann", LastName: "Lee", Email: "a@x.io", BirthDate: "1/2/1990", Age: "34"}, f)
	assert.Equal(t, ann, f.Profile())

	assert.Equal(t, "", FormFromProfile(models.UserProfile{}).Age)
}

func TestForm_ProfileCoercesAge(t *testing.T) {
	f := Form{Age: "abc"}
	assert.Equal(t, 0, f.Profile().Age)

	f.Age = " 41 "
	assert.Equal(t, 41, f.Profile().Age)
}

func TestActivate_SeedsFormFromStore(t *testing.T) {
	c := activate(t, newFakeSource(ann))

	v := c.View()
	assert.Equal(t, FormFromProfile(ann), v.Form)
	assert.Equal(t, StateEditing, v.State)
	assert.False(t, v.Dirty)
	assert.Nil(t, v.Confirmation)
}

func TestActivate_Twice(t *testing.T) {
	c := activate(t, newFakeSource(ann))
	assert.ErrorIs(t, c.Activate(context.Background()), ErrAlreadyActive)
}

func TestUpdateField(t *testing.T) {
	c := activate(t, newFakeSource(ann))

	require.NoError(t, c.UpdateField(FieldFirstName, "Bob"))
	assert.ErrorIs(t, c.UpdateField(Field("nickname"), "x"), ErrUnknownField)

	v := c.View()
	assert.True(t, v.Dirty)
	assert.Equal(t, "Bob", v.Form.FirstName)

	got, err := v.Form.Get(FieldFirstName)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got)
}

func TestExternalUpdate_AppliedWhenClean(t *testing.T) {
	src := newFakeSource(ann)
	c := activate(t, src)

	next := ann
	next.Email = "new@x.io"
	src.value.Set(next)

	assert.Eventually(t, func() bool {
		return c.View().Form.Email == "new@x.io"
	}, time.Second, 5*time.Millisecond)
}

func TestExternalUpdate_DoesNotOverwriteEdits(t *testing.T) {
	src := newFakeSource(ann)
	c := activate(t, src)

	require.NoError(t, c.UpdateField(FieldFirstName, "Bob"))

	next := ann
	next.Email = "new@x.io"
	src.value.Set(next)

	assert.Eventually(t, func() bool {
		return c.View().ExternalPending
	}, time.Second, 5*time.Millisecond)

	v := c.View()
	assert.Equal(t, "Bob", v.Form.FirstName)
	assert.Equal(t, "a@x.io", v.Form.Email)

	c.Revert()
	v = c.View()
	assert.False(t, v.Dirty)
	assert.False(t, v.ExternalPending)
	assert.Equal(t, FormFromProfile(next), v.Form)
}

func TestSubmit_Success(t *testing.T) {
	src := newFakeSource(models.UserProfile{})
	c := activate(t, src)

	require.NoError(t, c.UpdateField(FieldFirstName, "Ann"))
	require.NoError(t, c.UpdateField(FieldAge, "abc"))

	conf, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, conf.Succeeded())
	assert.Equal(t, models.UserProfile{FirstName: "Ann"}, conf.Profile)

	assert.Equal(t, []models.UserProfile{{FirstName: "Ann"}}, src.savedProfiles())

	v := c.View()
	assert.Equal(t, StateConfirming, v.State)
	assert.False(t, v.Dirty)
	assert.Equal(t, "", v.Form.Age)
	require.NotNil(t, v.Confirmation)
	assert.True(t, v.Confirmation.Succeeded())

	require.NoError(t, c.Acknowledge())
	assert.Equal(t, StateEditing, c.View().State)
	assert.Nil(t, c.View().Confirmation)
}

func TestSubmit_FailureIsReported(t *testing.T) {
	src := newFakeSource(ann)
	src.saveErr = errors.New("disk full")
	c := activate(t, src)

	require.NoError(t, c.UpdateField(FieldLastName, "Kim"))

	conf, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, conf.Succeeded())
	assert.EqualError(t, conf.Err, "disk full")

	v := c.View()
	assert.Equal(t, StateConfirming, v.State)
	assert.True(t, v.Dirty, "edits are kept after a failed save")
	assert.Equal(t, "Kim", v.Form.LastName)
	require.NotNil(t, v.Confirmation)
	assert.False(t, v.Confirmation.Succeeded())
}

func TestSubmit_StateChecks(t *testing.T) {
	c := New(newFakeSource(ann), nil)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)

	require.NoError(t, c.Activate(context.Background()))
	defer c.Deactivate()

	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, c.Acknowledge())
	assert.ErrorIs(t, c.Acknowledge(), ErrInvalidState)
}

func TestDeactivate_CancelsInFlightSubmit(t *testing.T) {
	src := newFakeSource(ann)
	src.block = make(chan struct{})
	src.started = make(chan struct{})

	c := New(src, nil)
	require.NoError(t, c.Activate(context.Background()))
	require.NoError(t, c.UpdateField(FieldFirstName, "Bob"))

	type result struct {
		conf Confirmation
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conf, err := c.Submit(context.Background())
		done <- result{conf, err}
	}()

	<-src.started
	c.Deactivate()

	select {
	case r := <-done:
		assert.ErrorIs(t, r.err, ErrNotActive)
		assert.ErrorIs(t, r.conf.Err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("submit did not return after deactivate")
	}

	v := c.View()
	assert.Equal(t, StateEditing, v.State)
	assert.Nil(t, v.Confirmation)
	assert.Empty(t, src.savedProfiles())
}

func TestDeactivate_Unsubscribes(t *testing.T) {
	src := newFakeSource(ann)
	c := New(src, nil)
	require.NoError(t, c.Activate(context.Background()))
	assert.Equal(t, 1, src.value.Subscribers())

	c.Deactivate()
	assert.Equal(t, 0, src.value.Subscribers())

	// idempotent
	c.Deactivate()
}

func TestActivate_AfterDeactivateDiscardsEdits(t *testing.T) {
	src := newFakeSource(ann)
	c := New(src, nil)
	require.NoError(t, c.Activate(context.Background()))
	require.NoError(t, c.UpdateField(FieldFirstName, "Bob"))
	c.Deactivate()

	require.NoError(t, c.Activate(context.Background()))
	defer c.Deactivate()

	v := c.View()
	assert.False(t, v.Dirty)
	assert.Equal(t, "Ann", v.Form.FirstName)
}

func TestActivate_CancelledContext(t *testing.T) {
	src := newFakeSource(ann)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(src, nil)
	// the first snapshot is already buffered, so either outcome is valid;
	// in both cases the controller must not leak the subscription once
	// the lifetime has ended.
	err := c.Activate(ctx)
	if err == nil {
		c.Deactivate()
	} else {
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 0, src.value.Subscribers())
}

func (c *Controller) latestProfile() models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

func TestSubmit_NewerStoredProfileWinsOverSubmitted(t *testing.T) {
	src := newFakeSource(ann)
	c := activate(t, src)

	external := models.UserProfile{FirstName: "External", Email: "ext@x.io"}
	src.afterSave = func() {
		src.value.Set(external)
		require.Eventually(t, func() bool { return c.latestProfile() == external }, time.Second, time.Millisecond)
	}

	require.NoError(t, c.UpdateField(FieldFirstName, "Local"))
	conf, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, conf.Succeeded())
	assert.Equal(t, "Local", conf.Profile.FirstName)

	v := c.View()
	assert.Equal(t, FormFromProfile(external), v.Form)
	assert.False(t, v.Dirty)
	assert.False(t, v.ExternalPending)

	c.Revert()
	assert.Equal(t, FormFromProfile(external), c.View().Form)
}

func TestActivate_RacingDeactivate(t *testing.T) {
	src := newFakeSource(ann)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c := New(src, nil)
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = c.Activate(context.Background())
			}()
			go func() {
				defer wg.Done()
				c.Deactivate()
			}()
			wg.Wait()
			c.Deactivate()
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Activate and Deactivate deadlocked")
	}
	assert.Equal(t, 0, src.value.Subscribers())
}
