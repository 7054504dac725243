// Package services contains the client application services: the profile
// store backed by local preferences, the feed service reading the remote
// posts collection, and installation identity.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/observable"
)

// ProfileNamespace scopes the profile slots in the preferences table.
const ProfileNamespace = "user_prefs"

// Preference keys of the five profile slots.
const (
	KeyFirstName = "first_name"
	KeyLastName  = "last_name"
	KeyEmail     = "email"
	KeyBirthDate = "birth_date"
	KeyAge       = "age"
)

// ProfileStore exclusively owns the persisted UserProfile.
//
// Readers subscribe to a live stream of snapshots; Save replaces all five
// slots in one transaction and then publishes the new snapshot. The client
// App creates exactly one store at start-up and closes it on exit.
type ProfileStore struct {
	db     *sql.DB
	logger logging.Logger
	value  *observable.Value[models.UserProfile]

	// saveMu orders commit and publication, so subscribers see saves in
	// commit order (last write wins).
	saveMu sync.Mutex
}

// NewProfileStore reads the persisted profile and returns a store holding
// it. Reading never fails: an unreadable store or missing slots yield
// default values, and the problem is logged.
func NewProfileStore(ctx context.Context, db *sql.DB, logger logging.Logger) *ProfileStore {
	logger = logging.OrNop(logger).With("module", "profile_store")

	p, err := readProfile(ctx, preferences.NewSQLiteRepository(db, ProfileNamespace))
	switch {
	case err != nil:
		logger.Warn(ctx, "profile read failed, using defaults", "error", err)
	case p.IsZero():
		logger.Info(ctx, "no stored profile yet")
	}

	return &ProfileStore{
		db:     db,
		logger: logger,
		value:  observable.NewValue(p),
	}
}

// readProfile returns whatever slots could be read; on error the profile
// holds the slots read so far and defaults for the rest.
func readProfile(ctx context.Context, repo preferences.Repository) (models.UserProfile, error) {
	var p models.UserProfile

	for _, slot := range []struct {
		key string
		dst *string
	}{
		{KeyFirstName, &p.FirstName},
		{KeyLastName, &p.LastName},
		{KeyEmail, &p.Email},
		{KeyBirthDate, &p.BirthDate},
	} {
		v, _, err := repo.GetString(ctx, slot.key)
		if err != nil {
			return p, err
		}
		*slot.dst = v
	}

	age, _, err := repo.GetInt(ctx, KeyAge)
	if err != nil {
		return p, err
	}
	p.Age = int(age)

	return p, nil
}

// Subscribe returns a live subscription. Its channel immediately holds the
// current snapshot and receives every committed save afterwards. Callers
// must Unsubscribe when done.
func (s *ProfileStore) Subscribe() *observable.Subscription[models.UserProfile] {
	return s.value.Subscribe()
}

// Load returns what a fresh subscription would emit first: the current
// snapshot. It only fails when ctx is already done.
func (s *ProfileStore) Load(ctx context.Context) (models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.UserProfile{}, err
	}
	return s.value.Get(), nil
}

// Save atomically replaces the whole profile. Input is stored as given; no
// field is validated. Storage failures wrap common.ErrIOFailure and are not
// retried.
func (s *ProfileStore) Save(ctx context.Context, p models.UserProfile) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := preferences.NewSQLiteRepository(tx, ProfileNamespace)
		for _, slot := range []struct{ key, value string }{
			{KeyFirstName, p.FirstName},
			{KeyLastName, p.LastName},
			{KeyEmail, p.Email},
			{KeyBirthDate, p.BirthDate},
		} {
			if err := repo.SetString(ctx, slot.key, slot.value); err != nil {
				return err
			}
		}
		return repo.SetInt(ctx, KeyAge, int64(p.Age))
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Error(ctx, "profile save failed", "error", err)
		return fmt.Errorf("save profile: %w: %w", common.ErrIOFailure, err)
	}

	s.value.Set(p)
	s.logger.Debug(ctx, "profile saved")
	return nil
}

// Close completes every subscription. Later saves still persist but are
// no longer published.
func (s *ProfileStore) Close() {
	s.logger.Debug(context.Background(), "closing profile store", "subscribers", s.value.Subscribers())
	s.value.Close()
}
