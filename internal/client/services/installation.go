package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/google/uuid"
)

// AppNamespace holds per-installation application data.
const AppNamespace = "app"

const keyInstallationID = "installation_id"

// newInstallationID is a seam for tests.
var newInstallationID = func() string { return uuid.NewString() }

// InstallationID returns the id of this installation, generating and
// persisting a new one on first use.
func InstallationID(ctx context.Context, db *sql.DB) (string, error) {
	var id string
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := preferences.NewSQLiteRepository(tx, AppNamespace)
		existing, ok, err := repo.GetString(ctx, keyInstallationID)
		if err != nil {
			return err
		}
		if ok && existing != "" {
			id = existing
			return nil
		}
		id = newInstallationID()
		return repo.SetString(ctx, keyInstallationID, id)
	})
	if err != nil {
		return "", fmt.Errorf("installation id: %w", err)
	}
	return id, nil
}
