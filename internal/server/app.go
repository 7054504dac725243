// Package server wires the gophblog document service: configuration,
// PostgreSQL storage with migrations, S3 attachment links and the gRPC
// endpoint, plus the admin commands that share the same setup.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/netx"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"

	gs "github.com/dmitrijs2005/gophblog/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	documents *services.DocumentService
}

// NewApp connects to the database, applies migrations and builds the
// document service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	ds := services.NewDocumentService(db, rm, services.NewS3Presigner(c), logger)

	return &App{config: c, logger: logger, db: db, documents: ds}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.documents, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	if !app.config.AuthEnabled() {
		app.logger.Warn(ctx, "no secret key configured, queries are not authenticated")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}

// Publish stores one post; see services.DocumentService.Publish.
func (app *App) Publish(ctx context.Context, req services.PublishRequest) (services.PublishResult, error) {
	defer app.db.Close()
	return app.documents.Publish(ctx, req)
}

// UploadAttachment sends the local file at path to a presigned PUT link
// returned by Publish.
func UploadAttachment(ctx context.Context, uploadURL, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, uploadURL, f, st.Size()); err != nil {
		return fmt.Errorf("attachment upload: %w", err)
	}
	return nil
}

// IssueToken signs an access token for subject with the configured secret.
// It needs no database.
func IssueToken(c *config.Config, subject string) (string, time.Time, error) {
	if !c.AuthEnabled() {
		return "", time.Time{}, fmt.Errorf("no secret key configured (-s)")
	}
	tok, err := auth.GenerateToken(subject, []byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, time.Now().Add(c.TokenValidityDuration), nil
}
