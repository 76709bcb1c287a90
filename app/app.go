package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/app/controller"
	"armario-virtual/app/router"
	"armario-virtual/config"
	"armario-virtual/db"
	"armario-virtual/models"
	"armario-virtual/repository"
	"armario-virtual/service"
)

// App is the initialized application
type App struct {
	Handler http.Handler

	session *service.SyncSession
	dbs     []*sql.DB
	logger  *log.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	a := &App{logger: logger}

	// Local store
	localDB, err := db.OpenLocal(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	a.dbs = append(a.dbs, localDB)
	local := repository.NewLocalRepository(localDB)

	// Remote collection
	remote, err := a.openRemote(ctx, cfg.Database)
	if err != nil {
		a.Close()
		return nil, err
	}

	codec := service.NewImageCodec(logger)
	thumbs := service.NewThumbnailCache(cfg.CacheDir, codec, logger)
	if err := thumbs.EnsureDir(); err != nil {
		logger.Warn("⚠️  thumbnail cache unavailable, images will be optimized per request", "dir", cfg.CacheDir, "err", err)
	}

	wardrobe := service.NewWardrobeService(local, remote, codec, logger)
	profile := service.NewProfileService(local, codec, logger)
	if err := wardrobe.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := profile.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Gemini.APIKey == "" {
		logger.Warn("⚠️  GEMINI_API_KEY is not set, AI requests will fail")
	}
	ai, err := service.NewGeminiService(ctx, cfg.Gemini, nil, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var archive service.ResultArchiveInterface
	if cfg.Storage.Endpoint != "" {
		resultArchive, err := service.NewResultArchive(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Warn("⚠️  try-on archive disabled", "err", err)
		} else {
			archive = resultArchive
		}
	}

	stylist := service.NewStylistService(wardrobe, profile, ai, service.NewGridCompositor(codec, logger), codec, archive, logger)

	var importer service.ImportServiceInterface
	if cfg.Drive.CredentialsPath != "" {
		drive, err := service.NewDriveService(ctx, cfg.Drive.CredentialsPath, logger)
		if err != nil {
			logger.Warn("⚠️  drive import disabled", "err", err)
		} else {
			importer = service.NewImportService(drive, wardrobe, stylist, logger)
		}
	}

	lookbook := service.NewLookbookService(wardrobe, thumbs, cfg.PublicBaseURL, cfg.ChromePath, logger)

	a.session = service.NewSyncSession(wardrobe, remote, local, logger)
	a.session.OnTransition(func(from, to models.SyncState) {
		logger.Info("🔄 sync state changed", "from", from, "to", to)
	})
	if err := a.session.Resume(ctx); err != nil {
		logger.Warn("⚠️  could not resume sync session", "err", err)
	}

	controllers := &router.Controllers{
		Wardrobe:  controller.NewWardrobeController(wardrobe, thumbs, logger),
		Selection: controller.NewSelectionController(wardrobe, logger),
		Profile:   controller.NewProfileController(profile, logger),
		Sync:      controller.NewSyncController(a.session, logger),
		Stylist:   controller.NewStylistController(stylist, archive, logger),
		Import:    controller.NewImportController(importer, cfg.Drive.FolderID, logger),
		Lookbook:  controller.NewLookbookController(lookbook, logger),
	}
	a.Handler = router.SetupRoutes(controllers, cfg.AllowedOrigins, logger)

	return a, nil
}

// openRemote connects to Postgres when a database is configured,
// otherwise rooms are shared only within this process
func (a *App) openRemote(ctx context.Context, cfg config.Database) (repository.RemoteCollectionInterface, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		a.logger.Warn("⚠️  no database configured, sync rooms are in-memory")
		return repository.NewMemoryCollection(), nil
	}

	conn, err := db.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.dbs = append(a.dbs, conn)

	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	return repository.NewPostgresCollection(conn, cfg.PollInterval, a.logger), nil
}

// Close stops the sync session and closes every database
func (a *App) Close() error {
	if a.session != nil {
		a.session.Close()
	}
	var errs []error
	for _, conn := range a.dbs {
		errs = append(errs, conn.Close())
	}
	return errors.Join(errs...)
}
