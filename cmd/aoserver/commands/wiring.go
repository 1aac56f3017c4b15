package commands

import (
	"context"
	"fmt"

	gormsqlite "github.com/glebarez/sqlite"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aoserver/aoserver/internal/config"
	"github.com/aoserver/aoserver/internal/domain"
	"github.com/aoserver/aoserver/internal/domain/character"
	"github.com/aoserver/aoserver/internal/domain/courtroom"
	"github.com/aoserver/aoserver/internal/domain/evidence"
	"github.com/aoserver/aoserver/internal/domain/listcache"
	"github.com/aoserver/aoserver/internal/domain/music"
	"github.com/aoserver/aoserver/internal/identity"
	"github.com/aoserver/aoserver/internal/store/postgres"
	"github.com/aoserver/aoserver/internal/store/sqlite"
)

// openIdentityStore builds the identity.Store adapter (C6) matching
// cfg.Database.Driver, the Open Question resolution config.Validate
// already enforced (dsn required for postgres, path required for
// sqlite).
func openIdentityStore(ctx context.Context, cfg *config.Config) (identity.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pgCfg, err := parsePostgresDSN(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.New(ctx, pgCfg)
	default:
		return sqlite.New(cfg.Database.Path)
	}
}

// openCatalogDB opens the *gorm.DB backing the character and evidence
// catalogs, using the same driver choice as the identity store so a
// single database.driver setting governs the whole deployment.
func openCatalogDB(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return gorm.Open(gormpostgres.Open(cfg.Database.DSN), &gorm.Config{})
	default:
		return gorm.Open(gormsqlite.Open(cfg.Database.Path), &gorm.Config{})
	}
}

// buildDomain composes the character, evidence, music, and courtroom
// collaborators into a single session.Domain, the wiring point every
// session shares.
func buildDomain(ctx context.Context, cfg *config.Config, db *gorm.DB) (*domain.Domain, error) {
	cache, err := listcache.Open(cfg.ListCache.Dir, cfg.ListCache.TTL)
	if err != nil {
		return nil, fmt.Errorf("opening list cache: %w", err)
	}

	chars, err := character.New(db, cache)
	if err != nil {
		return nil, fmt.Errorf("opening character catalog: %w", err)
	}

	evid, err := evidence.New(ctx, db, evidence.ImageStoreConfig{
		Bucket:         cfg.Storage.S3Bucket,
		Region:         cfg.Storage.S3Region,
		Endpoint:       cfg.Storage.S3Endpoint,
		ForcePathStyle: cfg.Storage.S3ForcePathStyle,
	}, cache)
	if err != nil {
		return nil, fmt.Errorf("opening evidence catalog: %w", err)
	}

	songs, err := music.Load(cfg.Music.Path)
	if err != nil {
		return nil, fmt.Errorf("loading music list: %w", err)
	}

	return &domain.Domain{
		Characters: chars,
		Evidence:   evid,
		Music:      songs,
		Handlers:   courtroom.Handlers{},
	}, nil
}
