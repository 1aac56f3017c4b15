// Package character implements the character-list domain handlers
// (AN/AC/CC) over a gorm-backed catalog, the CRUD storage pairing
// SPEC_FULL.md's domain stack calls for.
package character

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/domain/listcache"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/registry"
	"github.com/aoserver/aoserver/internal/session"
	"github.com/aoserver/aoserver/internal/telemetry"
)

// PageSize is the number of character names returned per AN/AC page.
const PageSize = 10

// Character is the persisted catalog entry backing the AN/AC handlers,
// per SPEC_FULL.md §3's {id, name, description} shape.
type Character struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
}

func (Character) TableName() string { return "characters" }

// Store is the gorm-backed character catalog plus an optional page cache.
type Store struct {
	db    *gorm.DB
	cache *listcache.Cache
}

// New migrates the characters table and returns a ready Store. cache may
// be nil to disable page caching.
func New(db *gorm.DB, cache *listcache.Cache) (*Store, error) {
	if err := db.AutoMigrate(&Character{}); err != nil {
		return nil, fmt.Errorf("migrating character schema: %w", err)
	}
	return &Store{db: db, cache: cache}, nil
}

// Count returns the total number of catalog characters.
func (st *Store) Count(ctx context.Context) (int, error) {
	var n int64
	if err := st.db.WithContext(ctx).Model(&Character{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return int(n), nil
}

// Get loads a single character by id. ok is false if no such row exists.
func (st *Store) Get(ctx context.Context, id int) (Character, bool, error) {
	var c Character
	err := st.db.WithContext(ctx).First(&c, id).Error
	if err == gorm.ErrRecordNotFound {
		return Character{}, false, nil
	}
	if err != nil {
		return Character{}, false, fmt.Errorf("loading character %d: %w", id, err)
	}
	return c, true, nil
}

// names returns page page's character names in id order, consulting the
// page cache first.
func (st *Store) names(ctx context.Context, page uint32) ([]string, error) {
	_, span := telemetry.StartCacheSpan(ctx, "lookup", telemetry.CacheSource("character"), telemetry.Page(page))
	defer span.End()

	key := listcache.Key("character", page)
	if st.cache != nil {
		if cached, ok := st.cache.Get(key); ok {
			span.SetAttributes(telemetry.CacheHit(true))
			if len(cached) == 0 {
				return nil, nil
			}
			return strings.Split(string(cached), ","), nil
		}
	}
	span.SetAttributes(telemetry.CacheHit(false))

	var rows []Character
	if err := st.db.WithContext(ctx).
		Order("id").
		Offset(int(page) * PageSize).
		Limit(PageSize).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}

	names := make([]string, len(rows))
	for i, c := range rows {
		names[i] = c.Name
	}

	if st.cache != nil {
		_ = st.cache.Set(key, []byte(strings.Join(names, ",")))
	}
	return names, nil
}

// CharacterList implements session.Domain's AN handler.
func (st *Store) CharacterList(ctx context.Context, s *session.Session, page uint32) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanCharacterList, telemetry.SlotID(s.SlotID()), telemetry.Page(page))
	defer span.End()

	names, err := st.names(ctx, page)
	if err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "character list", err)
	}
	return s.Send(aoproto.CharacterPage{Page: page, Names: names})
}

// CharacterListAO2 implements the AC handler: the AO2 client expects the
// whole catalog up front rather than paging, so this sends every page in
// one sweep.
func (st *Store) CharacterListAO2(ctx context.Context, s *session.Session) error {
	count, err := st.Count(ctx)
	if err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "character count", err)
	}
	pages := (count + PageSize - 1) / PageSize
	for page := 0; page < pages; page++ {
		if err := st.CharacterList(ctx, s, uint32(page)); err != nil {
			return err
		}
	}
	return nil
}

// SelectCharacter implements the CC handler: validate the requested
// character exists (or is the spectator/unchosen sentinel), record it
// against the caller's registry session, and acknowledge.
func (st *Store) SelectCharacter(ctx context.Context, s *session.Session, clientID, charID uint32, hdid string) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanCharacterSelect, telemetry.SlotID(s.SlotID()), telemetry.CharacterID(int(charID)))
	defer span.End()

	id := int(charID)
	if id != registry.SpectatorSentinel && id != registry.UnchosenCharacter {
		if _, ok, err := st.Get(ctx, id); err != nil {
			return aoproto.WrapError(aoproto.KindHandler, "selecting character", err)
		} else if !ok {
			return aoproto.NewError(aoproto.KindHandler, "unknown character id %d", id)
		}
	}

	s.SetCharacter(id)
	logger.InfoCtx(ctx, "character selected", logger.CharacterID(id), logger.SlotID(s.SlotID()))
	return s.Send(aoproto.CharacterSelected{CharacterID: int32(id)})
}
