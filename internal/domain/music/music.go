// Package music loads the server's song list from a TOML file at startup
// and answers the AM/AO2MusicList extension points, grounded in
// original_source/rusttorney-server/src/music_list.rs's
// MusicList{music: []Music{category, songs}} shape.
package music

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/session"
	"github.com/aoserver/aoserver/internal/telemetry"
)

// Song is one entry under a category, matching the reference TOML leaf.
type Song struct {
	Name   string  `toml:"name"`
	Length float32 `toml:"length"`
}

// Category is one [[music]] block: a named group of songs.
type Category struct {
	Name  string `toml:"category"`
	Songs []Song `toml:"songs"`
}

// list is the root TOML document, matching the reference's MusicList{music}.
type list struct {
	Music []Category `toml:"music"`
}

// List is the loaded, immutable song list served to clients. It has no
// mutation path at runtime: operators edit the TOML file and restart the
// process, matching the reference implementation's load-once behavior.
type List struct {
	categories []Category
	count      int
}

// Load reads and parses the music list TOML file at path.
func Load(path string) (*List, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading music list: %w", err)
	}

	var doc list
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing music list: %w", err)
	}

	count := 0
	for _, c := range doc.Music {
		count += len(c.Songs)
	}

	logger.Info("music list loaded", logger.Route(path), logger.ArgCount(count))
	return &List{categories: doc.Music, count: count}, nil
}

// SongCount is the total number of songs across every category, the value
// AskListLengths reports to the client.
func (l *List) SongCount() int { return l.count }

// MusicList implements session.Domain: send one SongPage per category, in
// file order. No terminating page follows the last category.
func (l *List) MusicList(ctx context.Context, s *session.Session) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanMusicList, telemetry.SlotID(s.SlotID()))
	defer span.End()

	for _, c := range l.categories {
		names := make([]string, len(c.Songs))
		for i, song := range c.Songs {
			names[i] = song.Name
		}
		if err := s.Send(aoproto.SongPage{Category: c.Name, Songs: names}); err != nil {
			return aoproto.WrapError(aoproto.KindHandler, "sending song page", err)
		}
	}
	logger.DebugCtx(ctx, "music list sent", logger.ArgCount(l.count))
	return nil
}
