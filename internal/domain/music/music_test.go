package music

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoserver/aoserver/internal/session"
)

const sampleTOML = `
[[music]]
category = "== Vanilla =="

[[music.songs]]
name = "01_turnabout_courtroom_-_prologue.mp3"
length = 40.099833

[[music.songs]]
name = "02_cornered.mp3"
length = 35.5

[[music]]
category = "== Investigation =="

[[music.songs]]
name = "03_investigation.mp3"
length = 50.0
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "music.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))
	return path
}

func TestLoadCountsEverySong(t *testing.T) {
	list, err := Load(writeSample(t))
	require.NoError(t, err)
	assert.Equal(t, 3, list.SongCount())
}

func TestMusicListSendsOnePagePerCategory(t *testing.T) {
	list, err := Load(writeSample(t))
	require.NoError(t, err)

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	s := session.New(serverConn, session.Config{}, nil, nil, nil)

	done := make(chan error, 1)
	go func() { done <- list.MusicList(context.Background(), s) }()

	client := bufio.NewReader(clientConn)

	first, err := client.ReadString('%')
	require.NoError(t, err)
	assert.Equal(t, "FM#== Vanilla ==#01_turnabout_courtroom_-_prologue.mp3,02_cornered.mp3#%", first)

	second, err := client.ReadString('%')
	require.NoError(t, err)
	assert.Equal(t, "FM#== Investigation ==#03_investigation.mp3#%", second)

	require.NoError(t, <-done)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
