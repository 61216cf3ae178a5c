package providers

import (
	"os"
	"path/filepath"
	"pcd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, name, logDir string) string {
	t.Helper()
	content := `webServer:
  host: 127.0.0.1
  port: 18090

rounds:
  voting:
    pitching: 90s
    preparing: 5s
    voting: 30s
  final:
    pitching: 300s
    ratingWarning: 5s
    ratingActive: 120s
  syncInterval: 1s

scoring:
  peerMin: 3
  peerMax: 10
  peerDefaultScore: 6.5
  judgeFinalMin: 30
  judgeFinalMax: 100
  judgeLiveMin: 0
  judgeLiveMax: 100

voting:
  maxNoVotes: 3
  startingTokens: 3

persistence:
  filePath: /tmp/pcd-test/ledgers.dat
  saveInterval: 30s

logger:
  level: info
  mode: 420
  dir: ` + logDir + `

cache:
  enabled: true
  size: 8
  ttl: 5

metrics:
  enabled: false
`
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfigProvider_LoadsYaml(t *testing.T) {
	path := writeTestConfig(t, "pcd-test-valid.yaml", t.TempDir())

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})

	require.NoError(t, err)
	assert.Equal(t, "PitchCycleDaemon", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 18090, conf.WebServer.Port)
	assert.Equal(t, 90*time.Second, conf.Rounds.Voting.Pitching)
	assert.Equal(t, time.Second, conf.Rounds.SyncInterval)
	assert.Equal(t, 6.5, conf.Scoring.PeerDefaultScore)
	assert.Equal(t, 3, conf.Voting.MaxNoVotes)
	// maxRetries is optional and falls back to its default.
	assert.Equal(t, 5, conf.Voting.MaxRetries)
}

func TestNewConfigProvider_MissingFileFails(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/pcd-test-absent.yaml"})

	assert.Error(t, err)
}
