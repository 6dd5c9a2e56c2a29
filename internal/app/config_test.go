package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	c, err := ParseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.HttpPort)
	assert.Equal(t, "sqlite", c.Database.Type)
	assert.True(t, c.Database.AutoMigrate)
	assert.Equal(t, 20, c.App.DefaultPageSize)
	assert.Equal(t, "mock", c.AI.Provider)
	assert.Equal(t, "0 9 * * 1", c.Schedule.NextIssue)
	assert.Equal(t, 60*time.Second, c.ContextTimeout())
	assert.Equal(t, 600*time.Second, c.GenerateTimeout())
}

func TestParseConfig_Overrides(t *testing.T) {
	c, err := ParseConfig([]byte(`
server:
  http-port: ":8080"
database:
  type: postgres
  host: db.internal
  port: 5432
app:
  max-audio-size: 5MB
  worker-pool-max-workers: 2
  write-queue-timeout: 3s
discovery:
  feeds:
    - https://feeds.example.com/tech
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.HttpPort)
	// unset fields keep their defaults
	assert.Equal(t, "storage/logs/log.log", c.Log.File)

	db := c.GetDatabaseConfig()
	assert.Equal(t, "postgres", db.Type)
	assert.Equal(t, 5432, db.Port)
	assert.Equal(t, c.Server.RunMode, db.RunMode)

	assert.EqualValues(t, 5<<20, c.GetUploadConfig().MaxAudioSize)
	assert.Equal(t, "audio", c.GetUploadConfig().KeyPrefix)
	assert.Equal(t, 2, c.GetWorkerPoolConfig().MaxWorkers)
	assert.Equal(t, 3*time.Second, c.GetWriteQueueConfig().WriteTimeout)
	assert.Equal(t, []string{"https://feeds.example.com/tech"}, c.Discovery.Feeds)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("server: ["))
	assert.Error(t, err)
}

func TestLoadConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  author: Ada\n"), 0o644))

	c, realpath, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, realpath)
	assert.Equal(t, "Ada", c.AI.Author)

	c.Schedule.NextIssue = ""
	require.NoError(t, c.Save())

	again, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.AI.Author)

	_, _, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
