package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_SendFileAndDelete(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(&Config{SavePath: dir, CustomPath: "audio"})
	require.NoError(t, err)

	ctx := context.Background()
	saved, err := client.SendFile(ctx, "202502/16/memo.m4a", strings.NewReader("voice"), "audio/mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "audio", "202502", "16", "memo.m4a"), saved)

	body, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "voice", string(body))

	require.NoError(t, client.Delete(ctx, "202502/16/memo.m4a"))
	_, err = os.Stat(saved)
	assert.True(t, os.IsNotExist(err))

	// deleting a missing file is not an error
	assert.NoError(t, client.Delete(ctx, "202502/16/memo.m4a"))
}

func TestLocalFS_RequiresSavePath(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
