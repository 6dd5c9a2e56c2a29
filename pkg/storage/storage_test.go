package storage_test

import (
	"context"
	"testing"

	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage/local_fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Local(t *testing.T) {
	client, err := storage.NewClient(context.Background(), &storage.Config{
		Type:     storage.LOCAL,
		SavePath: t.TempDir(),
	})
	require.NoError(t, err)
	_, ok := client.(*local_fs.LocalFS)
	assert.True(t, ok)
}

func TestNewClient_S3RequiresBucket(t *testing.T) {
	_, err := storage.NewClient(context.Background(), &storage.Config{Type: storage.S3, Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNewClient_Invalid(t *testing.T) {
	_, err := storage.NewClient(context.Background(), &storage.Config{Type: "webdav"})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorInvalidStorageType)
}
