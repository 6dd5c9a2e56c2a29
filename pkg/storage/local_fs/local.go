package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/fileurl"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(cf *Config) (*LocalFS, error) {
	if cf == nil || cf.SavePath == "" {
		return nil, errors.New("local_fs: save path is required")
	}
	return &LocalFS{Config: cf}, nil
}

func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/") + fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/")
}

// SendFile 写入本地文件，返回文件完整路径
func (p *LocalFS) SendFile(ctx context.Context, key string, file io.Reader, cType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.FromSlash(p.getSavePath() + key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	return dst, nil
}

func (p *LocalFS) Delete(ctx context.Context, key string) error {
	dst := filepath.FromSlash(p.getSavePath() + key)
	if fileurl.IsExist(dst) {
		return os.Remove(dst)
	}
	return nil
}
