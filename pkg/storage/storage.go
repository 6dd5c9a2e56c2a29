// Package storage stores uploaded files (voice memos) on the local disk or an S3 compatible bucket
// Package storage 将上传文件（语音备忘）保存到本地磁盘或 S3 兼容存储
package storage

import (
	"context"
	"io"

	"github.com/pulse-beyond/pulse-beyond/pkg/code"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage/aws_s3"
	"github.com/pulse-beyond/pulse-beyond/pkg/storage/local_fs"
)

type Type = string

const (
	LOCAL Type = "localfs"
	S3    Type = "s3"
)

var StorageTypeMap = map[Type]bool{
	LOCAL: true,
	S3:    true,
}

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type       Type   `yaml:"type" default:"localfs"`
	CustomPath string `yaml:"custom-path"`

	// S3 compatible (AWS, MinIO, R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region" default:"us-east-1"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	UsePathStyle    bool   `yaml:"use-path-style"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/uploads"`
}

// Storager 文件存储接口
type Storager interface {
	// SendFile stores the reader under key and returns the stored path or object key
	SendFile(ctx context.Context, key string, file io.Reader, cType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewClient 根据配置创建存储客户端
func NewClient(ctx context.Context, config *Config) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType
	}

	switch config.Type {
	case LOCAL, "":
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(ctx, &aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			UsePathStyle:    config.UsePathStyle,
		})
	}
	return nil, code.ErrorInvalidStorageType.WithDetails(config.Type)
}
