package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"openlearner_backend/internal/config"
	"openlearner_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrObjectNotFound = errors.New("object not found")

// Provider 通用对象存储接口
type Provider interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// LocalProvider 本地磁盘实现
type LocalProvider struct {
	Root string
}

func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{Root: root}
}

// path 先按绝对路径清理 key，保证结果落在 Root 之内
func (p *LocalProvider) path(key string) string {
	return filepath.Join(p.Root, filepath.Clean("/"+key))
}

func (p *LocalProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := p.path(key)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (p *LocalProvider) Get(ctx context.Context, key string) ([]byte, error) {
	src := p.path(key)
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	return data, err
}

func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	dst := p.path(key)
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MinioProvider MinIO / S3 兼容存储实现
type MinioProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioProvider(cfg *config.MaterialConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

// EnsureBucket 桶不存在时创建
func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.Client.BucketExists(ctx, p.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return p.Client.MakeBucket(ctx, p.Bucket, minio.MakeBucketOptions{})
}

func (p *MinioProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioProvider) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := p.Client.GetObject(ctx, p.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioError(err)
	}
	return data, nil
}

func (p *MinioProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

func mapMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrObjectNotFound
	}
	return err
}

// New 按 material.backend 创建存储，store 表示不使用对象存储，返回 nil
func New(ctx context.Context, cfg *config.MaterialConfig) (Provider, error) {
	switch cfg.Backend {
	case util.StorageLocal:
		return NewLocalProvider(cfg.LocalPath), nil
	case util.StorageMinio:
		p, err := NewMinioProvider(cfg)
		if err != nil {
			return nil, err
		}
		if err := p.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}
