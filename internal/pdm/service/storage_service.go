package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// StorageService 对象存储服务，封装MinIO
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(client *minio.Client, bucket string) *StorageService {
	return &StorageService{client: client, bucket: bucket}
}

// UploadResult 上传结果
type UploadResult struct {
	ObjectName string `json:"object_name"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	URL        string `json:"url"`
}

// EnsureBucket 确保存储桶存在
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket: %w", err)
		}
	}
	return nil
}

// Upload 上传文件，对象名按日期归档
func (s *StorageService) Upload(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}

	ext := filepath.Ext(fileName)
	objectName := fmt.Sprintf("uploads/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String()[:8], ext)

	if _, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	return &UploadResult{
		ObjectName: objectName,
		FileName:   fileName,
		Size:       size,
		MimeType:   contentType,
		URL:        "/" + s.bucket + "/" + objectName,
	}, nil
}

// Download 下载文件
func (s *StorageService) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}

// PresignedURL 生成限时下载链接
func (s *StorageService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("对象存储未配置")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}
