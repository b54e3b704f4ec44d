package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidtube/config"
	"vidtube/internal/common"
	"vidtube/internal/logger"
)

// publicReadPolicy cho phép client đọc trực tiếp object qua URL công khai
const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}
	]
}`

// MinioStore lưu media trên MinIO
type MinioStore struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	probe          func(path string) (float64, error)
}

// NewMinioStore kết nối MinIO và đảm bảo bucket tồn tại (tạo mới + policy public-read nếu chưa có)
func NewMinioStore(ctx context.Context, cfg *config.Configuration) (*MinioStore, error) {
	client, err := minio.New(cfg.MinIO_Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO_AccessKey, cfg.MinIO_SecretKey, ""),
		Secure: cfg.MinIO_UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO_Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinIO_Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO_Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinIO_Bucket, err)
		}
		if err := client.SetBucketPolicy(ctx, cfg.MinIO_Bucket, fmt.Sprintf(publicReadPolicy, cfg.MinIO_Bucket)); err != nil {
			return nil, fmt.Errorf("set bucket policy %s: %w", cfg.MinIO_Bucket, err)
		}
		logger.GetAppLogger().WithField("bucket", cfg.MinIO_Bucket).Info("Media bucket created")
	}

	return &MinioStore{
		client:         client,
		bucket:         cfg.MinIO_Bucket,
		publicEndpoint: strings.TrimRight(cfg.MinIO_PublicEndpoint, "/"),
		probe:          ProbeDuration,
	}, nil
}

// Upload ghi file ra thư mục tạm (ffprobe cần đường dẫn) rồi đẩy lên bucket.
// Object name = <kind>/<uuid><ext>, cũng chính là PublicID dùng khi xóa.
func (s *MinioStore) Upload(ctx context.Context, file *multipart.FileHeader, kind Kind) (*UploadResult, error) {
	if file == nil {
		return nil, common.ErrRequiredField
	}

	tmpPath, err := saveTemp(file)
	if err != nil {
		return nil, common.NewError(common.ErrCodeMediaStorage, "Không thể đọc tệp tải lên", common.StatusInternalServerError, err)
	}
	defer os.Remove(tmpPath)

	objectName := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.FPutObject(ctx, s.bucket, objectName, tmpPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, common.NewError(common.ErrCodeMediaStorage, "Không thể tải tệp lên", common.StatusInternalServerError, err)
	}

	result := &UploadResult{
		URL:      s.ObjectURL(objectName),
		PublicID: objectName,
	}

	if kind == KindVideo && s.probe != nil {
		duration, err := s.probe(tmpPath)
		if err != nil {
			logger.GetAppLogger().WithError(err).WithField("publicId", objectName).Warn("Failed to probe video duration")
		} else {
			result.Duration = duration
		}
	}

	return result, nil
}

// Delete xóa object theo PublicID. PublicID rỗng được bỏ qua.
func (s *MinioStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return common.NewError(common.ErrCodeMediaStorage, "Không thể xóa tệp", common.StatusInternalServerError, err)
	}
	return nil
}

// ObjectURL trả về URL công khai của object
func (s *MinioStore) ObjectURL(objectName string) string {
	return s.publicEndpoint + "/" + s.bucket + "/" + objectName
}

func saveTemp(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(file.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
