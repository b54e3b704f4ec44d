package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"vidtube/config"
	"vidtube/internal/common"
)

const minioPort = nat.Port("9000/tcp")

// startMinio chạy minio server, trả về cấu hình trỏ tới nó. -short hoặc không có Docker => skip.
func startMinio(ctx context.Context, t *testing.T) *config.Configuration {
	t.Helper()
	if testing.Short() {
		t.Skip("skip integration in -short mode")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{string(minioPort)},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "vidtube",
				"MINIO_ROOT_PASSWORD": "vidtube-secret",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort(minioPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skip integration: cannot start minio container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, minioPort)
	require.NoError(t, err)

	return &config.Configuration{
		MinIO_Endpoint:       fmt.Sprintf("%s:%s", host, port.Port()),
		MinIO_AccessKey:      "vidtube",
		MinIO_SecretKey:      "vidtube-secret",
		MinIO_Bucket:         "videotube-media",
		MinIO_PublicEndpoint: "http://cdn.test/",
	}
}

// newFileHeader dựng FileHeader như khi Fiber parse multipart. contentType rỗng => part không có header Content-Type.
func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestMinioStoreIntegration(t *testing.T) {
	ctx := context.Background()
	cfg := startMinio(ctx, t)

	store, err := NewMinioStore(ctx, cfg)
	require.NoError(t, err)
	// bucket đã có => khởi tạo lại không lỗi
	_, err = NewMinioStore(ctx, cfg)
	require.NoError(t, err)

	var probedPath string
	store.probe = func(path string) (float64, error) {
		probedPath = path
		_, statErr := os.Stat(path)
		require.NoError(t, statErr, "file tạm phải còn khi probe")
		return 0, errors.New("ffprobe not installed")
	}

	t.Run("video: lỗi probe chỉ log, content type mặc định, dọn file tạm", func(t *testing.T) {
		res, err := store.Upload(ctx, newFileHeader(t, "Clip.MP4", "", []byte("fake video bytes")), KindVideo)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.PublicID, "video/"))
		assert.True(t, strings.HasSuffix(res.PublicID, ".mp4"))
		assert.Equal(t, "http://cdn.test/videotube-media/"+res.PublicID, res.URL)
		assert.Zero(t, res.Duration)

		require.NotEmpty(t, probedPath)
		_, statErr := os.Stat(probedPath)
		assert.True(t, os.IsNotExist(statErr), "file tạm phải bị xóa sau upload")

		info, err := store.client.StatObject(ctx, cfg.MinIO_Bucket, res.PublicID, minio.StatObjectOptions{})
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", info.ContentType)
		assert.Equal(t, int64(len("fake video bytes")), info.Size)
	})

	t.Run("ảnh: giữ content type, không probe, xóa được", func(t *testing.T) {
		probedPath = ""
		res, err := store.Upload(ctx, newFileHeader(t, "avatar.png", "image/png", []byte{0x89, 'P', 'N', 'G'}), KindImage)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.PublicID, "image/"))
		assert.Empty(t, probedPath)

		info, err := store.client.StatObject(ctx, cfg.MinIO_Bucket, res.PublicID, minio.StatObjectOptions{})
		require.NoError(t, err)
		assert.Equal(t, "image/png", info.ContentType)

		require.NoError(t, store.Delete(ctx, res.PublicID))
		_, err = store.client.StatObject(ctx, cfg.MinIO_Bucket, res.PublicID, minio.StatObjectOptions{})
		assert.Error(t, err)
	})

	t.Run("đầu vào rỗng", func(t *testing.T) {
		_, err := store.Upload(ctx, nil, KindImage)
		assert.ErrorIs(t, err, common.ErrRequiredField)
		assert.NoError(t, store.Delete(ctx, ""))
	})
}
