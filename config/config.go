package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8000"`                 // Cổng server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"videotube"`     // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials (cookie)
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	BodyLimitMB           int    `env:"BODY_LIMIT_MB" envDefault:"200"`            // Giới hạn body (MB), đủ lớn cho upload video

	// JWT
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"`
	AccessTokenExpiry  int    `env:"ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"1440"` // Phút
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`
	RefreshTokenExpiry int    `env:"REFRESH_TOKEN_EXPIRY_HOURS" envDefault:"240"` // Giờ
	CookieSecure       bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// Danh sách & tìm kiếm
	MaxPageLimit int64  `env:"MAX_PAGE_LIMIT" envDefault:"100"`         // Giới hạn trên của limit khi phân trang
	SearchMode   string `env:"SEARCH_MODE" envDefault:"text"`           // text | atlas
	SearchIndex  string `env:"SEARCH_INDEX" envDefault:"search-videos"` // Tên Atlas Search index (khi SEARCH_MODE=atlas)

	// MinIO (media host)
	MinIO_Endpoint       string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIO_AccessKey      string `env:"MINIO_ACCESS_KEY"`
	MinIO_SecretKey      string `env:"MINIO_SECRET_KEY"`
	MinIO_Bucket         string `env:"MINIO_BUCKET" envDefault:"videotube-media"`
	MinIO_PublicEndpoint string `env:"MINIO_PUBLIC_ENDPOINT" envDefault:"http://localhost:9000"`
	MinIO_UseSSL         bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Redis (cache thống kê kênh, tùy chọn)
	Redis_Addr     string `env:"REDIS_ADDR"` // Để trống = tắt cache
	Redis_Password string `env:"REDIS_PASSWORD"`
	Redis_DB       int    `env:"REDIS_DB" envDefault:"0"`
	StatsCacheTTL  int    `env:"STATS_CACHE_TTL" envDefault:"60"` // Giây

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi ngược lên cho tới khi gặp config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc file env (nếu có) rồi parse biến môi trường vào Configuration.
// Khi không tìm thấy file env, chỉ dùng biến môi trường của tiến trình (phù hợp khi chạy trong container).
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if _, statErr := os.Stat(envPath); statErr == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", envPath, err)
			}
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.SearchMode != "text" && cfg.SearchMode != "atlas" {
		return nil, fmt.Errorf("SEARCH_MODE không hợp lệ: %q (chỉ nhận text|atlas)", cfg.SearchMode)
	}
	if cfg.MaxPageLimit <= 0 {
		cfg.MaxPageLimit = 100
	}

	return &cfg, nil
}
