package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Tên các logger dùng trong hệ thống
const (
	AppLogger   = "app"
	AuditLogger = "audit"
	ErrorLogger = "error"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	hooks     []*AsyncHook
	loggersMu sync.Mutex

	config *LogConfig
)

// Init khởi tạo hệ thống logging với cấu hình. Gọi lại Init sẽ áp dụng cho các logger tạo sau đó.
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	config = cfg

	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.LogPath, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

// GetLogger trả về logger theo tên (app, audit, error)
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		config = DefaultConfig()
		if config.Output == "file" || config.Output == "both" {
			_ = os.MkdirAll(config.LogPath, 0755)
		}
	}

	if logger, ok := loggers[name]; ok {
		return logger
	}

	logger := createLogger(name)
	loggers[name] = logger
	return logger
}

func createLogger(name string) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	// Ghi qua async hook để I/O chậm không block request
	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   getLogFilePath(name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	// FilterHook phải đứng trước AsyncHook
	logger.AddHook(NewFilterHook(config.FilterModules))
	if len(writers) > 0 {
		asyncHook := NewAsyncHookWithWriters(writers, 1000)
		hooks = append(hooks, asyncHook)
		logger.AddHook(asyncHook)
		logger.SetOutput(io.Discard)
	}

	logger.SetReportCaller(true)

	logger.WithFields(logrus.Fields{
		"logger": name,
		"level":  logger.GetLevel().String(),
		"format": config.Format,
		"output": config.Output,
	}).Debug("Logger initialized successfully")

	return logger
}

func getLogFilePath(name string) string {
	var filename string
	switch name {
	case AppLogger:
		filename = config.AppFile
	case AuditLogger:
		filename = config.AuditFile
	case ErrorLogger:
		filename = config.ErrorFile
	default:
		filename = fmt.Sprintf("%s.log", name)
	}
	return filepath.Join(config.LogPath, filename)
}

// Close xả hết log còn trong buffer, gọi khi tắt server
func Close() {
	loggersMu.Lock()
	pending := hooks
	hooks = nil
	loggersMu.Unlock()

	for _, h := range pending {
		_ = h.Close()
	}
}

// GetAppLogger trả về logger chính của ứng dụng
func GetAppLogger() *logrus.Logger {
	return GetLogger(AppLogger)
}

// GetAuditLogger trả về logger cho audit
func GetAuditLogger() *logrus.Logger {
	return GetLogger(AuditLogger)
}

// GetErrorLogger trả về logger cho errors
func GetErrorLogger() *logrus.Logger {
	return GetLogger(ErrorLogger)
}
