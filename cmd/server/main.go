package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"vidtube/config"
	"vidtube/internal/logger"
)

// initLogger khởi tạo logger, đọc LOG_* sau khi file env đã được nạp
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath: đường dẫn tương đối được tính từ thư mục gốc project (thư mục chứa config/env)
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// listen chạy server (HTTP hoặc HTTPS) cho tới khi app bị shutdown
func listen(app *fiber.App, cfg *config.Configuration) error {
	address := ":" + cfg.Address
	log := logger.GetAppLogger()
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if !cfg.EnableTLS {
		log.WithFields(map[string]interface{}{"address": address, "protocol": "HTTP"}).Info("Starting server with HTTP")
		return app.Listen(address, listenConfig)
	}

	if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		return errors.New("ENABLE_TLS=true but TLS_CERT_FILE or TLS_KEY_FILE is empty")
	}
	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(map[string]interface{}{
		"address": address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, listenConfig)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogger()
	defer logger.Close()
	log := logger.GetAppLogger()

	resources := InitGlobal(cfg)
	defer resources.Close()

	app, err := InitFiberApp(cfg, resources.deps)
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- listen(app, cfg)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("Server stopped with error")
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received, draining requests...")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}
	log.Info("Server exited")
}
