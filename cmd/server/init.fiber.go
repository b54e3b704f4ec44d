package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"vidtube/config"
	basehdl "vidtube/internal/api/base/handler"
	commentrouter "vidtube/internal/api/comment/router"
	dashboardrouter "vidtube/internal/api/dashboard/router"
	likerouter "vidtube/internal/api/like/router"
	playlistrouter "vidtube/internal/api/playlist/router"
	apirouter "vidtube/internal/api/router"
	subscriptionrouter "vidtube/internal/api/subscription/router"
	tweetrouter "vidtube/internal/api/tweet/router"
	userrouter "vidtube/internal/api/user/router"
	videorouter "vidtube/internal/api/video/router"
	"vidtube/internal/common"
	"vidtube/internal/logger"
)

const healthPath = "/api/v1/healthcheck"

// InitFiberApp khởi tạo ứng dụng Fiber, middleware và toàn bộ route
func InitFiberApp(cfg *config.Configuration, deps apirouter.Deps) (*fiber.App, error) {
	app := newFiberApp(cfg)

	err := apirouter.SetupRoutes(app, deps,
		userrouter.Register,
		videorouter.Register,
		commentrouter.Register,
		likerouter.Register,
		subscriptionrouter.Register,
		playlistrouter.Register,
		tweetrouter.Register,
		dashboardrouter.Register,
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// newFiberApp tạo app với cấu hình và middleware stack, chưa có route
func newFiberApp(cfg *config.Configuration) *fiber.App {
	bodyLimitMB := cfg.BodyLimitMB
	if bodyLimitMB <= 0 {
		bodyLimitMB = 200
	}

	app := fiber.New(fiber.Config{
		AppName:       "VideoTube API",
		ServerHeader:  "VideoTube API",
		StrictRouting: false,
		CaseSensitive: true,

		// Upload video đi qua body nên limit lớn hơn mặc định
		BodyLimit:       bodyLimitMB * 1024 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID để trace
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))
	app.Use(func(c fiber.Ctx) error {
		logger.BindRequest(c)
		return c.Next()
	})

	// 2. CORS, đặt trước các middleware khác để xử lý preflight
	app.Use(cors.New(corsConfig(cfg)))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limit theo IP
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, common.MsgTooManyRequests)
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	return app
}

func corsConfig(cfg *config.Configuration) cors.Config {
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "" && cfg.CORS_Origins != "*" {
		allowOrigins = strings.Split(cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	allowCredentials := cfg.CORS_AllowCredentials
	if allowCredentials && allowOrigins[0] == "*" {
		// Trình duyệt không chấp nhận credentials với origin "*"
		logger.GetAppLogger().Warn("CORS_ALLOW_CREDENTIALS ignored because CORS_ORIGINS is *")
		allowCredentials = false
	}

	return cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: allowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}
}

// errorHandler đưa lỗi cấp Fiber (route không tồn tại, body quá lớn, rate limit...) về cùng envelope lỗi
func errorHandler(c fiber.Ctx, err error) error {
	status, body := basehdl.ErrorEnvelope(fromFiberError(err))
	if status >= common.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request error")
	}
	return basehdl.JSONResponse(c, status, body)
}

func fromFiberError(err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return err
	}

	switch fiberErr.Code {
	case fiber.StatusNotFound:
		return common.NewError(common.ErrCodeDatabaseQuery, common.MsgNotFound, fiberErr.Code, nil)
	case fiber.StatusTooManyRequests:
		return common.NewError(common.ErrCodeBusinessOperation, common.MsgTooManyRequests, fiberErr.Code, nil)
	case fiber.StatusRequestEntityTooLarge:
		return common.NewError(common.ErrCodeValidationInput, "Dữ liệu gửi lên vượt quá giới hạn cho phép", fiberErr.Code, nil)
	case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
		return common.NewError(common.ErrCodeValidationInput, common.MsgBadRequest, fiberErr.Code, nil)
	}
	if fiberErr.Code < common.StatusInternalServerError {
		return common.NewError(common.ErrCodeValidationInput, fiberErr.Message, fiberErr.Code, nil)
	}
	return common.NewInternalError(common.MsgInternalError, err)
}
