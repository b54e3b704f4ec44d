// Package router giữ các dependency dùng chung và helper đăng ký route cho các domain.
package router

import (
	"github.com/gofiber/fiber/v3"

	"vidtube/config"
	basehdl "vidtube/internal/api/base/handler"
	"vidtube/internal/api/middleware"
	"vidtube/internal/cache"
	"vidtube/internal/database"
	"vidtube/internal/storage"
)

// ============================================================================
// LƯU Ý: CÁCH ĐĂNG KÝ MIDDLEWARE TRONG FIBER V3
// ============================================================================
//
// Chữ ký route của Fiber v3 là Get(path, handler, middleware...): handler đứng TRƯỚC,
// middleware đứng SAU nhưng được chạy trước handler.
//
// SAI:  router.Get("/path", authMiddleware, handler)  → authMiddleware bị coi là handler cuối
// ĐÚNG: RegisterRouteWithMiddleware(router, "/prefix", "GET", "/path", []fiber.Handler{authMiddleware}, handler)
//
// Không dùng group.Use(mw) theo prefix: middleware sẽ áp lên mọi route cùng prefix
// (ví dụ /users/login cũng bị yêu cầu đăng nhập).
// ============================================================================

// Deps là các dependency được tạo một lần khi khởi động và truyền xuống domain router
type Deps struct {
	Config *config.Configuration
	Store  *database.Store
	Media  storage.MediaStore
	Cache  *cache.StatsCache
	Users  middleware.UserResolver
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app  *fiber.App
	deps Deps
	base *basehdl.BaseHandler
	auth fiber.Handler
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App, deps Deps) *Router {
	var maxLimit int64
	var secret string
	if deps.Config != nil {
		maxLimit = deps.Config.MaxPageLimit
		secret = deps.Config.AccessTokenSecret
	}
	r := &Router{
		app:  app,
		deps: deps,
		base: basehdl.NewBaseHandler(maxLimit),
	}
	if deps.Users != nil {
		r.auth = middleware.AuthMiddleware(secret, deps.Users)
	}
	return r
}

// Deps trả về dependency dùng chung
func (r *Router) Deps() Deps {
	return r.deps
}

// BaseHandler trả về BaseHandler dùng chung (đã cấu hình MaxPageLimit)
func (r *Router) BaseHandler() *basehdl.BaseHandler {
	return r.base
}

// Auth trả về middleware yêu cầu đăng nhập dưới dạng slice để truyền thẳng vào RegisterRouteWithMiddleware
func (r *Router) Auth() []fiber.Handler {
	if r.auth == nil {
		return nil
	}
	return []fiber.Handler{r.auth}
}

// RegisterRouteWithMiddleware đăng ký route với middleware chạy trước handler (cách đúng theo Fiber v3).
// Middleware chỉ áp cho đúng route này, không lan sang route khác cùng prefix.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)

	switch method {
	case fiber.MethodGet:
		routeGroup.Get(path, handler, middlewares...)
	case fiber.MethodPost:
		routeGroup.Post(path, handler, middlewares...)
	case fiber.MethodPut:
		routeGroup.Put(path, handler, middlewares...)
	case fiber.MethodPatch:
		routeGroup.Patch(path, handler, middlewares...)
	case fiber.MethodDelete:
		routeGroup.Delete(path, handler, middlewares...)
	default:
		routeGroup.Add([]string{method}, path, handler, middlewares...)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export).
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route dưới /api/v1. Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, deps Deps, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, deps)
	registerSystemRoutes(v1, deps)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}

// registerSystemRoutes đăng ký /healthcheck (không cần đăng nhập)
func registerSystemRoutes(v1 fiber.Router, deps Deps) {
	var db basehdl.Pinger
	if deps.Store != nil {
		db = deps.Store
	}
	systemHandler := basehdl.NewSystemHandler(db)
	v1.Get("/healthcheck", systemHandler.HandleHealth)
}
