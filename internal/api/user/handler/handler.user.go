// Package userhdl xử lý các request HTTP của domain user.
package userhdl

import (
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "vidtube/internal/api/base/handler"
	"vidtube/internal/api/middleware"
	userdto "vidtube/internal/api/user/dto"
	usersvc "vidtube/internal/api/user/service"
	"vidtube/internal/logger"
)

// UserHandler xử lý đăng ký, đăng nhập và hồ sơ người dùng
type UserHandler struct {
	*basehdl.BaseHandler
	userService  *usersvc.UserService
	tokens       usersvc.TokenConfig
	cookieSecure bool
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler(base *basehdl.BaseHandler, userService *usersvc.UserService, tokens usersvc.TokenConfig, cookieSecure bool) *UserHandler {
	return &UserHandler{
		BaseHandler:  base,
		userService:  userService,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}
}

func (h *UserHandler) setAuthCookies(c fiber.Ctx, tokens *usersvc.TokenPair) {
	now := time.Now()
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  now.Add(h.tokens.AccessTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  now.Add(h.tokens.RefreshTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// HandleRegister tạo tài khoản (multipart: avatar bắt buộc, coverImage tùy chọn)
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input userdto.RegisterInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		user, err := h.userService.Register(c.Context(), usersvc.RegisterParams{
			FullName:   input.FullName,
			Email:      input.Email,
			Username:   input.Username,
			Password:   input.Password,
			Avatar:     h.FormFile(c, "avatar"),
			CoverImage: h.FormFile(c, "coverImage"),
		})
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		logger.LogAuth("register", c, map[string]interface{}{"user_id": user.ID.Hex(), "success": true})
		h.HandleResponse(c, fiber.StatusCreated, "Đăng ký tài khoản thành công", user, nil)
		return nil
	})
}

// HandleLogin đăng nhập, set cookie HTTP-only và trả token trong body
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input userdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		user, tokens, err := h.userService.Login(c.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			logger.LogAuth("login", c, map[string]interface{}{"username": input.Username, "email": input.Email, "success": false})
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		h.setAuthCookies(c, tokens)
		logger.LogAuth("login", c, map[string]interface{}{"user_id": user.ID.Hex(), "success": true})
		h.HandleResponse(c, 0, "Đăng nhập thành công", fiber.Map{
			"user":         user,
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
		}, nil)
		return nil
	})
}

// HandleLogout xóa refresh token đã lưu và cookie
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		if err := h.userService.Logout(c.Context(), userID); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		c.ClearCookie(middleware.AccessTokenCookie, middleware.RefreshTokenCookie)
		logger.LogAuth("logout", c, nil)
		h.HandleResponse(c, 0, "Đăng xuất thành công", fiber.Map{}, nil)
		return nil
	})
}

// HandleRefreshToken cấp lại cặp token. Refresh token lấy từ cookie, không có thì lấy từ body.
func (h *UserHandler) HandleRefreshToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		incoming := c.Cookies(middleware.RefreshTokenCookie)
		if incoming == "" {
			var input userdto.RefreshTokenInput
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, 0, "", nil, err)
				return nil
			}
			incoming = input.RefreshToken
		}

		tokens, err := h.userService.RefreshTokens(c.Context(), incoming)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		h.setAuthCookies(c, tokens)
		h.HandleResponse(c, 0, "Đã làm mới access token", tokens, nil)
		return nil
	})
}

// HandleChangePassword đổi mật khẩu
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input userdto.ChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		if err := h.userService.ChangePassword(c.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		logger.LogAuth("change_password", c, nil)
		h.HandleResponse(c, 0, "Đổi mật khẩu thành công", fiber.Map{}, nil)
		return nil
	})
}

// HandleGetCurrentUser trả về user đã xác thực (đã được middleware tải sẵn)
func (h *UserHandler) HandleGetCurrentUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			userID, err := h.CurrentUserID(c)
			if err != nil {
				h.HandleResponse(c, 0, "", nil, err)
				return nil
			}
			loaded, err := h.userService.FindById(c.Context(), userID)
			if err != nil {
				h.HandleResponse(c, 0, "", nil, err)
				return nil
			}
			user = loaded
		}
		h.HandleResponse(c, 0, "Lấy thông tin người dùng thành công", user, nil)
		return nil
	})
}

// HandleUpdateAccount cập nhật fullName, email
func (h *UserHandler) HandleUpdateAccount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		var input userdto.UpdateAccountInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}

		user, err := h.userService.UpdateAccount(c.Context(), userID, input.FullName, input.Email)
		h.HandleResponse(c, 0, "Cập nhật tài khoản thành công", user, err)
		return nil
	})
}

// HandleUpdateAvatar thay ảnh đại diện (multipart field "avatar")
func (h *UserHandler) HandleUpdateAvatar(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		user, err := h.userService.UpdateAvatar(c.Context(), userID, h.FormFile(c, "avatar"))
		h.HandleResponse(c, 0, "Cập nhật ảnh đại diện thành công", user, err)
		return nil
	})
}

// HandleUpdateCoverImage thay ảnh bìa (multipart field "coverImage")
func (h *UserHandler) HandleUpdateCoverImage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		user, err := h.userService.UpdateCoverImage(c.Context(), userID, h.FormFile(c, "coverImage"))
		h.HandleResponse(c, 0, "Cập nhật ảnh bìa thành công", user, err)
		return nil
	})
}

// HandleGetChannelProfile hồ sơ kênh theo username
func (h *UserHandler) HandleGetChannelProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		viewer, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		profile, err := h.userService.GetChannelProfile(c.Context(), c.Params("username"), viewer)
		h.HandleResponse(c, 0, "Lấy hồ sơ kênh thành công", profile, err)
		return nil
	})
}

// HandleGetWatchHistory lịch sử xem của người dùng hiện tại
func (h *UserHandler) HandleGetWatchHistory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.CurrentUserID(c)
		if err != nil {
			h.HandleResponse(c, 0, "", nil, err)
			return nil
		}
		history, err := h.userService.GetWatchHistory(c.Context(), userID)
		h.HandleResponse(c, 0, "Lấy lịch sử xem thành công", history, err)
		return nil
	})
}
