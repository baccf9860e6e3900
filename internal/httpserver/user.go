package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/service"
	"github.com/akore648/videotube/internal/transport"
)

type UserHTTP struct {
	Users *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return respond(c, http.StatusOK, user, "current user fetched")
}

func (h *UserHTTP) UpdateAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_account")

	var req transport.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.UpdateAccount(ctx, middleware.CurrentUserID(c), req.FullName, req.Email)
	if err != nil {
		l.Warn("update_account_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, user, "account details updated")
}

func (h *UserHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_password")

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Users.ChangePassword(ctx, middleware.CurrentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		l.Warn("change_password_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "password changed")
}

func (h *UserHTTP) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", func(ctx echo.Context, path string) (any, error) {
		return h.Users.UpdateAvatar(ctx.Request().Context(), middleware.CurrentUserID(ctx), path)
	})
}

func (h *UserHTTP) UpdateCover(c echo.Context) error {
	return h.updateImage(c, "coverImage", func(ctx echo.Context, path string) (any, error) {
		return h.Users.UpdateCover(ctx.Request().Context(), middleware.CurrentUserID(ctx), path)
	})
}

func (h *UserHTTP) updateImage(c echo.Context, field string, update func(echo.Context, string) (any, error)) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "user.update_"+field)

	path, cleanup, err := formFilePath(c, field)
	if err != nil {
		l.Error("image_spool_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read uploaded file")
	}
	defer cleanup()

	user, err := update(c, path)
	if err != nil {
		l.Warn("image_update_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, user, field+" updated")
}
