package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/service"
	"github.com/akore648/videotube/internal/tokens"
	"github.com/akore648/videotube/internal/transport"
)

type AuthHTTP struct {
	Users  *service.UserService
	Tokens *service.TokenService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	in := service.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		FullName: c.FormValue("fullName"),
		Password: c.FormValue("password"),
	}

	avatarPath, cleanAvatar, err := formFilePath(c, "avatar")
	if err != nil {
		l.Error("register_failed", "reason", "avatar spool", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read uploaded file")
	}
	defer cleanAvatar()

	coverPath, cleanCover, err := formFilePath(c, "coverImage")
	if err != nil {
		l.Error("register_failed", "reason", "cover spool", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read uploaded file")
	}
	defer cleanCover()

	user, err := h.Users.Register(ctx, in, avatarPath, coverPath)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return httpError(err)
	}

	return respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Users.Login(ctx, req.Identifier(), req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return httpError(err)
	}

	setTokenCookies(c, res.Pair)

	return respond(c, http.StatusOK, echo.Map{
		"user":         res.User,
		"accessToken":  res.Pair.AccessToken,
		"refreshToken": res.Pair.RefreshToken,
	}, "user logged in successfully")
}

// Refresh rotates the refresh token. The token comes from the cookie or,
// for non-browser clients, the request body.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	token := ""
	if cookie, err := c.Cookie(tokens.RefreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req transport.RefreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, _, err := h.Tokens.Rotate(ctx, token)
	if err != nil {
		l.Warn("refresh_failed", "error", err)
		return httpError(err)
	}

	setTokenCookies(c, *pair)

	return respond(c, http.StatusOK, echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Users.Logout(ctx, middleware.CurrentUserID(c)); err != nil {
		l.Error("logout_failed", "error", err)
		return httpError(err)
	}

	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/"))

	return respond(c, http.StatusOK, nil, "user logged out")
}

func setTokenCookies(c echo.Context, pair service.TokenPair) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, pair.RefreshToken, "/", pair.RefreshExp))
}
