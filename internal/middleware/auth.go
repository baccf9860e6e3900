package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/models"
	"github.com/akore648/videotube/internal/repo"
	"github.com/akore648/videotube/internal/tokens"
)

const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// SessionAuth is a pure verification gate: it resolves an access token to a
// sanitized user and never touches tokens or persisted state.
type SessionAuth struct {
	Repo         *repo.GormRepo
	AccessSecret []byte
}

func NewSessionAuth(r *repo.GormRepo, accessSecret []byte) *SessionAuth {
	return &SessionAuth{Repo: r, AccessSecret: accessSecret}
}

func (m *SessionAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractAccessToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(token, m.AccessSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		user, err := m.Repo.UserByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot resolve user")
		}

		c.Set(UserKey, user.Public())
		c.Set(UserIDKey, user.ID)
		return next(c)
	}
}

// ExtractAccessToken reads the accessToken cookie, falling back to a bearer
// Authorization header.
func ExtractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(tokens.AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// CurrentUser returns the sanitized user set by RequireAuth.
func CurrentUser(c echo.Context) (models.PublicUser, bool) {
	u, ok := c.Get(UserKey).(models.PublicUser)
	return u, ok
}

// CurrentUserID returns the authenticated user id, or uuid.Nil.
func CurrentUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
