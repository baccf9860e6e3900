package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/middleware"
)

type Deps struct {
	Auth          *AuthHTTP
	Users         *UserHTTP
	Channels      *ChannelHTTP
	Videos        *VideoHTTP
	Subscriptions *SubscriptionHTTP
	Session       *middleware.SessionAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/users/register", d.Auth.Register)
	v1.POST("/users/login", d.Auth.Login)
	v1.POST("/users/refresh", d.Auth.Refresh)
	v1.GET("/videos/search", d.Videos.Search)

	private := v1.Group("", d.Session.RequireAuth)

	private.POST("/users/logout", d.Auth.Logout)
	private.GET("/users/me", d.Users.Me)
	private.PATCH("/users/me", d.Users.UpdateAccount)
	private.POST("/users/me/password", d.Users.ChangePassword)
	private.PATCH("/users/me/avatar", d.Users.UpdateAvatar)
	private.PATCH("/users/me/cover", d.Users.UpdateCover)
	private.GET("/users/c/:username", d.Channels.Profile)
	private.GET("/users/history", d.Channels.WatchHistory)

	private.POST("/videos", d.Videos.Publish)
	private.GET("/videos/:id", d.Videos.Get)
	private.POST("/videos/:id/watch", d.Videos.Watch)
	private.GET("/channels/:id/videos", d.Videos.ChannelVideos)

	private.POST("/subscriptions/:channelId", d.Subscriptions.Subscribe)
	private.DELETE("/subscriptions/:channelId", d.Subscriptions.Unsubscribe)
}
