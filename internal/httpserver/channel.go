package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/service"
)

type ChannelHTTP struct {
	Channels *service.ChannelService
}

func (h *ChannelHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "channel.profile")

	profile, err := h.Channels.GetChannelProfile(ctx, middleware.CurrentUserID(c), c.Param("username"))
	if err != nil {
		l.Warn("channel_profile_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile, "channel profile fetched")
}

func (h *ChannelHTTP) WatchHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "channel.watch_history")

	history, err := h.Channels.GetWatchHistory(ctx, middleware.CurrentUserID(c))
	if err != nil {
		l.Warn("watch_history_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, history, "watch history fetched")
}
