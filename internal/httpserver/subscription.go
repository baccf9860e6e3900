package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/service"
)

type SubscriptionHTTP struct {
	Subscriptions *service.SubscriptionService
}

func (h *SubscriptionHTTP) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "subscription.subscribe")

	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "channel id is not a uuid")
	}

	if err := h.Subscriptions.Subscribe(ctx, middleware.CurrentUserID(c), channelID); err != nil {
		l.Warn("subscribe_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusCreated, nil, "subscribed")
}

func (h *SubscriptionHTTP) Unsubscribe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "subscription.unsubscribe")

	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "channel id is not a uuid")
	}

	if err := h.Subscriptions.Unsubscribe(ctx, middleware.CurrentUserID(c), channelID); err != nil {
		l.Warn("unsubscribe_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "unsubscribed")
}
