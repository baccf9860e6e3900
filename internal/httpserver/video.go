package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/search"
	"github.com/akore648/videotube/internal/service"
	"github.com/akore648/videotube/internal/transport"
	"github.com/akore648/videotube/internal/util"
)

type VideoHTTP struct {
	Videos   *service.VideoService
	Channels *service.ChannelService
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *VideoHTTP) Publish(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.publish")

	in := service.PublishVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	videoPath, cleanVideo, err := formFilePath(c, "videoFile")
	if err != nil {
		l.Error("publish_failed", "reason", "video spool", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read uploaded file")
	}
	defer cleanVideo()

	thumbPath, cleanThumb, err := formFilePath(c, "thumbnail")
	if err != nil {
		l.Error("publish_failed", "reason", "thumbnail spool", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read uploaded file")
	}
	defer cleanThumb()

	video, err := h.Videos.Publish(ctx, middleware.CurrentUserID(c), in, videoPath, thumbPath)
	if err != nil {
		l.Warn("publish_failed", "error", err)
		return httpError(err)
	}

	return respond(c, http.StatusCreated, video, "video published successfully")
}

func (h *VideoHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	video, err := h.Videos.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, video, "video fetched")
}

// Watch appends the video to the caller's watch history.
func (h *VideoHTTP) Watch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.watch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Channels.RecordWatch(ctx, middleware.CurrentUserID(c), id); err != nil {
		l.Warn("record_watch_failed", "error", err)
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil, "watch recorded")
}

func (h *VideoHTTP) ChannelVideos(c echo.Context) error {
	ctx := c.Request().Context()

	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, videos, err := h.Videos.ListByChannel(ctx, channelID, offset, limit)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, echo.Map{
		"videos": videos,
		"meta": transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}, "channel videos fetched")
}

func (h *VideoHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is missing")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, videos, err := search.Videos(ctx, h.ES, h.ESIndex, q, from, limit)
	if err != nil {
		l.Error("search_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return respond(c, http.StatusOK, echo.Map{"total": total, "videos": videos}, "search results")
}
