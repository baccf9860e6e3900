package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akore648/videotube/internal/tokens"
)

func (ts *testServer) authedRequest(t *testing.T, method, target string, body io.Reader, access string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: access})
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return ts.do(req)
}

func (ts *testServer) accessFor(t *testing.T, username string) string {
	t.Helper()
	ts.register(t, username)
	return cookieValue(t, ts.login(t, username), tokens.AccessCookieName)
}

func TestChannelProfileEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_ = ts.accessFor(t, "alice")
	bobAccess := ts.accessFor(t, "bob")

	// look up alice's id to subscribe
	rec := ts.authedRequest(t, http.MethodGet, "/api/v1/users/c/alice", nil, bobAccess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	profile := decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, false, profile["isSubscribed"])
	channelID := profile["id"].(string)

	rec = ts.authedRequest(t, http.MethodPost, "/api/v1/subscriptions/"+channelID, nil, bobAccess)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.authedRequest(t, http.MethodGet, "/api/v1/users/c/alice", nil, bobAccess)
	require.Equal(t, http.StatusOK, rec.Code)

	profile = decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, true, profile["isSubscribed"])
	assert.EqualValues(t, 1, profile["subscribersCount"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, profile, "refreshToken")

	t.Run("unknown channel", func(t *testing.T) {
		rec := ts.authedRequest(t, http.MethodGet, "/api/v1/users/c/nobody", nil, bobAccess)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		rec := ts.authedRequest(t, http.MethodDelete, "/api/v1/subscriptions/"+channelID, nil, bobAccess)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = ts.authedRequest(t, http.MethodGet, "/api/v1/users/c/alice", nil, bobAccess)
		profile := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.Equal(t, false, profile["isSubscribed"])
	})
}

func publishVideoForm(t *testing.T, title string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("description", "a test clip"))

	video, err := w.CreateFormFile("videoFile", title+".mp4")
	require.NoError(t, err)
	_, err = video.Write([]byte("fake video bytes"))
	require.NoError(t, err)

	thumb, err := w.CreateFormFile("thumbnail", title+".jpg")
	require.NoError(t, err)
	_, err = thumb.Write([]byte("fake thumb bytes"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (ts *testServer) publishVideo(t *testing.T, access, title string) string {
	t.Helper()

	body, contentType := publishVideoForm(t, title)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: access})
	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec).Data.(map[string]any)
	return data["id"].(string)
}

func TestWatchHistoryEndpoint_PreservesOrder(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ownerAccess := ts.accessFor(t, "owner")
	viewerAccess := ts.accessFor(t, "viewer")

	firstID := ts.publishVideo(t, ownerAccess, "first")
	secondID := ts.publishVideo(t, ownerAccess, "second")

	rec := ts.authedRequest(t, http.MethodPost, "/api/v1/videos/"+secondID+"/watch", nil, viewerAccess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.authedRequest(t, http.MethodPost, "/api/v1/videos/"+firstID+"/watch", nil, viewerAccess)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.authedRequest(t, http.MethodGet, "/api/v1/users/history", nil, viewerAccess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data []struct {
			ID    string `json:"id"`
			Owner struct {
				Username string `json:"username"`
				FullName string `json:"fullName"`
			} `json:"owner"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)

	assert.Equal(t, secondID, env.Data[0].ID)
	assert.Equal(t, firstID, env.Data[1].ID)
	assert.Equal(t, "owner", env.Data[0].Owner.Username)
	assert.Equal(t, "owner", env.Data[1].Owner.Username)
}

func TestPublishVideoEndpoint_Validation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	access := ts.accessFor(t, "owner")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "no files attached"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: access})
	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
