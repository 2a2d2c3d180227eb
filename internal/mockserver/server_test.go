package mockserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/insyd/internal/model"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	s := New(nil)
	s.Seed("user123",
		model.Notification{ID: "1", Type: model.CategoryLike, Content: "a liked", Timestamp: "2025-01-01T00:00:00.000Z"},
		model.Notification{ID: "2", Type: model.CategoryComment, Content: "b commented", Timestamp: "2025-01-01T00:01:00.000Z"},
	)
	return s
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestListNotifications(t *testing.T) {
	s := newTestServer()

	w := serve(s, http.MethodGet, "/notifications/user123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got []model.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestListNotifications_UnknownUserIsEmptyArray(t *testing.T) {
	s := newTestServer()

	w := serve(s, http.MethodGet, "/notifications/nobody", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestDeleteNotification(t *testing.T) {
	s := newTestServer()

	w := serve(s, http.MethodDelete, "/notifications/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	remaining := s.Notifications("user123")
	require.Len(t, remaining, 1)
	assert.Equal(t, "2", remaining[0].ID)

	w = serve(s, http.MethodDelete, "/notifications/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Notification not found"}`, w.Body.String())
}

func TestCreateEvent(t *testing.T) {
	s := newTestServer()

	body := `{"type":"post","sourceUserId":"user123","targetUserId":"u9","data":{"content":"hi"},"timestamp":"2025-02-01T10:00:00.000Z"}`
	w := serve(s, http.MethodPost, "/events", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	feed := s.Notifications("u9")
	require.Len(t, feed, 1)
	assert.Equal(t, model.CategoryPost, feed[0].Type)
	assert.Equal(t, "hi", feed[0].Content)
	assert.Equal(t, "2025-02-01T10:00:00.000Z", feed[0].Timestamp)
	assert.Len(t, feed[0].ID, 24)
}

func TestCreateEvent_Validation(t *testing.T) {
	s := newTestServer()

	w := serve(s, http.MethodPost, "/events", `{"type":"poke","targetUserId":"u9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown event type")

	w = serve(s, http.MethodPost, "/events", `{"type":"like","targetUserId":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "targetUserId is required")

	w = serve(s, http.MethodPost, "/events", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFailNext(t *testing.T) {
	s := newTestServer()
	s.FailNext(http.MethodPost, http.StatusTooManyRequests, "rate limited")
	s.FailNext(http.MethodGet, http.StatusInternalServerError, "")

	w := serve(s, http.MethodPost, "/events", `{"type":"like","targetUserId":"u9"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"rate limited"}`, w.Body.String())

	w = serve(s, http.MethodGet, "/notifications/user123", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())

	// Faults are consumed once.
	w = serve(s, http.MethodGet, "/notifications/user123", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestsAreRecorded(t *testing.T) {
	s := newTestServer()

	serve(s, http.MethodGet, "/notifications/user123", "")
	serve(s, http.MethodDelete, "/notifications/2", "")

	reqs := s.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/notifications/2", reqs[1].Path)
}
