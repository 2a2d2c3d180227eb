// Package mockserver is an in-memory implementation of the notification
// backend used for local development and as the test double for the client
// packages.
package mockserver

import (
	"fmt"
	"net/http"
	"strings"
	gosync "sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/model"
)

// Request is a request observed by the server.
type Request struct {
	Method string
	Path   string
	Header http.Header
}

// fault is a scripted failure returned instead of the next matching request.
type fault struct {
	method  string
	status  int
	message string
}

// Server holds per-user feeds in memory, newest first.
type Server struct {
	mu       gosync.Mutex
	engine   *gin.Engine
	feeds    map[string][]model.Notification
	owners   map[string]string
	faults   []fault
	requests []Request
	log      logrus.FieldLogger
	now      func() time.Time
}

// New creates a server with empty feeds.
func New(log logrus.FieldLogger) *Server {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	s := &Server{
		feeds:  make(map[string][]model.Notification),
		owners: make(map[string]string),
		log:    log,
		now:    time.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.injectFaults)
	r.GET("/notifications/:userId", s.listNotifications)
	r.DELETE("/notifications/:id", s.deleteNotification)
	r.POST("/events", s.createEvent)
	s.engine = r

	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Seed appends notifications to userID's feed in the given order.
func (s *Server) Seed(userID string, items ...model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range items {
		s.feeds[userID] = append(s.feeds[userID], n)
		s.owners[n.ID] = userID
	}
}

// Notifications returns a copy of userID's feed.
func (s *Server) Notifications(userID string) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.feeds[userID]))
	copy(out, s.feeds[userID])
	return out
}

// FailNext makes the next request with the given method fail with status.
// An empty message produces a body without a message field.
func (s *Server) FailNext(method string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faults = append(s.faults, fault{method: method, status: status, message: message})
}

// Requests returns every request observed so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
	})
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetHeader("X-Request-ID"),
	}).Debug("request")

	c.Next()
}

func (s *Server) injectFaults(c *gin.Context) {
	s.mu.Lock()
	var hit *fault
	for i, f := range s.faults {
		if f.method == c.Request.Method {
			hit = &s.faults[i]
			s.faults = append(s.faults[:i:i], s.faults[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if hit == nil {
		c.Next()
		return
	}

	if hit.message == "" {
		c.AbortWithStatus(hit.status)
		return
	}
	c.AbortWithStatusJSON(hit.status, gin.H{"message": hit.message})
}

func (s *Server) listNotifications(c *gin.Context) {
	userID := c.Param("userId")

	c.JSON(http.StatusOK, s.Notifications(userID))
}

func (s *Server) deleteNotification(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}

	feed := s.feeds[owner]
	for i, n := range feed {
		if n.ID == id {
			s.feeds[owner] = append(feed[:i:i], feed[i+1:]...)
			break
		}
	}
	delete(s.owners, id)

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (s *Server) createEvent(c *gin.Context) {
	var draft model.EventDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event payload"})
		return
	}

	if !draft.Type.Known() {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Unknown event type %q", draft.Type)})
		return
	}
	if strings.TrimSpace(draft.TargetUserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "targetUserId is required"})
		return
	}

	content := strings.TrimSpace(draft.Data.Content)
	if content == "" {
		content = fmt.Sprintf("%s sent you a %s", draft.SourceUserID, draft.Type)
	}
	timestamp := draft.Timestamp
	if timestamp == "" {
		timestamp = s.now().UTC().Format(model.EventTimestampLayout)
	}

	n := model.Notification{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Type:      draft.Type,
		Content:   content,
		Timestamp: timestamp,
	}

	s.mu.Lock()
	s.feeds[draft.TargetUserID] = append([]model.Notification{n}, s.feeds[draft.TargetUserID]...)
	s.owners[n.ID] = draft.TargetUserID
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"message": "Event created", "_id": n.ID})
}
