// Package apitest runs an in-memory VeriNews API for tests. It speaks the same
// routes and payload shapes as the real backend and records every request it
// receives.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const routePrefix = "/api"

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Header        http.Header
	Body          []byte
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	secret      []byte
	users       map[string]*user
	records     []*storedRecord
	revoked     map[string]bool
	requests    []RecordedRequest
	failures    map[string]failure
	gates       map[string]chan struct{}
	stripBodies bool
	scorer      func(content string) float64
	now         func() time.Time
}

// New starts a fake API and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    make(map[string]*user),
		revoked:  make(map[string]bool),
		failures: make(map[string]failure),
		gates:    make(map[string]chan struct{}),
		scorer:   deterministicScore,
		now:      time.Now,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(func() {
		s.releaseAll()
		s.Close()
	})
	return s
}

// BaseURL is the value a client should use as its API base URL.
func (s *Server) BaseURL() string {
	return s.URL + routePrefix
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group(routePrefix)
	api.Use(s.recordRequest(), s.injectFailure())

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/logout", s.requireToken(), s.logout)

	api.POST("/analyze", s.requireToken(), s.analyze)
	api.GET("/history", s.requireToken(), s.listHistory)
	api.GET("/history/:id", s.requireToken(), s.getHistoryItem)
	api.DELETE("/history/:id", s.requireToken(), s.deleteHistoryItem)

	return router
}

// Fail makes every request to route (e.g. "/analyze" or "/history/:id")
// answer with status and the raw body. An empty body sends no payload.
func (s *Server) Fail(method, route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = failure{status: status, body: body}
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	gates := s.gates
	s.gates = make(map[string]chan struct{})
	s.mu.Unlock()
	for _, gate := range gates {
		close(gate)
	}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Hold blocks requests to route until the returned release func is called.
func (s *Server) Hold(method, route string) (release func()) {
	key := method + " " + route
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[key] = gate
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gates[key] == gate {
			delete(s.gates, key)
			close(gate)
		}
	}
}

// StripHistoryBodies makes GET /history omit content bodies, as a listing
// endpoint that only returns summaries would.
func (s *Server) StripHistoryBodies(strip bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stripBodies = strip
}

func (s *Server) SetScorer(scorer func(content string) float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scorer = scorer
}

func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit method+path, e.g. ("GET", "/api/history").
func (s *Server) Count(method, path string) int {
	count := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

// Last returns the most recent request to method+path.
func (s *Server) Last(method, path string) (RecordedRequest, bool) {
	requests := s.Requests()
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].Method == method && requests[i].Path == path {
			return requests[i], true
		}
	}
	return RecordedRequest{}, false
}

func (s *Server) recordRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Authorization: c.GetHeader("Authorization"),
			ContentType:   c.GetHeader("Content-Type"),
			Header:        c.Request.Header.Clone(),
			Body:          body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) injectFailure() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), routePrefix)

		s.mu.Lock()
		gate := s.gates[key]
		fail, failing := s.failures[key]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if !failing {
			c.Next()
			return
		}
		if fail.body == "" {
			c.AbortWithStatus(fail.status)
			return
		}
		c.Data(fail.status, "application/json", []byte(fail.body))
		c.Abort()
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
