package apitest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

type user struct {
	FullName     string
	Email        string
	PasswordHash []byte
}

type storedRecord struct {
	ID          string
	Owner       string
	Credibility float64
	Content     model.Content
	Source      string
	AnalyzedAt  time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type analyzeRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// AddUser registers an account directly.
func (s *Server) AddUser(fullName, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("hash password: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[normalizeEmail(email)] = &user{
		FullName:     fullName,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	}
}

// SeedRecord stores an analysis owned by email and returns its id.
func (s *Server) SeedRecord(email string, content model.Content, credibility float64, source string, analyzedAt time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &storedRecord{
		ID:          newID(),
		Owner:       normalizeEmail(email),
		Credibility: credibility,
		Content:     content,
		Source:      source,
		AnalyzedAt:  analyzedAt,
	}
	s.records = append([]*storedRecord{rec}, s.records...)
	return rec.ID
}

// RecordCount returns how many analyses email owns.
func (s *Server) RecordCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, rec := range s.records {
		if rec.Owner == normalizeEmail(email) {
			count++
		}
	}
	return count
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	account := s.users[normalizeEmail(req.Email)]
	s.mu.Unlock()
	if account == nil || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.respondAuth(c, http.StatusOK, "Login successful", account)
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Full name, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	email := normalizeEmail(req.Email)
	s.mu.Lock()
	_, exists := s.users[email]
	s.mu.Unlock()
	if exists {
		respondError(c, http.StatusBadRequest, "User already exists")
		return
	}

	s.AddUser(strings.TrimSpace(req.FullName), email, req.Password)
	s.mu.Lock()
	account := s.users[email]
	s.mu.Unlock()
	s.respondAuth(c, http.StatusCreated, "User created successfully", account)
}

func (s *Server) respondAuth(c *gin.Context, status int, message string, account *user) {
	token, err := s.issueToken(account.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	c.JSON(status, gin.H{
		"message": message,
		"token":   token,
		"user": gin.H{
			"email":    account.Email,
			"fullName": account.FullName,
		},
	})
}

func (s *Server) logout(c *gin.Context) {
	raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	s.mu.Lock()
	s.revoked[raw] = true
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	source := "TEXT"
	if req.Type == string(model.InputLink) {
		source = "URL"
	}

	s.mu.Lock()
	rec := &storedRecord{
		ID:          newID(),
		Owner:       c.GetString(contextEmailKey),
		Credibility: roundTo2(s.scorer(content)),
		Content: model.Content{
			Title: headline(content, 7),
			Body:  content,
		},
		Source:     source,
		AnalyzedAt: s.now().UTC(),
	}
	s.records = append([]*storedRecord{rec}, s.records...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"id":          rec.ID,
		"credibility": rec.Credibility,
		"content":     rec.Content,
		"source":      rec.Source,
		"analyzed":    rec.AnalyzedAt.Format(http.TimeFormat),
	})
}

func (s *Server) listHistory(c *gin.Context) {
	owner := c.GetString(contextEmailKey)

	s.mu.Lock()
	items := make([]gin.H, 0)
	for _, rec := range s.records {
		if rec.Owner != owner {
			continue
		}
		content := rec.Content
		if s.stripBodies {
			content.Body = ""
		}
		items = append(items, gin.H{
			"id":          rec.ID,
			"credibility": rec.Credibility,
			"content":     content,
			"source":      rec.Source,
			"analyzed":    rec.AnalyzedAt.UTC().Format(http.TimeFormat),
		})
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (s *Server) getHistoryItem(c *gin.Context) {
	rec, ok := s.ownedRecord(c)
	if !ok {
		return
	}
	// The item endpoint returns the stored document, which names its
	// timestamp analyzedAt.
	c.JSON(http.StatusOK, gin.H{
		"id":          rec.ID,
		"userId":      rec.Owner,
		"credibility": rec.Credibility,
		"content":     rec.Content,
		"source":      rec.Source,
		"analyzedAt":  rec.AnalyzedAt.UTC().Format(http.TimeFormat),
	})
}

func (s *Server) deleteHistoryItem(c *gin.Context) {
	rec, ok := s.ownedRecord(c)
	if !ok {
		return
	}
	s.mu.Lock()
	for i, candidate := range s.records {
		if candidate.ID == rec.ID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "History item deleted"})
}

func (s *Server) ownedRecord(c *gin.Context) (storedRecord, bool) {
	id := c.Param("id")
	owner := c.GetString(contextEmailKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID != id {
			continue
		}
		if rec.Owner != owner {
			respondError(c, http.StatusForbidden, "Unauthorized access")
			return storedRecord{}, false
		}
		return *rec, true
	}
	respondError(c, http.StatusNotFound, "History item not found")
	return storedRecord{}, false
}

func (s *Server) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func newID() string {
	return uuid.NewString()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func headline(content string, words int) string {
	fields := strings.Fields(content)
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " ")
}

// deterministicScore maps content to a stable score in [0, 100).
func deterministicScore(content string) float64 {
	var sum int
	for _, r := range content {
		sum = (sum*31 + int(r)) % 10000
	}
	return float64(sum) / 100
}

func roundTo2(value float64) float64 {
	return float64(int64(value*100+0.5)) / 100
}
