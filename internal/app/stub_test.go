package app

import (
	"context"
	"sync"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

// stubBackend scripts every backend call and counts invocations.
type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	authenticated bool
	user          *model.User

	loginErr   error
	signupErr  error
	logoutErr  error
	analyzeErr error
	historyErr error
	itemErr    error
	deleteErr  error

	analyzed  *model.AnalysisRecord
	history   []model.AnalysisRecord
	items     map[string]*model.AnalysisRecord
	lastInput string
	lastMode  model.InputMode

	// block, when set, is waited on by AnalyzeContent and GetHistoryItem.
	block   chan struct{}
	entered chan string

	// historyGate, when set, holds the next GetHistory call after it has
	// copied the list; historyEntered is signalled when that call starts.
	historyGate    chan struct{}
	historyEntered chan struct{}
}

func (s *stubBackend) setHistory(items ...model.AnalysisRecord) {
	s.mu.Lock()
	s.history = items
	s.mu.Unlock()
}

func newStub() *stubBackend {
	return &stubBackend{
		calls: make(map[string]int),
		items: make(map[string]*model.AnalysisRecord),
	}
}

func (s *stubBackend) record(name string) {
	s.mu.Lock()
	s.calls[name]++
	s.mu.Unlock()
}

func (s *stubBackend) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubBackend) wait(ctx context.Context, name string) {
	if s.entered != nil {
		s.entered <- name
	}
	if s.block == nil {
		return
	}
	select {
	case <-s.block:
	case <-ctx.Done():
	}
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	s.record("login")
	s.wait(ctx, "login")
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &model.AuthResponse{Token: "tok", User: &model.User{Email: email}}, nil
}

func (s *stubBackend) Signup(_ context.Context, fullName, email, _ string) (*model.AuthResponse, error) {
	s.record("signup")
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &model.AuthResponse{Token: "tok", User: &model.User{Email: email, FullName: fullName}}, nil
}

func (s *stubBackend) Logout(context.Context) error {
	s.record("logout")
	return s.logoutErr
}

func (s *stubBackend) AnalyzeContent(ctx context.Context, text string, mode model.InputMode) (*model.AnalysisRecord, error) {
	s.record("analyze")
	s.mu.Lock()
	s.lastInput, s.lastMode = text, mode
	s.mu.Unlock()
	s.wait(ctx, "analyze")
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.analyzed, nil
}

func (s *stubBackend) GetHistory(ctx context.Context) ([]model.AnalysisRecord, error) {
	s.record("history")
	s.mu.Lock()
	items := append([]model.AnalysisRecord(nil), s.history...)
	gate := s.historyGate
	s.historyGate = nil
	s.mu.Unlock()

	if gate != nil {
		if s.historyEntered != nil {
			s.historyEntered <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return items, nil
}

func (s *stubBackend) GetHistoryItem(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	s.record("item")
	s.wait(ctx, "item:"+id)
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	return s.items[id], nil
}

func (s *stubBackend) DeleteHistoryItem(_ context.Context, id string) error {
	s.record("delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	kept := s.history[:0:0]
	for _, item := range s.history {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.history = kept
	return nil
}

func (s *stubBackend) IsAuthenticated(context.Context) bool {
	return s.authenticated
}

func (s *stubBackend) CurrentUser(context.Context) (*model.User, error) {
	return s.user, nil
}
