package app

import (
	"context"
	"errors"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

const analyzeFallbackMessage = "Failed to analyze content"

var (
	ErrEmptyInput   = errors.New("input is empty")
	ErrInvalidLink  = errors.New("link must be an absolute http or https URL")
	ErrSessionEnded = errors.New("session ended before the request finished")
)

type View string

const (
	ViewHome    View = "home"
	ViewResults View = "results"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeValidationError
	OutcomeNetworkError
	OutcomeBusy
	OutcomeSessionEnded
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation-error"
	case OutcomeNetworkError:
		return "network-error"
	case OutcomeBusy:
		return "busy"
	case OutcomeSessionEnded:
		return "session-ended"
	default:
		return "unknown"
	}
}

// Outcome reports how an analysis request ended.
type Outcome struct {
	Kind    OutcomeKind
	Record  *model.AnalysisRecord
	Message string
	Err     error
}

// Backend is the slice of the API client the workspace drives.
type Backend interface {
	Logout(ctx context.Context) error
	AnalyzeContent(ctx context.Context, text string, mode model.InputMode) (*model.AnalysisRecord, error)
	GetHistory(ctx context.Context) ([]model.AnalysisRecord, error)
	GetHistoryItem(ctx context.Context, id string) (*model.AnalysisRecord, error)
	DeleteHistoryItem(ctx context.Context, id string) error
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*model.User, error)
}

type State struct {
	Authenticated  bool
	User           *model.User
	View           View
	InputMode      model.InputMode
	Input          string
	SidebarOpen    bool
	Theme          Theme
	History        []model.AnalysisRecord
	Selected       *model.AnalysisRecord
	Analyzing      bool
	LoadingHistory bool
	LoadingItem    bool
	Error          string
}

type Workspace struct {
	mu      sync.Mutex
	backend Backend
	logger  *log.Logger
	guard   inflight
	state   State

	// session changes on every logout; results from an older session are dropped.
	session      uint64
	historyStale bool
}

func NewWorkspace(backend Backend, logger *log.Logger, theme Theme) *Workspace {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if theme != ThemeLight {
		theme = ThemeDark
	}
	return &Workspace{
		backend: backend,
		logger:  logger,
		state: State{
			View:      ViewHome,
			InputMode: model.InputText,
			Theme:     theme,
		},
	}
}

// Snapshot returns a copy of the current state that is safe to render while
// requests are still running.
func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.state
	if w.state.History != nil {
		snap.History = append([]model.AnalysisRecord(nil), w.state.History...)
	}
	if w.state.Selected != nil {
		selected := *w.state.Selected
		snap.Selected = &selected
	}
	if w.state.User != nil {
		user := *w.state.User
		snap.User = &user
	}
	return snap
}

// Mount restores a persisted session and loads history when one exists.
func (w *Workspace) Mount(ctx context.Context) error {
	gen := w.generation()
	authenticated := w.backend.IsAuthenticated(ctx)
	w.mu.Lock()
	if w.session != gen {
		w.mu.Unlock()
		return nil
	}
	w.state.Authenticated = authenticated
	w.mu.Unlock()
	if !authenticated {
		return nil
	}
	w.refreshUser(ctx, gen)
	return w.loadHistory(ctx, gen)
}

func (w *Workspace) HandleAuthenticate(ctx context.Context) error {
	w.mu.Lock()
	w.state.Authenticated = true
	gen := w.session
	w.mu.Unlock()
	w.refreshUser(ctx, gen)
	return w.loadHistory(ctx, gen)
}

func (w *Workspace) generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *Workspace) refreshUser(ctx context.Context, gen uint64) {
	user, err := w.backend.CurrentUser(ctx)
	if err != nil {
		w.logger.Printf("read current user failed: %v", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == gen {
		w.state.User = user
	}
}

// LoadHistory replaces the history list. Failures are logged and leave the
// previous list in place. A call that finds a load already running returns
// ErrBusy and marks the list stale, so the running load fetches once more.
func (w *Workspace) LoadHistory(ctx context.Context) error {
	return w.loadHistory(ctx, w.generation())
}

// loadHistory fetches on behalf of session gen and gives up once it ends.
func (w *Workspace) loadHistory(ctx context.Context, gen uint64) error {
	w.mu.Lock()
	if w.session != gen {
		w.mu.Unlock()
		return ErrSessionEnded
	}
	release, err := w.guard.acquire(ActionHistory)
	if err != nil {
		w.historyStale = true
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.session != gen {
			w.mu.Unlock()
			release()
			return ErrSessionEnded
		}
		w.historyStale = false
		w.state.LoadingHistory = true
		w.mu.Unlock()

		items, err := w.backend.GetHistory(ctx)

		w.mu.Lock()
		if w.session != gen {
			w.mu.Unlock()
			release()
			return ErrSessionEnded
		}
		if err != nil {
			w.state.LoadingHistory = false
			release()
			w.mu.Unlock()
			w.logger.Printf("load history failed: %v", err)
			return err
		}
		w.state.History = items
		if !w.historyStale {
			w.state.LoadingHistory = false
			release()
			w.mu.Unlock()
			return nil
		}
		w.mu.Unlock()
	}
}

// HandleCheck submits the current input for analysis.
func (w *Workspace) HandleCheck(ctx context.Context) Outcome {
	w.mu.Lock()
	input, mode := w.state.Input, w.state.InputMode
	content, err := validateInput(input, mode)
	if err != nil {
		w.mu.Unlock()
		return Outcome{Kind: OutcomeValidationError, Message: err.Error(), Err: err}
	}

	release, err := w.guard.acquire(ActionAnalyze)
	if err != nil {
		w.mu.Unlock()
		return Outcome{Kind: OutcomeBusy, Message: err.Error(), Err: err}
	}
	defer release()

	w.state.Analyzing = true
	w.state.Error = ""
	w.state.SidebarOpen = false
	gen := w.session
	w.mu.Unlock()

	record, err := w.backend.AnalyzeContent(ctx, content, mode)
	if err != nil {
		message := errorMessage(err, analyzeFallbackMessage)
		w.logger.Printf("analysis failed: %v", err)
		w.mu.Lock()
		if w.session != gen {
			w.mu.Unlock()
			return sessionEnded()
		}
		w.state.Analyzing = false
		w.state.Error = message
		w.mu.Unlock()
		return Outcome{Kind: OutcomeNetworkError, Message: message, Err: err}
	}

	if err := w.loadHistory(ctx, gen); err != nil && !errors.Is(err, ErrBusy) && !errors.Is(err, ErrSessionEnded) {
		w.logger.Printf("refresh history after analysis failed: %v", err)
	}

	w.mu.Lock()
	if w.session != gen {
		w.mu.Unlock()
		return sessionEnded()
	}
	selected := *record
	w.state.Selected = &selected
	w.state.View = ViewResults
	w.state.Input = ""
	w.state.Analyzing = false
	w.mu.Unlock()

	return Outcome{Kind: OutcomeSuccess, Record: record}
}

func sessionEnded() Outcome {
	return Outcome{Kind: OutcomeSessionEnded, Message: ErrSessionEnded.Error(), Err: ErrSessionEnded}
}

// validateInput returns the content to send. Text goes out as typed; links
// are trimmed and must be absolute http(s) URLs.
func validateInput(input string, mode model.InputMode) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if mode != model.InputLink {
		return input, nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", ErrInvalidLink
	}
	return trimmed, nil
}

// OpenHistoryItem shows item immediately and reports whether its full content
// still has to be fetched.
func (w *Workspace) OpenHistoryItem(item model.AnalysisRecord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	selected := item
	w.state.Selected = &selected
	w.state.View = ViewResults
	w.state.SidebarOpen = false
	w.state.LoadingItem = false
	return !item.HasBody()
}

// FetchHistoryItem loads the full record for id. The result is applied only
// if id is still the selected item; a newer selection wins.
func (w *Workspace) FetchHistoryItem(ctx context.Context, id string) error {
	release, err := w.guard.acquire(ActionHistoryItem, id)
	if err != nil {
		return err
	}
	defer release()

	w.mu.Lock()
	w.state.LoadingItem = true
	gen := w.session
	w.mu.Unlock()

	record, err := w.backend.GetHistoryItem(ctx, id)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session != gen {
		return ErrSessionEnded
	}
	current := w.state.Selected
	if current == nil || current.ID == id {
		w.state.LoadingItem = false
	}
	if err != nil {
		w.logger.Printf("load history item %s failed: %v", id, err)
		return err
	}
	if current == nil || current.ID != id {
		return nil
	}
	merged := mergeRecord(*current, *record)
	w.state.Selected = &merged
	return nil
}

func (w *Workspace) HandleHistoryClick(ctx context.Context, item model.AnalysisRecord) error {
	if !w.OpenHistoryItem(item) {
		return nil
	}
	return w.FetchHistoryItem(ctx, item.ID)
}

// mergeRecord fills gaps in the fetched record from the summary that was
// already on screen.
func mergeRecord(summary, fetched model.AnalysisRecord) model.AnalysisRecord {
	if fetched.ID == "" {
		fetched.ID = summary.ID
	}
	if fetched.Title == "" {
		fetched.Title = summary.Title
	}
	if fetched.Source == "" {
		fetched.Source = summary.Source
	}
	if fetched.Content.Title == "" {
		fetched.Content.Title = summary.Content.Title
	}
	if fetched.Content.Subtitle == "" {
		fetched.Content.Subtitle = summary.Content.Subtitle
	}
	if fetched.Content.Body == "" {
		fetched.Content.Body = summary.Content.Body
	}
	if fetched.Timestamp().IsZero() {
		fetched.Analyzed = summary.Analyzed
		fetched.CreatedAt = summary.CreatedAt
		fetched.AnalyzedAt = summary.AnalyzedAt
	}
	return fetched
}

// DeleteHistoryItem removes an analysis on the server and then reloads the
// history. Deleting the record on screen returns to home.
func (w *Workspace) DeleteHistoryItem(ctx context.Context, id string) error {
	release, err := w.guard.acquire(ActionDelete, id)
	if err != nil {
		return err
	}
	defer release()

	gen := w.generation()
	if err := w.backend.DeleteHistoryItem(ctx, id); err != nil {
		w.logger.Printf("delete history item %s failed: %v", id, err)
		return err
	}

	w.mu.Lock()
	if w.session != gen {
		w.mu.Unlock()
		return ErrSessionEnded
	}
	kept := w.state.History[:0:0]
	for _, item := range w.state.History {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	w.state.History = kept
	if w.state.Selected != nil && w.state.Selected.ID == id {
		w.state.Selected = nil
		w.state.View = ViewHome
	}
	w.mu.Unlock()

	if err := w.loadHistory(ctx, gen); err != nil && !errors.Is(err, ErrBusy) && !errors.Is(err, ErrSessionEnded) {
		w.logger.Printf("refresh history after delete failed: %v", err)
	}
	return nil
}

// HandleLogout ends the session and resets the view regardless of what the
// server answered. Theme and input mode survive. Requests still running are
// released and their results dropped when they arrive.
func (w *Workspace) HandleLogout(ctx context.Context) error {
	release, err := w.guard.acquire(ActionLogout)
	if err != nil {
		return err
	}
	defer release()

	logoutErr := w.backend.Logout(ctx)
	if logoutErr != nil {
		w.logger.Printf("logout failed: %v", logoutErr)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.session++
	w.historyStale = false
	w.guard.reset()
	w.state = State{
		View:      ViewHome,
		InputMode: w.state.InputMode,
		Theme:     w.state.Theme,
	}
	return logoutErr
}

// Busy reports whether action is running. Pass an id to ask about one item;
// without it, scoped actions match any item.
func (w *Workspace) Busy(action Action, id ...string) bool {
	return w.guard.busy(action, id...)
}

func (w *Workspace) GoHome() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.View = ViewHome
	w.state.SidebarOpen = false
}

// NewCheck returns home with nothing selected.
func (w *Workspace) NewCheck() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.View = ViewHome
	w.state.Selected = nil
	w.state.SidebarOpen = false
}

func (w *Workspace) ToggleSidebar() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.SidebarOpen = !w.state.SidebarOpen
}

func (w *Workspace) CloseSidebar() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.SidebarOpen = false
}

func (w *Workspace) ToggleTheme() Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Theme == ThemeDark {
		w.state.Theme = ThemeLight
	} else {
		w.state.Theme = ThemeDark
	}
	return w.state.Theme
}

func (w *Workspace) SetInputMode(mode model.InputMode) {
	if !mode.Valid() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.InputMode = mode
}

func (w *Workspace) SetInput(value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Input = value
}

// DismissError clears the analysis error banner ("Try Again").
func (w *Workspace) DismissError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Error = ""
}
