package app

import (
	"errors"
	"strings"
	"sync"
)

var ErrBusy = errors.New("request already in progress")

type Action string

const (
	ActionLogin       Action = "login"
	ActionSignup      Action = "signup"
	ActionAnalyze     Action = "analyze"
	ActionHistory     Action = "history"
	ActionHistoryItem Action = "history-item"
	ActionDelete      Action = "delete"
	ActionLogout      Action = "logout"
)

// inflight rejects a second call for the same key while the first is running.
// reset forgets every running key; releases from before a reset are no-ops.
type inflight struct {
	mu      sync.Mutex
	epoch   uint64
	running map[string]struct{}
}

func inflightKey(action Action, scope []string) string {
	key := string(action)
	for _, s := range scope {
		key += ":" + s
	}
	return key
}

func (g *inflight) acquire(action Action, scope ...string) (func(), error) {
	key := inflightKey(action, scope)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, busy := g.running[key]; busy {
		return nil, ErrBusy
	}
	g.running[key] = struct{}{}
	epoch := g.epoch

	return func() {
		g.mu.Lock()
		if g.epoch == epoch {
			delete(g.running, key)
		}
		g.mu.Unlock()
	}, nil
}

func (g *inflight) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	g.running = nil
}

// busy reports whether action is running for the given scope. With no scope
// it matches the action under any scope.
func (g *inflight) busy(action Action, scope ...string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(scope) > 0 {
		_, ok := g.running[inflightKey(action, scope)]
		return ok
	}
	prefix := string(action) + ":"
	for key := range g.running {
		if key == string(action) || strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
