package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/apitest"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

type runner func(stdin string, args ...string) (string, error)

func newTestCLI(t *testing.T) (*apitest.Server, runner) {
	t.Helper()
	srv := apitest.New(t)
	dir := t.TempDir()
	t.Setenv("VERINEWS_API_BASE_URL", srv.BaseURL())
	t.Setenv("VERINEWS_SESSION_DRIVER", "file")
	t.Setenv("VERINEWS_SESSION_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("VERINEWS_PASSWORD", "")

	run := func(stdin string, args ...string) (string, error) {
		var out, errOut bytes.Buffer
		root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
		root.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.toml")}, args...))
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}
	return srv, run
}

func TestLoginAnalyzeHistoryLogout(t *testing.T) {
	srv, run := newTestCLI(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")
	srv.SetScorer(func(string) float64 { return 71.6 })

	out, err := run("", "login", "--email", "ada@example.com", "--password", "engine42")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Ada Lovelace") {
		t.Fatalf("unexpected login output: %s", out)
	}

	out, err = run("", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if strings.TrimSpace(out) != "Ada Lovelace <ada@example.com>" {
		t.Fatalf("unexpected whoami output: %s", out)
	}

	out, err = run("", "analyze", "Local council approves new bike lanes downtown")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"Credibility Score:", "72% (high)", "TEXT", "Local council approves"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in analyze output, got=%s", want, out)
		}
	}

	if _, err := run("line one\n\nline two\n", "analyze", "-"); err != nil {
		t.Fatalf("analyze stdin: %v", err)
	}
	last, ok := srv.Last("POST", "/api/analyze")
	if !ok || !strings.Contains(string(last.Body), `line one\n\nline two`) {
		t.Fatalf("expected stdin content sent, got=%s", last.Body)
	}

	out, err = run("", "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, "Today") {
		t.Fatalf("expected today section, got=%s", out)
	}

	out, err = run("", "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list json: %v", err)
	}
	var items []model.AnalysisRecord
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode history json: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two records, got=%d", len(items))
	}

	out, err = run("", "history", "show", items[1].ID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if !strings.Contains(out, "Local council approves new bike lanes downtown") {
		t.Fatalf("expected full body, got=%s", out)
	}

	out, err = run("", "history", "delete", items[1].ID)
	if err != nil {
		t.Fatalf("history delete: %v", err)
	}
	if !strings.Contains(out, "Deleted "+items[1].ID) {
		t.Fatalf("unexpected delete output: %s", out)
	}
	if srv.RecordCount("ada@example.com") != 1 {
		t.Fatalf("expected one record left, got=%d", srv.RecordCount("ada@example.com"))
	}

	out, err = run("", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out") {
		t.Fatalf("unexpected logout output: %s", out)
	}

	if _, err := run("", "whoami"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected not logged in, got=%v", err)
	}
}

func TestSignupWithPasswordFromEnv(t *testing.T) {
	_, run := newTestCLI(t)
	t.Setenv("VERINEWS_PASSWORD", "hopper99")

	out, err := run("", "signup", "--name", "Grace Hopper", "--email", "grace@example.com")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !strings.Contains(out, "Logged in as Grace Hopper") {
		t.Fatalf("unexpected signup output: %s", out)
	}
}

func TestLoginWithoutPassword(t *testing.T) {
	srv, run := newTestCLI(t)

	_, err := run("", "login", "--email", "ada@example.com")
	if !errors.Is(err, errNoPassword) {
		t.Fatalf("expected missing password error, got=%v", err)
	}
	if srv.Count("POST", "/api/auth/login") != 0 {
		t.Fatalf("expected no login request")
	}
}

func TestLoginRejected(t *testing.T) {
	srv, run := newTestCLI(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")

	_, err := run("", "login", "--email", "ada@example.com", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("expected rejected login, got=%v", err)
	}
	if _, err := run("", "whoami"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected no session after rejected login, got=%v", err)
	}
}

func TestAnalyzeNeedsSession(t *testing.T) {
	srv, run := newTestCLI(t)

	if _, err := run("", "analyze", "anything"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected not logged in, got=%v", err)
	}
	if srv.Count("POST", "/api/analyze") != 0 {
		t.Fatalf("expected no analyze request")
	}
}

func TestAnalyzeRejectsBadLink(t *testing.T) {
	srv, run := newTestCLI(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")
	if _, err := run("", "login", "-e", "ada@example.com", "-p", "engine42"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := run("", "analyze", "--link", "not a url"); !errors.Is(err, app.ErrInvalidLink) {
		t.Fatalf("expected invalid link, got=%v", err)
	}
	if srv.Count("POST", "/api/analyze") != 0 {
		t.Fatalf("expected no analyze request")
	}
}
