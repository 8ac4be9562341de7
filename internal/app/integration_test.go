package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/xfcbe/fake-news-detection/internal/api"
	"github.com/xfcbe/fake-news-detection/internal/apitest"
	"github.com/xfcbe/fake-news-detection/internal/session"
)

func TestLoginAnalyzeBrowseLogout(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")
	srv.StripHistoryBodies(true)
	srv.SetScorer(func(string) float64 { return 35.4 })

	sess := session.New(session.NewMemoryStore())
	client := api.NewClient(srv.BaseURL(), sess)
	w := NewWorkspace(client, nil, ThemeDark)
	if err := w.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if w.Snapshot().Authenticated {
		t.Fatalf("expected anonymous start")
	}

	flow := NewAuthFlow(client, func(ctx context.Context) { _ = w.HandleAuthenticate(ctx) })
	flow.SetEmail("ada@example.com")
	flow.SetPassword("engine42")
	if err := flow.Submit(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	state := w.Snapshot()
	if !state.Authenticated || state.User == nil || state.User.FullName != "Ada Lovelace" {
		t.Fatalf("expected authenticated workspace, got=%#v", state)
	}

	w.SetInput("Scientists confirm the moon is made of cheese\nSecond paragraph")
	outcome := w.HandleCheck(ctx)
	if outcome.Kind != OutcomeSuccess {
		t.Fatalf("analyze: %#v", outcome)
	}
	if outcome.Record.Credibility.String() != "35%" {
		t.Fatalf("unexpected score: %s", outcome.Record.Credibility)
	}
	req, _ := srv.Last(http.MethodGet, "/api/history")
	if req.Authorization == "" {
		t.Fatalf("expected history reload to carry the bearer token")
	}

	state = w.Snapshot()
	if len(state.History) != 1 || state.History[0].HasBody() {
		t.Fatalf("expected one summary without body, got=%#v", state.History)
	}

	w.NewCheck()
	if err := w.HandleHistoryClick(ctx, state.History[0]); err != nil {
		t.Fatalf("history click: %v", err)
	}
	selected := w.Snapshot().Selected
	if selected == nil || len(selected.Paragraphs()) != 2 {
		t.Fatalf("expected full record after click, got=%#v", selected)
	}

	if err := w.HandleLogout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sess.Authenticated(ctx) || w.Snapshot().Authenticated {
		t.Fatalf("expected session and view cleared")
	}
	if srv.Count(http.MethodPost, "/api/auth/logout") != 1 {
		t.Fatalf("expected logout call")
	}
}
