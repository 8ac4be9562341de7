package session

import (
	"context"
	"errors"
	"testing"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) (string, error) { return "", s.err }
func (s failingStore) Set(context.Context, string, string) error { return s.err }
func (s failingStore) Delete(context.Context, ...string) error { return s.err }

func TestSessionSaveAndClear(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStore())

	if sess.Authenticated(ctx) {
		t.Fatalf("expected fresh session to be anonymous")
	}
	user := &model.User{Email: "ada@example.com", FullName: "Ada Lovelace"}
	if err := sess.Save(ctx, "jwt-token", user); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !sess.Authenticated(ctx) {
		t.Fatalf("expected authenticated after save")
	}
	token, err := sess.Token(ctx)
	if err != nil || token != "jwt-token" {
		t.Fatalf("expected token, got=%s err=%v", token, err)
	}
	stored, err := sess.User(ctx)
	if err != nil || stored == nil || stored.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected stored user: %#v err=%v", stored, err)
	}

	if err := sess.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if sess.Authenticated(ctx) {
		t.Fatalf("expected anonymous after clear")
	}
	if stored, _ := sess.User(ctx); stored != nil {
		t.Fatalf("expected user removed, got=%#v", stored)
	}
}

func TestSessionSaveWithoutUserDropsStaleUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess := New(store)

	if err := sess.Save(ctx, "first", &model.User{Email: "old@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := sess.Save(ctx, "second", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored, _ := sess.User(ctx); stored != nil {
		t.Fatalf("expected no user, got=%#v", stored)
	}
}

func TestSessionCorruptUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, KeyUser, "{broken")

	if _, err := New(store).User(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSessionPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	sess := New(failingStore{err: boom})
	ctx := context.Background()

	if _, err := sess.Token(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got=%v", err)
	}
	if sess.Authenticated(ctx) {
		t.Fatalf("expected unauthenticated when the store fails")
	}
	if err := sess.Save(ctx, "t", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got=%v", err)
	}
	if err := sess.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped clear error, got=%v", err)
	}
}
