package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

const (
	KeyToken = "authToken"
	KeyUser  = "user"
)

// Session is the client's persisted login: a bearer token plus the user it
// belongs to. A present token means authenticated; expiry is left to the
// server.
type Session struct {
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Session) User(ctx context.Context) (*model.User, error) {
	raw, err := s.store.Get(ctx, KeyUser)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode stored user failed: %w", err)
	}
	return &user, nil
}

func (s *Session) Authenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

func (s *Session) Save(ctx context.Context, token string, user *model.User) error {
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("save session token failed: %w", err)
	}
	if user == nil {
		if err := s.store.Delete(ctx, KeyUser); err != nil {
			return fmt.Errorf("drop session user failed: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user failed: %w", err)
	}
	if err := s.store.Set(ctx, KeyUser, string(payload)); err != nil {
		return fmt.Errorf("save session user failed: %w", err)
	}
	return nil
}

// Clear removes the token and the user together.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session failed: %w", err)
	}
	return nil
}
