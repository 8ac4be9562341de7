package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

const authFallbackMessage = "Authentication failed. Please try again."

var ErrMissingField = errors.New("required field is empty")

// FieldError names the form field that was left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + " is required"
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

type AuthMode string

const (
	AuthLogin  AuthMode = "login"
	AuthSignup AuthMode = "signup"
)

type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	Signup(ctx context.Context, fullName, email, password string) (*model.AuthResponse, error)
}

type AuthState struct {
	Mode     AuthMode
	FullName string
	Email    string
	Password string
	Loading  bool
	Error    string
}

// AuthFlow holds the login/signup form. onAuthenticate runs after a
// successful submit.
type AuthFlow struct {
	mu             sync.Mutex
	backend        AuthBackend
	onAuthenticate func(ctx context.Context)
	guard          inflight
	state          AuthState
}

func NewAuthFlow(backend AuthBackend, onAuthenticate func(ctx context.Context)) *AuthFlow {
	return &AuthFlow{
		backend:        backend,
		onAuthenticate: onAuthenticate,
		state:          AuthState{Mode: AuthLogin},
	}
}

func (f *AuthFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetMode switches between the login and signup tabs and clears the error.
func (f *AuthFlow) SetMode(mode AuthMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Mode = mode
	f.state.Error = ""
}

func (f *AuthFlow) SetFullName(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.FullName = value
}

func (f *AuthFlow) SetEmail(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Email = value
}

func (f *AuthFlow) SetPassword(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Password = value
}

func (f *AuthFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	input := f.state
	if err := validateAuth(input); err != nil {
		f.state.Error = err.Error()
		f.mu.Unlock()
		return err
	}

	action := ActionLogin
	if input.Mode == AuthSignup {
		action = ActionSignup
	}
	release, err := f.guard.acquire(action)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	defer release()

	f.state.Error = ""
	f.state.Loading = true
	f.mu.Unlock()

	if input.Mode == AuthSignup {
		_, err = f.backend.Signup(ctx, strings.TrimSpace(input.FullName), strings.TrimSpace(input.Email), input.Password)
	} else {
		_, err = f.backend.Login(ctx, strings.TrimSpace(input.Email), input.Password)
	}

	f.mu.Lock()
	f.state.Loading = false
	if err != nil {
		f.state.Error = errorMessage(err, authFallbackMessage)
		f.mu.Unlock()
		return err
	}
	f.state.Password = ""
	f.mu.Unlock()

	if f.onAuthenticate != nil {
		f.onAuthenticate(ctx)
	}
	return nil
}

// Reset returns the form to an empty login tab.
func (f *AuthFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = AuthState{Mode: AuthLogin}
}

func validateAuth(input AuthState) error {
	if input.Mode == AuthSignup && strings.TrimSpace(input.FullName) == "" {
		return &FieldError{Field: "Full name"}
	}
	if strings.TrimSpace(input.Email) == "" {
		return &FieldError{Field: "Email"}
	}
	if input.Password == "" {
		return &FieldError{Field: "Password"}
	}
	return nil
}
