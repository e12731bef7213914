// Package auth defines the abstract sign-in contract. The concrete
// external provider is a deployment choice; the bundled implementations
// are a simulated demo login and a disabled provider.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity handed back to the client.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// AuthError reports a failed sign-in with a user-presentable reason.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Reason }

// Provider is the single abstract contract for sign-in.
type Provider interface {
	// Name returns a human-readable provider name for logging.
	Name() string

	// SignIn authenticates the credentials, returning *AuthError on
	// rejection.
	SignIn(ctx context.Context, email, password string) (*User, error)
}

// DemoProvider simulates a successful login for any syntactically valid
// credential pair, mirroring the demo login modal. Not for production.
type DemoProvider struct {
	// Delay imitates a provider round trip so the UI loading state is
	// observable. Zero means no delay.
	Delay time.Duration
}

func (p *DemoProvider) Name() string { return "demo" }

// SignIn implements Provider.
func (p *DemoProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &AuthError{Reason: "invalid email"}
	}
	if len(password) < 6 {
		return nil, &AuthError{Reason: "password too short"}
	}
	name := email[:strings.Index(email, "@")]
	return &User{ID: uuid.NewString(), Email: email, DisplayName: name}, nil
}

// DisabledProvider rejects every sign-in; used when no provider is
// configured.
type DisabledProvider struct{}

func (DisabledProvider) Name() string { return "disabled" }

// SignIn implements Provider.
func (DisabledProvider) SignIn(context.Context, string, string) (*User, error) {
	return nil, &AuthError{Reason: "login is not available"}
}

// ForName returns a bundled provider by name.
func ForName(name string) (Provider, error) {
	switch name {
	case "", "disabled":
		return DisabledProvider{}, nil
	case "demo":
		return &DemoProvider{Delay: 300 * time.Millisecond}, nil
	default:
		return nil, fmt.Errorf("unknown auth provider: %s", name)
	}
}
