package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoProviderSignIn(t *testing.T) {
	p := &DemoProvider{}

	t.Run("valid credentials succeed", func(t *testing.T) {
		u, err := p.SignIn(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.Equal(t, "ana", u.DisplayName)
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret123"},
		{"email without at sign", "ana.example.com", "secret123"},
		{"short password", "ana@example.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.SignIn(context.Background(), tt.email, tt.password)
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
		})
	}

	t.Run("honors context cancellation during the delay", func(t *testing.T) {
		slow := &DemoProvider{Delay: time.Minute}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := slow.SignIn(ctx, "ana@example.com", "secret123")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDisabledProvider(t *testing.T) {
	_, err := DisabledProvider{}.SignIn(context.Background(), "ana@example.com", "secret123")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestForName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     string
		wantErr  bool
	}{
		{"empty means disabled", "", "disabled", false},
		{"disabled", "disabled", "disabled", false},
		{"demo", "demo", "demo", false},
		{"unknown", "oauth", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ForName(tt.provider)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}
