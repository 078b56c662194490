package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/persist/memstore"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, cfg config.AuthConfig) (*Authenticator, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	a := NewAuthenticator(store, cfg, zap.NewNop())
	a.HashCost = bcrypt.MinCost
	return a, store
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Sonetto "); got != "sonetto" {
		t.Fatalf("got %q", got)
	}
	if NormalizeName("STRASSE") != NormalizeName("straße") {
		t.Fatal("fold should unify sharp s")
	}
}

func TestAuthenticateCreatesThenChecksPassword(t *testing.T) {
	ctx := context.Background()
	a, _ := newAuth(t, config.AuthConfig{AutoCreateAccounts: true})

	acct, created, err := a.Authenticate(ctx, "Vertin", "pw", "", 1)
	if err != nil || !created || acct.PlayerID == 0 {
		t.Fatalf("first login: %+v %v %v", acct, created, err)
	}
	if _, _, err := a.Authenticate(ctx, "vertin", "pw", "", 2); !errors.Is(err, ErrAccountOnline) {
		t.Fatalf("second login while online: %v", err)
	}
	if err := a.Logout(ctx, acct.PlayerID, 3); err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Authenticate(ctx, "vertin", "wrong", "", 4); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	again, created, err := a.Authenticate(ctx, "VERTIN", "pw", "", 5)
	if err != nil || created || again.PlayerID != acct.PlayerID {
		t.Fatalf("relogin: %+v %v %v", again, created, err)
	}
}

func TestAuthenticateWithoutAutoCreate(t *testing.T) {
	a, _ := newAuth(t, config.AuthConfig{})
	if _, _, err := a.Authenticate(context.Background(), "nobody", "pw", "", 1); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := a.Authenticate(context.Background(), "  ", "pw", "", 1); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenLogin(t *testing.T) {
	ctx := context.Background()
	cfg := config.AuthConfig{AutoCreateAccounts: true, JWTSecret: "secret", JWTIssuer: "launcher"}
	a, _ := newAuth(t, cfg)

	token, err := a.Verifier().Issue("vertin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Authenticate(ctx, "Vertin", "", token, 1); err != nil {
		t.Fatalf("token login: %v", err)
	}
	if _, _, err := a.Authenticate(ctx, "someone", "", token, 1); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("subject mismatch: %v", err)
	}
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier(config.AuthConfig{JWTSecret: "secret", JWTIssuer: "launcher"})

	expired, _ := v.Issue("vertin", -time.Minute)
	if err := v.Verify(expired, "vertin"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expired token: %v", err)
	}

	other := NewVerifier(config.AuthConfig{JWTSecret: "secret", JWTIssuer: "someone-else"})
	foreign, _ := other.Issue("vertin", time.Minute)
	if err := v.Verify(foreign, "vertin"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong issuer: %v", err)
	}

	wrongKey := NewVerifier(config.AuthConfig{JWTSecret: "other", JWTIssuer: "launcher"})
	forged, _ := wrongKey.Issue("vertin", time.Minute)
	if err := v.Verify(forged, "vertin"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong key: %v", err)
	}

	var disabled *Verifier
	if err := disabled.Verify("x", "vertin"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("disabled verifier: %v", err)
	}
}
