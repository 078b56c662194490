// Package auth checks login credentials: bcrypt passwords for direct
// logins and HS256 tokens minted by an external launcher.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/persist"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

var (
	ErrBadCredentials = errors.New("auth: bad credentials")
	ErrNoAccount      = errors.New("auth: account does not exist")
	ErrAccountOnline  = errors.New("auth: account already online")
	ErrEmptyName      = errors.New("auth: empty account name")
)

var folder = cases.Fold()

// NormalizeName folds case so that "Sonetto" and "sonetto" are one account.
func NormalizeName(name string) string {
	return folder.String(strings.TrimSpace(name))
}

// Verifier checks launcher tokens. The subject is the account name.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier returns nil when no secret is configured; a nil Verifier
// rejects every token.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	if cfg.JWTSecret == "" {
		return nil
	}
	return &Verifier{secret: []byte(cfg.JWTSecret), issuer: cfg.JWTIssuer, now: time.Now}
}

func (v *Verifier) Verify(token, account string) error {
	if v == nil {
		return fmt.Errorf("%w: token login disabled", ErrBadCredentials)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadCredentials, err)
	}
	if NormalizeName(claims.Subject) != NormalizeName(account) {
		return fmt.Errorf("%w: token subject mismatch", ErrBadCredentials)
	}
	return nil
}

// Issue mints a token for account. Used by tooling and tests.
func (v *Verifier) Issue(account string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   account,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type Authenticator struct {
	accounts   persist.AccountStore
	verifier   *Verifier
	autoCreate bool
	log        *zap.Logger

	// HashCost is the bcrypt cost for new accounts.
	HashCost int
}

func NewAuthenticator(accounts persist.AccountStore, cfg config.AuthConfig, log *zap.Logger) *Authenticator {
	return &Authenticator{
		accounts:   accounts,
		verifier:   NewVerifier(cfg),
		autoCreate: cfg.AutoCreateAccounts,
		log:        log,
		HashCost:   bcrypt.DefaultCost,
	}
}

func (a *Authenticator) Verifier() *Verifier { return a.verifier }

// Authenticate resolves the account for a login attempt, creating it when
// auto-create is on. created reports a first login.
func (a *Authenticator) Authenticate(ctx context.Context, name, password, token string, now int64) (acct *persist.AccountRow, created bool, err error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}
	if token != "" {
		if err := a.verifier.Verify(token, name); err != nil {
			return nil, false, err
		}
	}

	acct, err = a.accounts.LoadAccount(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("load account: %w", err)
	}

	if acct == nil {
		if !a.autoCreate {
			return nil, false, ErrNoAccount
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), a.HashCost)
		if err != nil {
			return nil, false, fmt.Errorf("hash password: %w", err)
		}
		acct, err = a.accounts.CreateAccount(ctx, name, string(hash), now)
		if err != nil {
			return nil, false, fmt.Errorf("create account: %w", err)
		}
		a.log.Info("account created", zap.String("account", name), zap.Int64("player", acct.PlayerID))
		created = true
	} else if token == "" {
		if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
			return nil, false, ErrBadCredentials
		}
	}

	if acct.Online {
		return nil, false, ErrAccountOnline
	}
	if err := a.accounts.SetOnline(ctx, acct.PlayerID, true, now); err != nil {
		return nil, false, fmt.Errorf("set online: %w", err)
	}
	return acct, created, nil
}

// Logout marks the player offline.
func (a *Authenticator) Logout(ctx context.Context, playerID int64, now int64) error {
	return a.accounts.SetOnline(ctx, playerID, false, now)
}
