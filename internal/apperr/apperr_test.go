package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := Invalid("hero %d missing", 3086)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatal("Invalid should match ErrInvalidRequest")
	}
	if errors.Is(err, ErrNotLoggedIn) {
		t.Fatal("Invalid should not match ErrNotLoggedIn")
	}
	wrapped := fmt.Errorf("handler: %w", err)
	if !errors.Is(wrapped, ErrInvalidRequest) {
		t.Fatal("wrapped error should still match")
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("load hero", cause)
	if !errors.Is(err, cause) {
		t.Fatal("storage error should unwrap to its cause")
	}
	if KindOf(err) != KindStorage {
		t.Fatalf("kind = %v", KindOf(err))
	}
	if Storage("noop", nil) != nil {
		t.Fatal("Storage(nil) should be nil")
	}
	if KindOf(Storage("again", ErrInvalidRequest)) != KindInvalidRequest {
		t.Fatal("Storage should not rewrap an app error")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want uint16
	}{
		{ErrNotLoggedIn, StatusNotLoggedIn},
		{ErrInvalidRequest, StatusInvalidRequest},
		{Codec(errors.New("truncated")), StatusInvalidRequest},
		{ErrInsufficientItems, StatusInsufficientItems},
		{ErrInsufficientCurrency, StatusInsufficientCurrency},
		{Storage("x", errors.New("boom")), StatusInternal},
		{errors.New("foreign"), StatusInternal},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type closedErr struct{}

func (closedErr) Error() string { return "closed" }
func (closedErr) Fatal() bool   { return true }

func TestFatal(t *testing.T) {
	if !Fatal(fmt.Errorf("send reply: %w", closedErr{})) {
		t.Fatal("wrapped fatal error should be fatal")
	}
	if Fatal(ErrInvalidRequest) {
		t.Fatal("InvalidRequest is not fatal")
	}
	if Fatal(nil) {
		t.Fatal("nil is not fatal")
	}
}
