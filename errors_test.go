package insureAuth

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{ErrInvalidInput, KindValidation},
		{fmt.Errorf("%w: bad age", ErrInvalidInput), KindValidation},
		{ErrWrongCode, KindValidation},
		{ErrAccountExists, KindConflict},
		{ErrUserNotFound, KindNotFound},
		{ErrIncorrectPassword, KindUnauthorized},
		{ErrNoToken, KindUnauthorized},
		{ErrTokenRevoked, KindUnauthorized},
		{fmt.Errorf("%w: %w", ErrTokenRevoked, ErrCacheUnavailable), KindUnauthorized},
		{ErrTokenInvalid, KindForbidden},
		{ErrAdminRequired, KindForbidden},
		{ErrOTPRateLimited, KindRateLimited},
		{ErrCacheUnavailable, KindInternal},
		{ErrStoreUnavailable, KindInternal},
		{errors.New("boom"), KindInternal},
		{nil, KindInternal},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(fmt.Errorf("%w: lookup", ErrUserNotFound)); got != "User Not Found" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PublicMessage(fmt.Errorf("%w: dial tcp 10.0.0.1:6379", ErrCacheUnavailable)); got != "Something went wrong" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}

func TestKindString(t *testing.T) {
	if KindRateLimited.String() != "rate_limited" || KindInternal.String() != "internal" {
		t.Fatal("unexpected kind names")
	}
}
