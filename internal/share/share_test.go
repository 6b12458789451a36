package share

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueValidate(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	token, exp, err := s.Issue("fig_123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v, want about an hour", d)
	}
	got, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "fig_123" {
		t.Errorf("Validate() = %q, want fig_123", got)
	}
}

func TestValidateRejects(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	good, _, _ := s.Issue("fig_123")

	expired := NewSigner("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("fig_123")

	other, _, _ := NewSigner("other", time.Hour).Issue("fig_123")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "fig_123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "fig_123",
	}).SignedString([]byte("secret"))

	tests := map[string]string{
		"garbage":      "not-a-token",
		"truncated":    good[:len(good)-4],
		"expired":      old,
		"other secret": other,
		"alg none":     none,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
