package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T, expirationMs int64) *Codec {
	t.Helper()
	c, err := NewCodec(&Config{Secret: testSecret, Expiration: expirationMs})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodec_ValidatesSecret(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: testSecret}, false},
		{"empty secret", Config{}, true},
		{"short secret", Config{Secret: "too-short"}, true},
		{"sub-second expiration", Config{Secret: testSecret, Expiration: 500}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCodec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Secret: testSecret}
	cfg.ApplyDefaults()
	if cfg.Expiration != DefaultExpiration {
		t.Errorf("expected default expiration, got %d", cfg.Expiration)
	}
	if cfg.ExpiresInSeconds() != 86400 {
		t.Errorf("expected 86400 seconds, got %d", cfg.ExpiresInSeconds())
	}
	if cfg.TTL() != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", cfg.TTL())
	}
}

func TestSignParse_RoundTrip(t *testing.T) {
	c := newTestCodec(t, 3_600_000)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	token, issued, err := c.Sign("a@b.c", now)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", token)
	}

	claims, err := c.Parse(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "a@b.c" {
		t.Errorf("expected sub a@b.c, got %q", claims.Subject)
	}
	if got := claims.ExpiresAtTime().Sub(claims.IssuedAtTime()); got != time.Hour {
		t.Errorf("expected exp-iat = 1h, got %v", got)
	}
	if !claims.IssuedAtTime().Equal(issued.IssuedAtTime()) {
		t.Errorf("issued claims and parsed claims disagree")
	}
	if claims.ID == "" {
		t.Error("expected a jti claim")
	}
}

func TestSign_SameSecondTokensDiffer(t *testing.T) {
	c := newTestCodec(t, 60_000)
	now := time.Now()
	a, _, _ := c.Sign("a@b.c", now)
	b, _, _ := c.Sign("a@b.c", now)
	if a == b {
		t.Error("expected distinct tokens for the same subject and second")
	}
}

func TestParse_Expired(t *testing.T) {
	c := newTestCodec(t, 60_000)
	now := time.Now()
	token, _, _ := c.Sign("a@b.c", now.Add(-2*time.Minute))

	if _, err := c.Parse(token, now); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestParse_BadSignature(t *testing.T) {
	c := newTestCodec(t, 60_000)
	other, err := NewCodec(&Config{Secret: strings.Repeat("z", 32)})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	now := time.Now()

	foreign, _, _ := other.Sign("a@b.c", now)
	if _, err := c.Parse(foreign, now); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for foreign key, got %v", err)
	}

	a, _, _ := c.Sign("a@b.c", now)
	b, _, _ := c.Sign("mallory@b.c", now)
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	spliced := pa[0] + "." + pb[1] + "." + pa[2]
	if _, err := c.Parse(spliced, now); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for tampered payload, got %v", err)
	}
}

// aliasLastChar flips the lowest bit of the final base64url character. For a
// 32-byte HS256 signature that bit is padding, so lenient decoders map both
// spellings to the same bytes.
func aliasLastChar(token string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	i := strings.IndexByte(alphabet, token[len(token)-1])
	return token[:len(token)-1] + string(alphabet[i^1])
}

func TestParse_RejectsNonCanonicalSignature(t *testing.T) {
	c := newTestCodec(t, 60_000)
	now := time.Now()
	token, _, err := c.Sign("a@b.c", now)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	alias := aliasLastChar(token)
	if alias == token {
		t.Fatal("alias must differ from the issued token")
	}

	if _, err := c.Parse(token, now); err != nil {
		t.Fatalf("issued token must parse: %v", err)
	}
	if _, err := c.Parse(alias, now); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse: expected ErrMalformed for non-canonical signature, got %v", err)
	}
	if _, err := c.Expiry(alias); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expiry: expected ErrMalformed for non-canonical signature, got %v", err)
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t, 60_000)
	now := time.Now()

	claims := gojwt.RegisteredClaims{
		Subject:   "a@b.c",
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
	}
	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := c.Parse(none, now); err == nil {
		t.Error("expected alg=none token to be rejected")
	}

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := c.Parse(hs512, now); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestParse_Malformed(t *testing.T) {
	c := newTestCodec(t, 60_000)
	for _, token := range []string{"", "   ", "abc", "a.b.c"} {
		if _, err := c.Parse(token, time.Now()); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q): expected ErrMalformed, got %v", token, err)
		}
	}
}

func TestParse_MissingSubjectOrExpiry(t *testing.T) {
	c := newTestCodec(t, 60_000)
	now := time.Now()

	noSub, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
	}).SignedString([]byte(testSecret))
	if _, err := c.Parse(noSub, now); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed without sub, got %v", err)
	}

	noExp, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject: "a@b.c",
	}).SignedString([]byte(testSecret))
	if _, err := c.Parse(noExp, now); err == nil {
		t.Error("expected token without exp to be rejected")
	}
	if _, err := c.Expiry(noExp); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected Expiry to fail without exp, got %v", err)
	}
}

func TestExpiry_IgnoresExpiration(t *testing.T) {
	c := newTestCodec(t, 60_000)
	issuedAt := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	token, _, _ := c.Sign("a@b.c", issuedAt)

	exp, err := c.Expiry(token)
	if err != nil {
		t.Fatalf("Expiry: %v", err)
	}
	if !exp.Equal(issuedAt.Add(time.Minute)) {
		t.Errorf("expected exp %v, got %v", issuedAt.Add(time.Minute), exp)
	}
}

func TestExpiry_VerifiesSignature(t *testing.T) {
	c := newTestCodec(t, 60_000)
	other, _ := NewCodec(&Config{Secret: strings.Repeat("q", 40)})
	token, _, _ := other.Sign("a@b.c", time.Now())

	if _, err := c.Expiry(token); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
	if _, err := c.Expiry("garbage"); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
