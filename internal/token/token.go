package token

import (
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// ErrInvalidToken covers every expected verification failure: bad signature,
// malformed token, past expiry. Callers must not learn which one it was.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in every access token.
type Claims struct {
	UserID string `json:"userId"`
	Expiry int64  `json:"exp"`
}

// Service signs and verifies stateless bearer tokens with a process-wide
// secret. Rotating the secret invalidates everything issued before it.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService constructs a token service. The ttl bounds how long an issued
// token verifies.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token carrying the user identity and an absolute
// expiry of now plus the configured TTL.
func (s *Service) Issue(userID string) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: s.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	std := gojwt.Claims{
		Subject:  userID,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(s.ttl)),
	}
	custom := Claims{
		UserID: userID,
		Expiry: now.Add(s.ttl).Unix(),
	}

	signed, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// Every expected failure mode comes back as ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := gojwt.ParseSigned(tokenString, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, ErrInvalidToken
	}

	var std gojwt.Claims
	var custom Claims
	if err := parsed.Claims(s.secret, &std, &custom); err != nil {
		return nil, ErrInvalidToken
	}

	if err := std.ValidateWithLeeway(gojwt.Expected{Time: time.Now().UTC()}, 0); err != nil {
		return nil, ErrInvalidToken
	}
	if custom.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &custom, nil
}
