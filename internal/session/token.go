package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim on every session token.
const Issuer = "brewlab"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the signed payload: the session id plus its seed triple.
type Claims struct {
	State
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a codec for secret whose tokens expire after ttl.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session: token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: token ttl must be positive, got %s", ttl)
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign issues a token for session id holding st.
func (c *Codec) Sign(id string, st State) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	claims := Claims{
		State: st,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a token and returns its session id and state.
// Every failure wraps ErrInvalidToken.
func (c *Codec) Parse(raw string) (string, State, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", State{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if err := claims.State.Validate(); err != nil {
		return "", State{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, claims.State, nil
}
