package drafts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "stayvia"

var (
	ErrInvalidToken = errors.New("invalid handoff token")
	ErrForeignToken = errors.New("handoff token belongs to another user")
)

// Tokens signs and checks handoff tokens. A token names one draft (jti)
// and the user it was issued to (sub).
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret []byte) *Tokens {
	return &Tokens{secret: secret, now: time.Now}
}

func (t *Tokens) Issue(draftID, ownerID string, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        draftID,
		Subject:   ownerID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(t.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign handoff token: %w", err)
	}
	return signed, nil
}

// Parse returns the draft id carried by token once its signature, expiry
// and owner check out.
func (t *Tokens) Parse(token, ownerID string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return "", ErrInvalidToken
	}
	if claims.Subject != ownerID {
		return "", ErrForeignToken
	}
	return claims.ID, nil
}
