package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Leeway tolerated when checking token expiry, to absorb clock skew
// between the issuing and verifying host
const clockSkew = 30 * time.Second

// Claims is the verified content of a session token
type Claims struct {
	AdminID string
	Email   string
	Name    string

	// Decrypted upload PIN, carried in the token so the dashboard can
	// display it without an extra lookup. See DESIGN.md for the
	// threat-model discussion around this
	Pin string
}

// TokenService issues and verifies stateless HS256 session tokens.
// There is no revocation list, a leaked token stays valid until its
// natural expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (t *TokenService) TTL() time.Duration {
	return t.ttl
}

func (t *TokenService) Issue(adminID, email, name, pin string) (string, error) {
	now := time.Now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": adminID,
		"email":    email,
		"name":     name,
		"pin":      pin,
		"iat":      now.Unix(),
		"exp":      now.Add(t.ttl).Unix(),
	})

	return tok.SignedString(t.secret)
}

func (t *TokenService) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrNoToken
	}

	tok, err := jwt.Parse(tokenStr, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tk.Method.Alg())
		}

		return t.secret, nil
	}, jwt.WithLeeway(clockSkew))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}

	adminID, _ := claims["admin_id"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	pin, _ := claims["pin"].(string)

	if adminID == "" || email == "" {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		AdminID: adminID,
		Email:   email,
		Name:    name,
		Pin:     pin,
	}, nil
}
