package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a login token.
const DefaultTTL = 24 * time.Hour

// Claims carried by a login token: subject is the username, "rol" the
// role name assigned to the user at login time.
type Claims struct {
	Role string `json:"rol"`
	jwt.RegisteredClaims
}

func Issue(username, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(secret)
}

type Status int

const (
	StatusValid Status = iota
	StatusExpired
	StatusMalformed
	StatusBadSignature
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusBadSignature:
		return "bad signature"
	default:
		return "malformed"
	}
}

type Result struct {
	Status Status
	Claims *Claims
}

func (r Result) Valid() bool { return r.Status == StatusValid }

// Validate verifies signature and expiry and reports the outcome as a
// tagged result instead of an error chain. Tokens signed with any method
// other than HS256 are rejected as bad-signature.
func Validate(tokenStr string, secret []byte) Result {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})

	switch {
	case err == nil && tkn.Valid:
		return Result{Status: StatusValid, Claims: &claims}
	case errors.Is(err, jwt.ErrTokenExpired):
		return Result{Status: StatusExpired}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Result{Status: StatusBadSignature}
	default:
		return Result{Status: StatusMalformed}
	}
}

// FromAuthHeader extracts the raw token from an Authorization header,
// returning "" when the header is missing or not a bearer credential.
func FromAuthHeader(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return ""
}
