// Package auth holds the hub's identity helpers: best-effort extraction of
// user info from bearer tokens, token minting for tests and drivers, and
// the optional password validator for passworded servers.
//
// Validation POLICY lives entirely in the registered validate_user hook;
// this package never decides on its own whether a session may join.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the identity carried inside a bearer token, as far as the
// dispatcher can tell without knowing the issuer's key.
type UserInfo struct {
	UID      string
	Username string
}

// Claims is the JWT payload shape the hub understands.
type Claims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ParseUserInfo extracts identity claims from a token WITHOUT verifying
// the signature. Signature and issuer policy belong to the registered
// validator; the dispatcher only needs a best-effort identity to hand it.
// A malformed token yields a zero UserInfo and false, never an error that
// could escalate into a protocol fault.
func ParseUserInfo(token string) (UserInfo, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return UserInfo{}, false
	}
	return UserInfo{UID: claims.UID, Username: claims.Username}, true
}

// GenerateToken mints a signed HS256 token carrying the given identity.
// Used by tests and by external drivers that also own the validator side.
func GenerateToken(secret []byte, uid, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UID:      uid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "d-hub",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken checks signature and expiry against a shared secret and
// returns the embedded identity. This is the verification half used by
// NewTokenValidator; operators with real OAuth2 flows register their own.
func VerifyToken(secret []byte, token string) (UserInfo, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return UserInfo{}, err
	}
	if !parsed.Valid {
		return UserInfo{}, jwt.ErrSignatureInvalid
	}
	return UserInfo{UID: claims.UID, Username: claims.Username}, nil
}
