// Package auth implements the stateless credential layer: a signed, expiring
// JWT codec and the password hasher used to verify login credentials.
package auth

import (
	"errors"
	"time"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the closed claims struct carried by every issued token: the
// registered subject (the user's email), issued-at and expiry, plus the
// user's internal id so callers do not need a second lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// GenerateToken issues an HS256-signed token with subject, the optional
// userID claim, issued-at = now and expiry = now + validity. The same
// symmetric key must verify what it signs.
func GenerateToken(subject, userID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// decoded claims. Expired tokens yield common.ErrTokenExpired; any structural
// or signature problem yields common.ErrTokenMalformed. The signature is
// checked before claims are inspected.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenMalformed
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}

// ExtractSubject is a read-only projection returning the token's subject.
func ExtractSubject(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID is a read-only projection returning the embedded user id.
func ExtractUserID(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
