// Package auth implements the credential primitives of the server: password
// hashing, signed bearer tokens for the two principal types, and federated
// identity token verification.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims embeds the registered claims plus the principal id. Exactly one of
// UserID and AdminID is set, depending on which principal the token was
// minted for. Which secret verifies the token is what actually decides the
// principal type; the fields only carry the id.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"userId,omitempty"`
	AdminID string `json:"adminId,omitempty"`
}

// GenerateToken signs claims with HS256 and sets the expiry to now+validity.
func GenerateToken(claims Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GenerateUserToken mints a token for an end user.
func GenerateUserToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	return GenerateToken(Claims{UserID: userID}, secretKey, validity)
}

// GenerateAdminToken mints a token for an admin.
func GenerateAdminToken(adminID string, secretKey []byte, validity time.Duration) (string, error) {
	return GenerateToken(Claims{AdminID: adminID}, secretKey, validity)
}

// ParseToken verifies tokenString against secretKey and returns its claims.
// Expired tokens yield common.ErrTokenExpired; any other failure (malformed,
// wrong signature, unexpected algorithm) yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// VerifyToken is ParseToken with the missing-token case split out: an empty
// token is common.ErrorUnauthorized, everything else is reported as
// common.ErrorForbidden wrapping the underlying token error.
func VerifyToken(tokenString string, secretKey []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrorUnauthorized
	}
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorForbidden, err)
	}
	return claims, nil
}

// VerifyUserToken returns the user id carried by a user token.
func VerifyUserToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := VerifyToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: %w", common.ErrorForbidden, common.ErrInvalidToken)
	}
	return claims.UserID, nil
}

// VerifyAdminToken returns the admin id carried by an admin token.
func VerifyAdminToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := VerifyToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	if claims.AdminID == "" {
		return "", fmt.Errorf("%w: %w", common.ErrorForbidden, common.ErrInvalidToken)
	}
	return claims.AdminID, nil
}
