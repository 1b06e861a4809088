package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id as subject and the server session id as jti.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenSubject is what a valid access token asserts.
type TokenSubject struct {
	UserID    int64
	SessionID string
	ExpiresAt time.Time
}

func GenerateToken(userID int64, sessionID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates signature, algorithm and expiry. Expired tokens yield
// common.ErrTokenExpired, anything else unusable yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*TokenSubject, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: bad subject", common.ErrInvalidToken)
	}

	return &TokenSubject{UserID: userID, SessionID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
