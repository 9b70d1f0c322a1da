package jwtauth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verygoodisland/backend/internal/observability/metrics"
)

// Claims is the authenticated principal carried by a session token. The
// account id is handed to service operations explicitly by the delivery
// layer; nothing below the handlers reads ambient auth state.
type Claims struct {
	UserID   int64
	Username string
}

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("token is not valid")
	ErrMissingClaims        = errors.New("missing sub or usr claims")
)

func IssueToken(userID int64, username string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"usr": username,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(secret)
	if err != nil {
		return "", err
	}

	metrics.SessionTokensIssuedTotal.Inc()
	return tokenString, nil
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return Claims{}, ErrMissingClaims
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrMissingClaims
	}

	return Claims{
		UserID:   userID,
		Username: username,
	}, nil
}
