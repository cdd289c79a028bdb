package authenticator

import (
	"errors"
	"time"

	"github.com/abi-lab/backend/config"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrNoSubject = errors.New("token has no subject")

// claims puts the object beside the registered claims under "obj".
type claims[T any] struct {
	jwt.RegisteredClaims
	Object T `json:"obj,omitempty"`
}

// hmacEngine is a TokenEngine signing with HS256 and a shared secret.
type hmacEngine[T any] struct {
	secret     []byte
	expiration time.Duration
	parser     *jwt.Parser
}

func NewTokenEngine[T any](secret string, cfg config.TokenConfigs) TokenEngine[T] {
	return &hmacEngine[T]{
		secret:     []byte(secret),
		expiration: cfg.Expiration,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (e *hmacEngine[T]) Generate(sub string, obj T) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims[T]{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	})

	return token.SignedString(e.secret)
}

// Verify checks the signature and the time claims, then returns the object.
func (e *hmacEngine[T]) Verify(token string) (T, error) {
	var result claims[T]
	_, err := e.parser.ParseWithClaims(token, &result, func(*jwt.Token) (any, error) {
		return e.secret, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	if result.Subject == "" {
		var zero T
		return zero, ErrNoSubject
	}

	return result.Object, nil
}
