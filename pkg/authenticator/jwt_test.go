package authenticator_test

import (
	"testing"
	"time"

	"github.com/abi-lab/backend/config"
	"github.com/abi-lab/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type object struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[object]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("user1", object{ID: "user1", Name: "Ana"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, object{ID: "user1", Name: "Ana"}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[object]("secret", config.TokenConfigs{Expiration: -time.Minute})
	token, err := engine.Generate("user1", object{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[object]("secret", config.TokenConfigs{Expiration: time.Minute})
	other := authenticator.NewTokenEngine[object]("other", config.TokenConfigs{Expiration: time.Minute})

	token, err := other.Generate("user1", object{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTNoSubject(t *testing.T) {
	engine := authenticator.NewTokenEngine[object]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("", object{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.ErrorIs(t, err, authenticator.ErrNoSubject)
}

func TestJWTMalformed(t *testing.T) {
	engine := authenticator.NewTokenEngine[object]("secret", config.TokenConfigs{Expiration: time.Minute})

	_, err := engine.Verify("not-a-token")
	require.Error(t, err)
}
