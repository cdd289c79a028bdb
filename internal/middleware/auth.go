package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/pkg/authenticator"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/router"
	"github.com/abi-lab/backend/pkg/xcontext"
)

// ProfileEnsurer creates the profile of a user who signs in for the first
// time.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID, displayName string) error
}

type AuthVerifier struct {
	tokenEngine    authenticator.TokenEngine[model.AccessToken]
	profileEnsurer ProfileEnsurer
}

func NewAuthVerifier(
	tokenEngine authenticator.TokenEngine[model.AccessToken],
	profileEnsurer ProfileEnsurer,
) *AuthVerifier {
	return &AuthVerifier{
		tokenEngine:    tokenEngine,
		profileEnsurer: profileEnsurer,
	}
}

// Authenticate rejects requests without a valid access token.
func (a *AuthVerifier) Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		ctx, ok, err := a.verify(ctx)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

// OptionalAuthenticate identifies the user if possible. Anonymous requests
// and requests with an invalid token pass through without user.
func (a *AuthVerifier) OptionalAuthenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		ctx, _, err := a.verify(ctx)
		if err != nil {
			return nil, err
		}

		return ctx, nil
	}
}

func (a *AuthVerifier) verify(ctx context.Context) (context.Context, bool, error) {
	token := accessToken(ctx)
	if token == "" {
		return ctx, false, nil
	}

	info, err := a.tokenEngine.Verify(token)
	if err != nil || info.ID == "" {
		xcontext.Logger(ctx).Debugf("Invalid access token: %v", err)
		return ctx, false, nil
	}

	if err := a.profileEnsurer.EnsureProfile(ctx, info.ID, info.Name); err != nil {
		return nil, false, err
	}

	return xcontext.WithRequestUserID(ctx, info.ID), true, nil
}

// accessToken reads the bearer token of the Authorization header, then the
// access token cookie.
func accessToken(ctx context.Context) string {
	r := xcontext.HTTPRequest(ctx)
	if r == nil {
		return ""
	}

	if authorization := r.Header.Get("Authorization"); authorization != "" {
		scheme, token, found := strings.Cut(authorization, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		if err != http.ErrNoCookie {
			xcontext.Logger(ctx).Debugf("Cannot read access token cookie: %v", err)
		}

		return ""
	}

	return cookie.Value
}
