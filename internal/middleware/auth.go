package middleware

import (
	"context"
	"strings"

	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/router"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

// AuthVerifier resolves the caller identity from the request and stores it in
// the context. Anonymous requests pass through without a user id, handlers
// that need one pair this with Authenticate.
type AuthVerifier struct {
	useAccessToken bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (v *AuthVerifier) WithAccessToken() *AuthVerifier {
	v.useAccessToken = true
	return v
}

func (v *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !v.useAccessToken {
			return nil, nil
		}

		token := extractAccessToken(ctx)
		if token == "" {
			return nil, nil
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func extractAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	if authorization := req.Header.Get("Authorization"); authorization != "" {
		if !strings.HasPrefix(authorization, "Bearer ") {
			return ""
		}

		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// Authenticate rejects anonymous requests. It must run after an AuthVerifier.
func Authenticate(ctx context.Context) (context.Context, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return nil, nil
}
