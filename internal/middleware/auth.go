package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"course_quest/internal/config"
	"course_quest/internal/model"
	"course_quest/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authenticator は設定に応じて JWT 認証か開発用ヘッダー認証のミドルウェアを返します。
func Authenticator(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.Auth.Enabled {
		return JWTAuthMiddleware(cfg)
	}
	GetLogger(context.Background()).Warn("Authentication disabled, using development header authentication")
	return DevPrincipalMiddleware
}

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証し、Principal をコンテキストに入れます。
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrUnauthorized))
				return
			}

			headerParts := strings.SplitN(authHeader, " ", 2)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized))
				return
			}

			principal, err := ParseAccessToken(headerParts[1], cfg.JWT.SecretKey)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", errors.Join(model.ErrUnauthorized, err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// ParseAccessToken は署名・有効期限・クレームを検証し、Principal を返します。
func ParseAccessToken(tokenString, secretKey string) (model.Principal, error) {
	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, errors.New("token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, errors.New("subject is not a user id")
	}
	if !claims.Role.Valid() {
		return model.Principal{}, errors.New("role claim is missing or unknown")
	}
	return model.Principal{UserID: userID, Role: claims.Role}, nil
}

// WithPrincipal は Principal をコンテキストに入れ、ロガーにも user_id と role を付けます。
func WithPrincipal(ctx context.Context, principal model.Principal) context.Context {
	logger := GetLogger(ctx).With("user_id", principal.UserID.String(), "role", string(principal.Role))
	ctx = WithLogger(ctx, logger)
	return context.WithValue(ctx, model.PrincipalKey, principal)
}

// GetPrincipal はコンテキストから認証済みユーザーを取り出します。
func GetPrincipal(ctx context.Context) (model.Principal, error) {
	principal, ok := ctx.Value(model.PrincipalKey).(model.Principal)
	if !ok {
		// 認証ミドルウェアを通っていない (ルーティングの設定ミス)
		return model.Principal{}, model.NewAppError("UNAUTHORIZED", "認証情報を取得できませんでした。", "", model.ErrUnauthorized)
	}
	return principal, nil
}
