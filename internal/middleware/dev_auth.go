// internal/middleware/dev_auth.go
package middleware

import (
	"net/http"

	"course_quest/internal/model"
	"course_quest/internal/webutil"

	"github.com/google/uuid"
)

// DevPrincipalMiddleware は開発・テスト用の認証ミドルウェアです。
// X-User-ID と X-User-Role ヘッダーから Principal を組み立てます。DBでの存在チェックは行いません。
func DevPrincipalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
		if err != nil {
			logger.Warn("[DEV AUTH] Missing or invalid X-User-ID header", "value", r.Header.Get("X-User-ID"))
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID ヘッダーが必要です。", "", model.ErrUnauthorized))
			return
		}

		role := model.Role(r.Header.Get("X-User-Role"))
		if role == "" {
			role = model.RoleStudent
		}
		if !role.Valid() {
			logger.Warn("[DEV AUTH] Invalid X-User-Role header", "value", string(role))
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-Role が不正です。", "", model.ErrUnauthorized))
			return
		}

		principal := model.Principal{UserID: userID, Role: role}
		logger.Debug("[DEV AUTH] Principal set to context (no validation)", "user_id", userID.String(), "role", string(role))
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
