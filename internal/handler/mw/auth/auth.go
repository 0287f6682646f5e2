package auth

import (
	"context"
	"net/http"

	"github.com/pechorka/bible-companion/internal/handler/internal/respond"
)

type AuthService interface {
	UserIDByToken(token string) (int64, error)
}

type AuthMW struct {
	svc AuthService
}

var ctxKeyUser struct{}
var NotFoundUserID = int64(-1)

func NewAuthMW(svc AuthService) *AuthMW {
	return &AuthMW{svc: svc}
}

const basicPrefix = "Basic "

func (mw *AuthMW) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) <= len(basicPrefix) {
			respond.ErrorWithCode(w,
				http.StatusUnauthorized,
				respond.CODE_AUTH_HEADER_MISSING,
			)
			return
		}
		token := authHeader[len(basicPrefix):]
		userID, err := mw.svc.UserIDByToken(token)
		if err != nil {
			respond.ErrorWithCode(w,
				http.StatusUnauthorized,
				respond.CODE_AUTH_TOKEN_INVALID,
			)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserID(ctx context.Context) int64 {
	userID, ok := ctx.Value(ctxKeyUser).(int64)
	if !ok {
		return NotFoundUserID
	}
	return userID
}
