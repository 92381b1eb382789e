package server

import (
	"net/http"
	"strings"

	"github.com/ananyev/craftmarket/internal/lib/jwt"
	"github.com/ananyev/craftmarket/internal/model"
)

func (s *Server) requirePermanentPassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwt.CtxKeyClaims).(model.UserClaim)
		if !ok {
			UnauthorizedError(w)
			return
		}
		if claims.PasswordTemporary {
			ForbiddenError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwt.CtxKeyClaims).(model.UserClaim)
		if !ok {
			UnauthorizedError(w)
			return
		}
		if !strings.EqualFold(claims.Role, model.Moderator) && !strings.EqualFold(claims.Role, model.Admin) {
			ForbiddenError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
