package jwt

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ananyev/craftmarket/internal/logger"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	CtxKeyClaims ctxKey = "claims"
	CtxKeyToken  ctxKey = "token"
)

var (
	cfg *Config
	log zerolog.Logger
)

func Initialize(c *Config) {
	cfg = c
	log = logger.Log.With().Str("name", "jwt").Logger()
}

func NewToken(dto model.JwtDTO, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &model.UserClaim{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
		ID:                dto.ID,
		Role:              dto.Role,
		SID:               dto.SID,
		PasswordTemporary: dto.PasswordTemporary,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

func Verify(token string) (*model.UserClaim, error) {
	claims := &model.UserClaim{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "verify token")
	}

	return claims, nil
}

// Verifier checks that the session referenced by the claims in ctx is still
// live. The auth service implements it.
type Verifier interface {
	ValidateSession(ctx context.Context) error
}

func Authenticator(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			bearer := r.Header.Get("Authorization")
			if len(bearer) <= len(prefix) || !strings.EqualFold(bearer[:len(prefix)], prefix) {
				unauthorizedError(w, "No token provided")
				return
			}
			token := strings.TrimSpace(bearer[len(prefix):])

			claims, err := Verify(token)
			if err != nil {
				unauthorizedError(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyClaims, *claims)
			ctx = context.WithValue(ctx, CtxKeyToken, token)

			if err := v.ValidateSession(ctx); err != nil {
				unauthorizedError(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorizedError(w http.ResponseWriter, detail string) {
	log.Error().Msg(detail)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}{
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   "UNAUTHORIZED",
	})
}
