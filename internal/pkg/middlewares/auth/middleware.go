package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dormeal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// UserID пользователь из проверенного токена. false - проверка выключена
// или маршрут без токена.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	return userID, ok && userID != ""
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// Middleware проверяет HS256 токен из Authorization и кладет subject в контекст.
// Пустой secret выключает проверку целиком. skip - пути без токена
// (healthcheck, метрики).
func Middleware(log handlerLogger, secret string, skip ...string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range skip {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, err := subject(parser, key, r.Header.Get("Authorization"))
			if err != nil {
				reason, message := "invalid", ErrInvalidToken.Error()
				if errors.Is(err, ErrMissingToken) {
					reason, message = "missing", ErrMissingToken.Error()
				}
				AuthRejectedTotal.WithLabelValues(reason).Inc()

				log.With(
					logger.NewField("path", r.URL.Path),
					logger.NewField("remote_addr", r.RemoteAddr),
					logger.ErrorField(err),
				).Warn("unauthorized request")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="dormeal"`)
				w.WriteHeader(http.StatusUnauthorized)
				_, err = w.Write([]byte(`{"code":"unauthorized","message":"` + message + `"}`))
				if err != nil {
					log.Error("failed to write unauthorized response", logger.ErrorField(err))
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func subject(parser *jwt.Parser, key []byte, header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}

	token, err := parser.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	userID, err := token.Claims.GetSubject()
	if err != nil || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
