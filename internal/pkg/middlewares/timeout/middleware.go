package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware ограничивает время обработки. Переход заказа, успевший
// закоммитить статус, при отмене контекста не откатывается: уведомления
// уходят с тем же контекстом и при таймауте дают notified=false.
func Middleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// r.Context() = ongoingCtx (из BaseContext)
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
