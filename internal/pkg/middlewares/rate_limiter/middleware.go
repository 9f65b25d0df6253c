package rate_limiter

import (
	"net/http"
	"strconv"

	"dormeal/internal/pkg/middlewares/metrics"
	"dormeal/pkg/logger"
)

const rateLimitedBody = `{"code":"rate_limited","message":"rate limit exceeded, try again later"}`

// Middleware общий на весь сервис token bucket. Опрос статуса курьерским
// приложением идет раз в 10 секунд на заказ, burst закладывается под это.
func Middleware(log handlerLogger, rateLimiterQPS int, rlimiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rlimiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			).Warn("rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimiterQPS))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			if _, err := w.Write([]byte(rateLimitedBody)); err != nil {
				log.With(
					logger.ErrorField(err),
					logger.NewField("path", r.URL.Path),
				).Error("failed to write rate limit response")
			}
		})
	}
}
