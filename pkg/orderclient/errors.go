package orderclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrNotFound                   = errors.New("not found")
	ErrOrderAlreadyClaimed        = errors.New("order already claimed")
	ErrOrderAlreadyComplete       = errors.New("order already complete")
	ErrForbidden                  = errors.New("forbidden")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrRateLimited                = errors.New("rate limited")
	ErrServer                     = errors.New("server error")
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)

// APIError ответ сервиса с кодом не 2xx. Разбор идет по полю code тела,
// а не по тексту сообщения.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap дает errors.Is(err, ErrOrderAlreadyClaimed) и т.п.
// Для неизвестного статуса возвращает nil.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "order_already_claimed":
		return ErrOrderAlreadyClaimed
	case "order_already_complete":
		return ErrOrderAlreadyComplete
	}

	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return ErrServer
	default:
		return nil
	}
}
