// Package httpresponse общие для REST хендлеров запись ответа и
// отображение ошибок сервисов в HTTP коды.
package httpresponse

import (
	"encoding/json"
	"errors"
	"net/http"

	"dormeal/internal/entities"
	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/service/lifecycle"
	"dormeal/internal/service/order"
	"dormeal/pkg/logger"
)

const (
	CodeInvalidInput           = "invalid_input"
	CodeNotFound               = "not_found"
	CodeOrderAlreadyClaimed    = "order_already_claimed"
	CodeOrderAlreadyComplete   = "order_already_complete"
	CodeInvalidTransition      = "invalid_transition"
	CodeStatusChanged          = "status_changed"
	CodeForbidden              = "forbidden"
	CodeUnauthorized           = "unauthorized"
	CodeServerError            = "server_error"
	CodeNotificationFailed     = "notification_delivery_failed"
	CodeOrderExists            = "order_exists"
	CodeInvalidOrderCode       = "invalid_order_code"
	CodeMissingDropoffPhoto    = "missing_dropoff_photo"
	CodeCannotClaimOwnOrder    = "cannot_claim_own_order"
	messageInternalServerError = "internal server error"
)

type errorLogger interface {
	Error(msg string, fields ...logger.Field)
}

// WriteJSON пишет тело ответа. Ошибка кодирования только логируется:
// заголовок к этому моменту уже отправлен.
func WriteJSON(w http.ResponseWriter, log errorLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("encode JSON response", logger.ErrorField(err))
	}
}

func WriteError(w http.ResponseWriter, log errorLogger, status int, code, message string) {
	WriteJSON(w, log, status, dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// WriteServiceError отображает ошибку сервиса в код и тело ответа.
// Неизвестные ошибки отдаются как 500 без текста и логируются.
func WriteServiceError(w http.ResponseWriter, log errorLogger, err error) {
	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", logger.ErrorField(err))
		WriteError(w, log, status, code, messageInternalServerError)
		return
	}
	WriteError(w, log, status, code, err.Error())
}

func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		return http.StatusNotFound, CodeNotFound

	case errors.Is(err, entities.ErrOrderAlreadyClaimed):
		return http.StatusBadRequest, CodeOrderAlreadyClaimed
	case errors.Is(err, entities.ErrOrderAlreadyComplete):
		return http.StatusBadRequest, CodeOrderAlreadyComplete
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusBadRequest, CodeInvalidTransition
	case errors.Is(err, lifecycle.ErrStatusChanged):
		return http.StatusBadRequest, CodeStatusChanged
	case errors.Is(err, lifecycle.ErrInvalidOrderCode):
		return http.StatusBadRequest, CodeInvalidOrderCode
	case errors.Is(err, lifecycle.ErrMissingPhoto):
		return http.StatusBadRequest, CodeMissingDropoffPhoto
	case errors.Is(err, lifecycle.ErrCannotClaimOwnOrder):
		return http.StatusBadRequest, CodeCannotClaimOwnOrder
	case errors.Is(err, entities.ErrOrderExists):
		return http.StatusBadRequest, CodeOrderExists

	case errors.Is(err, entities.ErrNotOrderCarrier),
		errors.Is(err, lifecycle.ErrNotOrderCustomer),
		errors.Is(err, ErrActorMismatch):
		return http.StatusForbidden, CodeForbidden

	case errors.Is(err, lifecycle.ErrUnknownAction),
		order.IsValidationError(err):
		return http.StatusBadRequest, CodeInvalidInput

	default:
		return http.StatusInternalServerError, CodeServerError
	}
}
