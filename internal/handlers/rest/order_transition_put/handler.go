package order_transition_put

import (
	"encoding/json"
	"errors"
	"net/http"

	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/handlers/rest/httpresponse"
	"dormeal/internal/service/lifecycle"
	"dormeal/pkg/logger"

	"github.com/gorilla/mux"
)

const messageNotNotified = "action completed, but recipient not notified"

var successMessages = map[lifecycle.Action]string{
	lifecycle.ActionClaim:           "order claimed",
	lifecycle.ActionPickup:          "order picked up",
	lifecycle.ActionNearby:          "carrier is nearby",
	lifecycle.ActionAtExchangePoint: "carrier is at the exchange point",
	lifecycle.ActionConfirmReceived: "order received",
	lifecycle.ActionDropoff:         "order dropped off",
	lifecycle.ActionHandoff:         "order handed off",
	lifecycle.ActionCancel:          "order cancelled",
}

// Handler один на все PUT действия над заказом, действие задается маршрутом.
type Handler struct {
	log     handlerLogger
	service Service
	action  lifecycle.Action
}

func New(log handlerLogger, service Service, action lifecycle.Action) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("action", action.String())),
		service: service,
		action:  action,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpresponse.WriteError(w, h.log, http.StatusBadRequest, httpresponse.CodeInvalidInput, "invalid JSON body")
		return
	}

	// /order/nearby принимает orderId и в пути, и в теле
	orderID := mux.Vars(r)["orderId"]
	if orderID == "" {
		orderID = body.OrderID
	}

	actorID, err := httpresponse.Actor(r.Context(), body.UserID)
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	result, err := h.service.Apply(r.Context(), lifecycle.Request{
		OrderID:   orderID,
		ActorID:   actorID,
		Action:    h.action,
		PhotoURL:  body.PhotoURL,
		OrderCode: body.OrderCode,
		Reason:    body.Reason,
	})
	switch {
	case errors.Is(err, lifecycle.ErrNotificationDeliveryFailed) && result != nil && result.Order != nil:
		h.log.With(
			logger.NewField("order", orderID),
			logger.ErrorField(err),
		).Warn("transition applied without notification")

		httpresponse.WriteJSON(w, h.log, http.StatusOK, dto.TransitionResponse{
			Message:     messageNotNotified,
			OrderStatus: result.Order.Status.String(),
			Notified:    false,
			Code:        httpresponse.CodeNotificationFailed,
		})
		return

	case err != nil:
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	httpresponse.WriteJSON(w, h.log, http.StatusOK, dto.TransitionResponse{
		Message:     successMessages[h.action],
		OrderStatus: result.Order.Status.String(),
		Notified:    result.Notified,
	})
}
