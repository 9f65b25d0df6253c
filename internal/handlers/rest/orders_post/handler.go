package orders_post

import (
	"encoding/json"
	"net/http"

	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/handlers/rest/httpresponse"
	"dormeal/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "orders_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body dto.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpresponse.WriteError(w, h.log, http.StatusBadRequest, httpresponse.CodeInvalidInput, "invalid JSON body")
		return
	}

	customerID, err := httpresponse.Actor(r.Context(), body.CustomerID)
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}
	body.CustomerID = customerID

	order, err := h.service.CreateOrder(r.Context(), body.ToEntity())
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	httpresponse.WriteJSON(w, h.log, http.StatusCreated, dto.NewOrder(order))
}
