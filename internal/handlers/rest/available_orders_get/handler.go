package available_orders_get

import (
	"net/http"

	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/handlers/rest/httpresponse"
	"dormeal/pkg/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "available_orders_get")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := httpresponse.Actor(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	orders, err := h.service.ListAvailable(r.Context(), userID)
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	response := dto.AvailableOrdersResponse{
		Orders: make([]dto.AvailableOrder, 0, len(orders)),
	}
	for _, order := range orders {
		response.Orders = append(response.Orders, dto.NewAvailableOrder(order))
	}

	httpresponse.WriteJSON(w, h.log, http.StatusOK, response)
}
