package carrier_orders_get

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
		log:     log.With(logger.NewField("handler", "carrier_orders_get")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	carrierID, err := httpresponse.Actor(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	orders, err := h.service.ListCarrierOrders(r.Context(), carrierID)
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	response := dto.CarrierOrdersResponse{
		Active:    make([]dto.CarrierOrder, 0, len(orders.Active)),
		Completed: make([]dto.CarrierOrder, 0, len(orders.Completed)),
	}
	for _, order := range orders.Active {
		response.Active = append(response.Active, dto.NewCarrierOrder(order))
	}
	for _, order := range orders.Completed {
		response.Completed = append(response.Completed, dto.NewCarrierOrder(order))
	}

	httpresponse.WriteJSON(w, h.log, http.StatusOK, response)
}
