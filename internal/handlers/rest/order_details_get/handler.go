package order_details_get

import (
	"net/http"

	"dormeal/internal/entities"
	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/handlers/rest/httpresponse"
	"dormeal/internal/pkg/middlewares/auth"
	"dormeal/pkg/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "order_details_get")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	// с токеном заказ видят только его клиент и курьер
	if userID, ok := auth.UserID(r.Context()); ok && userID != order.CustomerID && !order.IsHeldBy(userID) {
		httpresponse.WriteServiceError(w, h.log, entities.ErrNotOrderCarrier)
		return
	}

	httpresponse.WriteJSON(w, h.log, http.StatusOK, dto.NewOrder(order))
}
