package order_status_get

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
		log:     log.With(logger.NewField("handler", "order_status_get")),
		service: service,
	}
}

// ServeHTTP опрашивается приложением курьера раз в 10 секунд. 400
// order_already_complete с carrier_id - сигнал остановить опрос.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	carrierID := r.URL.Query().Get("carrier_id")
	if carrierID != "" {
		var err error
		if carrierID, err = httpresponse.Actor(r.Context(), carrierID); err != nil {
			httpresponse.WriteServiceError(w, h.log, err)
			return
		}
	}

	view, err := h.service.GetStatus(r.Context(), mux.Vars(r)["orderId"], carrierID)
	if err != nil {
		httpresponse.WriteServiceError(w, h.log, err)
		return
	}

	httpresponse.WriteJSON(w, h.log, http.StatusOK, dto.OrderStatusResponse{
		OrderStatus:         view.OrderStatus.String(),
		ExchangeType:        view.ExchangeType.String(),
		ProceedToDropoff:    view.ProceedToDropoff,
		ExchangeSecondsLeft: view.ExchangeSecondsLeft,
	})
}
