package ping_get

import (
	"net/http"

	"dormeal/internal/handlers/rest/dto"
	"dormeal/internal/handlers/rest/httpresponse"
	"dormeal/pkg/logger"
)

const pong = "pong"

// Handler отвечает pong с именем компонента, чтобы за балансировщиком было видно, кто ответил.
type Handler struct {
	log       handlerLogger
	component string
}

func New(log handlerLogger, component string) *Handler {
	return &Handler{
		log:       log.With(logger.NewField("component", component)),
		component: component,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	message := pong
	httpresponse.WriteJSON(w, h.log, http.StatusOK, dto.PingResponse{
		Message:   &message,
		Component: h.component,
	})
}
