package lifecycle

import (
	"strings"

	"github.com/google/uuid"
)

func isValidOrderID(orderID string) bool {
	return uuid.Validate(orderID) == nil
}

func isValidActorID(actorID string) bool {
	return strings.TrimSpace(actorID) != ""
}
