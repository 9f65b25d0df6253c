package push

import (
	"fmt"

	"dormeal/internal/entities"

	"google.golang.org/protobuf/types/known/structpb"
)

func toProto(n entities.Notification) (*structpb.Struct, error) {
	payload := make(map[string]any, len(n.Payload))
	for k, v := range n.Payload {
		payload[k] = v
	}

	req, err := structpb.NewStruct(map[string]any{
		"recipient_id": n.RecipientID,
		"kind":         n.Kind.String(),
		"order_id":     n.OrderID,
		"payload":      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	return req, nil
}
