package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/entities"
	retrierconfig "dormeal/pkg/retrier"
	"dormeal/pkg/retrier/backoff_adapter"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	serviceName = "push-service"

	SendMethod = "/dormeal.push.v1.PushService/Send"
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 3 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
)

var ErrInvalidNotification = errors.New("notification has no recipient")

type PushGateway struct {
	client  client
	retrier retrier
}

func New(client client) *PushGateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryableCode,
	}

	return &PushGateway{
		client:  client,
		retrier: backoff_adapter.New(retryConfig),
	}
}

// Notify отправляет один пуш. Временные ошибки сервиса ретраятся,
// остальные возвращаются сразу.
func (p *PushGateway) Notify(ctx context.Context, n entities.Notification) error {
	if n.RecipientID == "" {
		return ErrInvalidNotification
	}

	req, err := toProto(n)
	if err != nil {
		return err
	}

	err = p.executeWithMetrics(ctx, "Send", func(ctx context.Context) error {
		return p.client.Invoke(ctx, SendMethod, req, &emptypb.Empty{})
	})
	if err != nil {
		return fmt.Errorf("gateway push, send %s to %s: %w", n.Kind, n.RecipientID, err)
	}
	return nil
}

func isRetryableCode(err error) bool {
	if err == nil {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.ResourceExhausted,
		codes.Unavailable,
		codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func (p *PushGateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := p.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	grpcCode := getGRPCCode(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, grpcCode).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, grpcCode).Inc()
	}

	return err
}

func getGRPCCode(err error) string {
	if err == nil {
		return "OK"
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return "UNKNOWN"
}
