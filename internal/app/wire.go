//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"time"

	"dormeal/internal/gateway/grpc/push"
	"dormeal/internal/gateway/kafka/events_publisher"
	"dormeal/internal/gateway/logpush"
	"dormeal/internal/handlers/rest/available_orders_get"
	"dormeal/internal/handlers/rest/carrier_orders_get"
	"dormeal/internal/handlers/rest/order_details_get"
	"dormeal/internal/handlers/rest/order_status_get"
	"dormeal/internal/handlers/rest/order_transition_put"
	"dormeal/internal/handlers/rest/orders_post"
	"dormeal/internal/handlers/tasks/exchange_recovery"
	"dormeal/internal/handlers/tasks/stale_orders"
	"dormeal/internal/pkg/config"
	"dormeal/internal/pkg/factory/carrier_payout"
	"dormeal/internal/pkg/factory/order_handle"
	orderRepo "dormeal/internal/repository/order"
	lifecycleService "dormeal/internal/service/lifecycle"
	orderService "dormeal/internal/service/order"
	orderEventsService "dormeal/internal/service/order_events"
	"dormeal/pkg/background"
	"dormeal/pkg/countdown"
	"dormeal/pkg/logger"
	"dormeal/pkg/querier"
	"dormeal/pkg/tx"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"google.golang.org/grpc"
)

type (
	StaleOrdersInterval      time.Duration
	ExchangeRecoveryInterval time.Duration
)

type Application struct {
	ServiceOrder      ServiceOrder
	ServiceLifecycle  ServiceLifecycle
	Countdown         *countdown.Manager
	BackgroundWorkers *background.Worker
}

type ServiceOrder interface {
	orders_post.Service
	order_details_get.Service
	available_orders_get.Service
	carrier_orders_get.Service
	order_status_get.Service
}

type ServiceLifecycle interface {
	order_transition_put.Service
}

var commonSet = wire.NewSet(
	provideTxManager,
	provideQuerier,
	provideClock,
	provideCountdown,
	provideNotifier,
	provideEventsPublisher,
	providePayoutFactory,

	provideOrderRepository,
	provideLifecycleService,
	provideOrderService,

	wire.Bind(new(lifecycleService.Repository), new(*orderRepo.Repository)),
	wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
	wire.Bind(new(lifecycleService.Countdown), new(*countdown.Manager)),
	wire.Bind(new(orderService.Countdown), new(*countdown.Manager)),
	wire.Bind(new(lifecycleService.EventPublisher), new(*events_publisher.Publisher)),
	wire.Bind(new(orderService.EventPublisher), new(*events_publisher.Publisher)),
	wire.Bind(new(orderService.PayoutFactory), new(*carrier_payout.PayoutFactory)),
	wire.Bind(new(orderService.Lifecycle), new(*lifecycleService.Service)),
	wire.Bind(new(lifecycleService.TxManager), new(*tx.Manager)),
)

// InitializeApplication для HTTP сервиса (cmd/service). conn nil при PUSH_DRIVER=log.
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		commonSet,

		provideStaleOrdersInterval,
		provideExchangeRecoveryInterval,
		provideStaleOrdersTask,
		provideExchangeRecoveryTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceOrder), new(*orderService.Service)),
		wire.Bind(new(ServiceLifecycle), new(*lifecycleService.Service)),
		wire.Bind(new(stale_orders.Service), new(*orderService.Service)),
		wire.Bind(new(exchange_recovery.Service), new(*lifecycleService.Service)),
	)
	return &Application{}, nil
}

type KafkaWorkerApp struct {
	OrderEvents *orderEventsService.Service
	Countdown   *countdown.Manager
}

// InitializeKafkaWorkerApp для воркера событий оформления (cmd/worker-order-created).
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		commonSet,

		provideEventHandlerFactory,
		provideOrderEventsService,

		wire.Bind(new(orderEventsService.OrderService), new(*orderService.Service)),
		wire.Bind(new(orderEventsService.Lifecycle), new(*lifecycleService.Service)),
		wire.Bind(new(orderEventsService.HandlerFactory), new(*order_handle.EventHandlerFactory)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideCountdown(ctx context.Context, clock clockwork.Clock) *countdown.Manager {
	return countdown.New(ctx, countdown.WithClock(clock))
}

func provideNotifier(log logger.Logger, conn *grpc.ClientConn, cfg *config.Config) lifecycleService.Notifier {
	if cfg.Push.Driver == config.PushDriverLog || conn == nil {
		return logpush.New(log)
	}
	return push.New(conn)
}

func provideEventsPublisher(producer sarama.SyncProducer, cfg *config.Config) *events_publisher.Publisher {
	return events_publisher.New(producer, cfg.Kafka.EventsTopic)
}

func providePayoutFactory(cfg *config.Config) *carrier_payout.PayoutFactory {
	return carrier_payout.New(cfg.Lifecycle.CarrierPayout, cfg.Lifecycle.MeetAtDoorBonus)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideLifecycleService(
	repository lifecycleService.Repository,
	notifier lifecycleService.Notifier,
	publisher lifecycleService.EventPublisher,
	countdown lifecycleService.Countdown,
	txManager lifecycleService.TxManager,
	clock clockwork.Clock,
	log logger.Logger,
	cfg *config.Config,
) *lifecycleService.Service {
	return lifecycleService.New(
		repository,
		notifier,
		publisher,
		countdown,
		txManager,
		clock,
		log,
		lifecycleService.Config{ExchangeCountdown: cfg.Lifecycle.ExchangeCountdown},
	)
}

func provideOrderService(
	repository orderService.Repository,
	lifecycle orderService.Lifecycle,
	countdown orderService.Countdown,
	payout orderService.PayoutFactory,
	publisher orderService.EventPublisher,
	clock clockwork.Clock,
	log logger.Logger,
	cfg *config.Config,
) *orderService.Service {
	return orderService.New(
		repository,
		lifecycle,
		countdown,
		payout,
		publisher,
		clock,
		log,
		orderService.Config{StalePendingTTL: cfg.Lifecycle.StalePendingTTL},
	)
}

func provideEventHandlerFactory(
	orderService orderEventsService.OrderService,
	lifecycle orderEventsService.Lifecycle,
) *order_handle.EventHandlerFactory {
	return order_handle.NewEventHandlerFactory(orderService, lifecycle)
}

func provideOrderEventsService(handlerFactory orderEventsService.HandlerFactory) *orderEventsService.Service {
	return orderEventsService.New(handlerFactory)
}

func provideStaleOrdersInterval(cfg *config.Config) StaleOrdersInterval {
	return StaleOrdersInterval(cfg.Tasks.StaleOrdersInterval)
}

func provideExchangeRecoveryInterval(cfg *config.Config) ExchangeRecoveryInterval {
	return ExchangeRecoveryInterval(cfg.Tasks.ExchangeRecoveryInterval)
}

func provideStaleOrdersTask(
	log logger.Logger,
	service stale_orders.Service,
	interval StaleOrdersInterval,
) *stale_orders.StaleOrders {
	return stale_orders.NewStaleOrders(log, service, time.Duration(interval))
}

func provideExchangeRecoveryTask(
	log logger.Logger,
	service exchange_recovery.Service,
	interval ExchangeRecoveryInterval,
) *exchange_recovery.ExchangeRecovery {
	return exchange_recovery.NewExchangeRecovery(log, service, time.Duration(interval))
}

func provideTaskList(
	staleOrdersTask *stale_orders.StaleOrders,
	exchangeRecoveryTask *exchange_recovery.ExchangeRecovery,
) []background.Task {
	return []background.Task{
		staleOrdersTask,
		exchangeRecoveryTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
