package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PushDriverGRPC = "grpc"
	PushDriverLog  = "log"

	defaultExchangeCountdown = 300 * time.Second
	defaultStalePendingTTL   = 2 * time.Hour
	defaultCarrierPayout     = "2.50"
	defaultMeetAtDoorBonus   = "0.50"
)

type (
	Tasks struct {
		StaleOrdersInterval      time.Duration
		ExchangeRecoveryInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter refill
		RateLimiterBurst int           // middleware rate limiter capacity
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		MaxConns int32
	}

	Lifecycle struct {
		// окно ожидания клиента у двери для meet_at_door
		ExchangeCountdown time.Duration
		// выплата курьеру, фиксируется при создании заказа
		CarrierPayout decimal.Decimal
		// надбавка за ожидание у двери
		MeetAtDoorBonus decimal.Decimal
		// pending старше этого отменяются системой
		StalePendingTTL time.Duration
	}

	Push struct {
		Driver   string // grpc | log
		GRPCHost string
	}

	Auth struct {
		// пустой секрет - проверка токена выключена
		JWTSecret string
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		EventsTopic     string
		CheckoutTopic   string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderEvents OrderEvents
	}

	OrderEvents struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks     Tasks
		Server    HTTPServer
		Database  Database
		Lifecycle Lifecycle
		Push      Push
		Auth      Auth
		Kafka     Kafka
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	staleInterval, err := osGetEnvDuration("BACKGROUND_STALE_ORDERS_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	recoveryInterval, err := osGetEnvDuration("BACKGROUND_EXCHANGE_RECOVERY_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	exchangeCountdown, err := osGetEnvDuration("LIFECYCLE_EXCHANGE_COUNTDOWN")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if exchangeCountdown == 0 {
		exchangeCountdown = defaultExchangeCountdown
	}

	stalePendingTTL, err := osGetEnvDuration("LIFECYCLE_STALE_PENDING_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if stalePendingTTL == 0 {
		stalePendingTTL = defaultStalePendingTTL
	}

	payout, err := osGetDecimal("LIFECYCLE_CARRIER_PAYOUT", defaultCarrierPayout)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	meetAtDoorBonus, err := osGetDecimal("LIFECYCLE_MEET_AT_DOOR_BONUS", defaultMeetAtDoorBonus)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderEventsTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxConns, err := osGetInt("POSTGRES_MAX_CONNS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pushDriver := os.Getenv("PUSH_DRIVER")
	if pushDriver == "" {
		pushDriver = PushDriverGRPC
	}

	return &Config{
		Tasks: Tasks{
			StaleOrdersInterval:      staleInterval,
			ExchangeRecoveryInterval: recoveryInterval,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			MaxConns: int32(maxConns),
		},
		Lifecycle: Lifecycle{
			ExchangeCountdown: exchangeCountdown,
			CarrierPayout:     payout,
			MeetAtDoorBonus:   meetAtDoorBonus,
			StalePendingTTL:   stalePendingTTL,
		},
		Push: Push{
			Driver:   pushDriver,
			GRPCHost: os.Getenv("PUSH_SERVICE_GRPC_HOST"),
		},
		Auth: Auth{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			EventsTopic:     os.Getenv("KAFKA_EVENTS_TOPIC"),
			CheckoutTopic:   os.Getenv("KAFKA_CHECKOUT_TOPIC"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderEvents: OrderEvents{
					ProcessTimeout: orderEventsTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.StaleOrdersInterval == time.Duration(0) {
		return errors.New("BACKGROUND_STALE_ORDERS_INTERVAL is required")
	}
	if cfg.Tasks.ExchangeRecoveryInterval == time.Duration(0) {
		return errors.New("BACKGROUND_EXCHANGE_RECOVERY_INTERVAL is required")
	}

	if cfg.Lifecycle.ExchangeCountdown < time.Second {
		return errors.New("LIFECYCLE_EXCHANGE_COUNTDOWN must be at least 1s")
	}
	if cfg.Lifecycle.CarrierPayout.IsNegative() {
		return errors.New("LIFECYCLE_CARRIER_PAYOUT must not be negative")
	}
	if cfg.Lifecycle.MeetAtDoorBonus.IsNegative() {
		return errors.New("LIFECYCLE_MEET_AT_DOOR_BONUS must not be negative")
	}

	switch cfg.Push.Driver {
	case PushDriverGRPC:
		if cfg.Push.GRPCHost == "" {
			return errors.New("PUSH_SERVICE_GRPC_HOST is required for PUSH_DRIVER=grpc")
		}
	case PushDriverLog:
	default:
		return fmt.Errorf("unknown PUSH_DRIVER=%q (grpc|log)", cfg.Push.Driver)
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.EventsTopic == "" {
		return errors.New("KAFKA_EVENTS_TOPIC is required")
	}
	if cfg.Kafka.CheckoutTopic == "" {
		return errors.New("KAFKA_CHECKOUT_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.OrderEvents.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetDecimal(s, fallback string) (decimal.Decimal, error) {
	val := os.Getenv(s)
	if val == "" {
		val = fallback
	}

	res, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
