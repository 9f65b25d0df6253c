package entities

import "errors"

// Общие для слоев ошибки заказа. Репозиторий и сервисы возвращают их,
// хендлеры по ним выбирают HTTP код.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderExists          = errors.New("order already exists")
	ErrOrderAlreadyClaimed  = errors.New("order already claimed")
	ErrOrderAlreadyComplete = errors.New("order already complete")
	ErrNotOrderCarrier      = errors.New("user is not the carrier of this order")
)

// Ошибки входных данных, общие для сервисов.
var (
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrInvalidUserID  = errors.New("invalid user id")
)
