package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormeal/internal/entities"
	"dormeal/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// деньги читаем текстом, чтобы не терять точность NUMERIC
var orderColumns = []string{
	"id::text",
	"customer_id",
	"carrier_id",
	"status",
	"delivery_method",
	"restaurant_name",
	"restaurant_location",
	"building",
	"location",
	"cart",
	"total_price::text",
	"carrier_payout::text",
	"order_code",
	"dropoff_photo_url",
	"exchange_started_at",
	"exchange_expired",
	"cancel_reason",
	"created_at",
	"updated_at",
	"claimed_at",
	"completed_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, order entities.Order) (*entities.Order, error) {
	cart, err := CartFromDomain(order.Cart)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	query, args, err := qb.
		Insert("orders").
		Columns(
			"id",
			"customer_id",
			"status",
			"delivery_method",
			"restaurant_name",
			"restaurant_location",
			"building",
			"location",
			"cart",
			"total_price",
			"carrier_payout",
			"order_code",
			"created_at",
			"updated_at",
		).
		Values(
			order.ID,
			order.CustomerID,
			order.Status.String(),
			order.DeliveryMethod.String(),
			order.RestaurantName,
			order.RestaurantLocation,
			order.Building,
			order.Location,
			cart,
			order.TotalPrice.String(),
			order.CarrierPayout.String(),
			order.OrderCode,
			order.CreatedAt,
			order.UpdatedAt,
		).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	created, err := r.scanOne(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, entities.ErrOrderExists
		}
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, orderID string) (*entities.Order, error) {
	query, args, err := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	order, err := r.scanOne(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) ||
			repository.IsPgErrorWithCode(err, repository.PgErrInvalidTextRepresentation) {
			return nil, entities.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}
	return order, nil
}

// CompareAndSetStatus переводит заказ expected -> next одним условным UPDATE.
// false - статус уже не expected (кто-то успел раньше), строка не тронута.
// Для pending дополнительно требуем carrier_id IS NULL: claim эксклюзивен.
func (r *Repository) CompareAndSetStatus(
	ctx context.Context,
	orderID string,
	expected, next entities.OrderStatus,
	modify entities.OrderModify,
) (bool, error) {
	modifyDB := FromDomainModify(&modify)

	builder := qb.
		Update("orders").
		Set("status", next.String())

	// опционные поля
	if modifyDB.CarrierID != nil {
		builder = builder.Set("carrier_id", *modifyDB.CarrierID)
	}
	if modifyDB.DropoffPhotoURL != nil {
		builder = builder.Set("dropoff_photo_url", *modifyDB.DropoffPhotoURL)
	}
	if modifyDB.ExchangeStartedAt != nil {
		builder = builder.Set("exchange_started_at", *modifyDB.ExchangeStartedAt)
	}
	if modifyDB.ExchangeExpired != nil {
		builder = builder.Set("exchange_expired", *modifyDB.ExchangeExpired)
	}
	if modifyDB.CancelReason != nil {
		builder = builder.Set("cancel_reason", *modifyDB.CancelReason)
	}
	if modifyDB.ClaimedAt != nil {
		builder = builder.Set("claimed_at", *modifyDB.ClaimedAt)
	}
	if modifyDB.CompletedAt != nil {
		builder = builder.Set("completed_at", *modifyDB.CompletedAt)
	}
	if modifyDB.UpdatedAt != nil {
		builder = builder.Set("updated_at", *modifyDB.UpdatedAt)
	} else {
		builder = builder.Set("updated_at", sq.Expr("NOW()"))
	}

	where := sq.Eq{
		"id":     orderID,
		"status": expected.String(),
	}
	if expected == entities.OrderPending {
		where["carrier_id"] = nil
	}

	query, args, err := builder.Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("unexpected order repository cas error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrInvalidTextRepresentation) {
			return false, entities.ErrOrderNotFound
		}
		return false, fmt.Errorf("unexpected order repository cas error: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkExchangeExpired ставит флаг истекшего ожидания у двери. Срабатывает
// только пока заказ в at_exchange_point и флаг еще не стоял.
func (r *Repository) MarkExchangeExpired(ctx context.Context, orderID string, at time.Time) (bool, error) {
	query, args, err := qb.
		Update("orders").
		Set("exchange_expired", true).
		Set("updated_at", at).
		Where(sq.Eq{
			"id":               orderID,
			"status":           entities.OrderAtExchangePoint.String(),
			"exchange_expired": false,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("unexpected order repository mark expired error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrInvalidTextRepresentation) {
			return false, entities.ErrOrderNotFound
		}
		return false, fmt.Errorf("unexpected order repository mark expired error: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// ListAvailable pending заказы, кроме заказов самого пользователя.
func (r *Repository) ListAvailable(ctx context.Context, excludeCustomerID string) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": entities.OrderPending.String()}).
		OrderBy("created_at DESC")

	if excludeCustomerID != "" {
		builder = builder.Where(sq.NotEq{"customer_id": excludeCustomerID})
	}

	return r.list(ctx, builder, "list available")
}

func (r *Repository) ListByCarrier(ctx context.Context, carrierID string) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"carrier_id": carrierID}).
		OrderBy("updated_at DESC")

	return r.list(ctx, builder, "list by carrier")
}

// ListStalePending pending заказы, созданные раньше createdBefore.
func (r *Repository) ListStalePending(ctx context.Context, createdBefore time.Time, limit uint64) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": entities.OrderPending.String()}).
		Where(sq.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC").
		Limit(limit)

	return r.list(ctx, builder, "list stale pending")
}

// ListAwaitingExchange заказы у двери без истекшего флага, для
// восстановления отсчетов после рестарта.
func (r *Repository) ListAwaitingExchange(ctx context.Context) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{
			"status":           entities.OrderAtExchangePoint.String(),
			"exchange_expired": false,
		}).
		OrderBy("exchange_started_at ASC")

	return r.list(ctx, builder, "list awaiting exchange")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row rowScanner) (*entities.Order, error) {
	var orderDB OrderDB
	if err := row.Scan(orderDB.ScanArgs()...); err != nil {
		return nil, err
	}
	return ToDomain(&orderDB)
}

func (r *Repository) list(ctx context.Context, builder sq.SelectBuilder, op string) ([]entities.Order, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
	}
	defer rows.Close()

	orderModels := make([]OrderDB, 0, 8)
	for rows.Next() {
		var orderDB OrderDB
		if err := rows.Scan(orderDB.ScanArgs()...); err != nil {
			return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
		}
		orderModels = append(orderModels, orderDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
	}

	orders, err := ToDomainList(orderModels)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
	}
	return orders, nil
}

func joinColumns() string {
	return strings.Join(orderColumns, ", ")
}
