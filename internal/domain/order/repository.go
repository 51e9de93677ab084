package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/messhub/messhub-api/internal/pkg/sequence"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// CreateTx inserts the order and its item snapshots. An order_number
// collision surfaces as ErrDuplicateOrderNumber for the caller's retry.
func (r *Repository) CreateTx(ctx context.Context, tx *sqlx.Tx, o *Order) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, student_id, hotel_id, order_type,
			subtotal, taxes, discount, total, status, payment_status, payment_method,
			special_instructions, requested_delivery_at, estimated_delivery_at,
			created_at, updated_at
		) VALUES (
			:id, :order_number, :student_id, :hotel_id, :order_type,
			:subtotal, :taxes, :discount, :total, :status, :payment_status, :payment_method,
			:special_instructions, :requested_delivery_at, :estimated_delivery_at,
			:created_at, :updated_at
		)
	`, o)
	if err != nil {
		if sequence.IsUniqueViolation(err) {
			return ErrDuplicateOrderNumber
		}
		return err
	}

	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
	}
	if len(o.Items) > 0 {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, menu_item_id, name, price, quantity,
				category, is_veg, special_instructions, position
			) VALUES (
				:id, :order_id, :menu_item_id, :name, :price, :quantity,
				:category, :is_veg, :special_instructions, :position
			)
		`, o.Items); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE order_number = $1`, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetForUpdateTx locks the order row so status changes and refunds do not
// race each other.
func (r *Repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Order, error) {
	var o Order
	err := tx.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status Status) error {
	query := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`
	if status == StatusDelivered {
		query = `UPDATE orders SET status = $1, actual_delivery_at = now(), updated_at = now() WHERE id = $2`
	}
	_, err := tx.ExecContext(ctx, query, status, id)
	return err
}

func (r *Repository) UpdatePaymentStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, ps PaymentStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = now() WHERE id = $2
	`, ps, id)
	return err
}

func (r *Repository) AppendHistoryTx(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID, status Status, note *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, note) VALUES ($1, $2, $3)
	`, orderID, status, note)
	return err
}

func (r *Repository) SetRatingTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, score int, comment *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders SET
			rating_score = $1,
			rating_comment = $2,
			rated_at = now(),
			updated_at = now()
		WHERE id = $3 AND rated_at IS NULL
	`, score, comment, id)
	return err
}

func (r *Repository) History(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error) {
	history := []StatusHistory{}
	err := r.db.SelectContext(ctx, &history, `
		SELECT * FROM order_status_history WHERE order_id = $1 ORDER BY id
	`, orderID)
	return history, err
}

func (r *Repository) ListByStudent(ctx context.Context, studentID uuid.UUID, f ListFilter) ([]Order, error) {
	return r.list(ctx, `student_id`, studentID, f)
}

func (r *Repository) ListByHotel(ctx context.Context, hotelID uuid.UUID, f ListFilter) ([]Order, error) {
	return r.list(ctx, `hotel_id`, hotelID, f)
}

func (r *Repository) list(ctx context.Context, column string, id uuid.UUID, f ListFilter) ([]Order, error) {
	orders := []Order{}
	query := fmt.Sprintf(`SELECT * FROM orders WHERE %s = $1`, column)
	args := []interface{}{id}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) DailyStats(ctx context.Context, hotelID uuid.UUID, day time.Time) (*DailyStats, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	row := struct {
		OrderCount     int   `db:"order_count"`
		DeliveredCount int   `db:"delivered_count"`
		CancelledCount int   `db:"cancelled_count"`
		Revenue        int64 `db:"revenue"`
		RefundedAmount int64 `db:"refunded_amount"`
		TotalItemsSold int   `db:"total_items_sold"`
	}{}
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS order_count,
			COUNT(*) FILTER (WHERE status = 'delivered') AS delivered_count,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_count,
			COALESCE(SUM(total) FILTER (WHERE status != 'cancelled'), 0) AS revenue,
			COALESCE(SUM(total) FILTER (WHERE payment_status = 'refunded'), 0) AS refunded_amount,
			COALESCE((
				SELECT SUM(oi.quantity)
				FROM order_items oi
				JOIN orders o2 ON o2.id = oi.order_id
				WHERE o2.hotel_id = $1 AND o2.created_at >= $2 AND o2.created_at < $3
					AND o2.status != 'cancelled'
			), 0) AS total_items_sold
		FROM orders
		WHERE hotel_id = $1 AND created_at >= $2 AND created_at < $3
	`, hotelID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &DailyStats{
		Date:           start.Format("2006-01-02"),
		OrderCount:     row.OrderCount,
		DeliveredCount: row.DeliveredCount,
		CancelledCount: row.CancelledCount,
		Revenue:        row.Revenue,
		RefundedAmount: row.RefundedAmount,
		TotalItemsSold: row.TotalItemsSold,
	}
	if billable := row.OrderCount - row.CancelledCount; billable > 0 {
		stats.AvgOrderValue = row.Revenue / int64(billable)
	}
	return stats, nil
}

func (r *Repository) loadItems(ctx context.Context, o *Order) error {
	items := []Item{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM order_items WHERE order_id = $1 ORDER BY position
	`, o.ID)
	if err != nil {
		return err
	}
	o.Items = items
	return nil
}
