package hotel

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, h *Hotel) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO hotels (
			id, owner_user_id, name, description, address_line, city, state, pincode,
			contact_phone, contact_email, daily_mess_price, monthly_mess_price,
			security_deposit, max_students, is_active, is_verified, created_at, updated_at
		) VALUES (
			:id, :owner_user_id, :name, :description, :address_line, :city, :state, :pincode,
			:contact_phone, :contact_email, :daily_mess_price, :monthly_mess_price,
			:security_deposit, :max_students, :is_active, :is_verified, :created_at, :updated_at
		)
	`, h)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrHotelExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Hotel, error) {
	var h Hotel
	err := r.db.GetContext(ctx, &h, `SELECT * FROM hotels WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*Hotel, error) {
	var h Hotel
	err := r.db.GetContext(ctx, &h, `SELECT * FROM hotels WHERE owner_user_id = $1`, ownerUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM hotels WHERE id = $1 AND is_active = true)
	`, id)
	return exists, err
}

func (r *Repository) ListActive(ctx context.Context, city string, limit, offset int) ([]Hotel, error) {
	hotels := []Hotel{}
	if city != "" {
		err := r.db.SelectContext(ctx, &hotels, `
			SELECT * FROM hotels
			WHERE is_active = true AND lower(city) = lower($1)
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, city, limit, offset)
		return hotels, err
	}
	err := r.db.SelectContext(ctx, &hotels, `
		SELECT * FROM hotels
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return hotels, err
}

func (r *Repository) Update(ctx context.Context, h *Hotel) error {
	h.UpdatedAt = time.Now()
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE hotels SET
			name = :name,
			description = :description,
			address_line = :address_line,
			city = :city,
			state = :state,
			pincode = :pincode,
			contact_phone = :contact_phone,
			contact_email = :contact_email,
			daily_mess_price = :daily_mess_price,
			monthly_mess_price = :monthly_mess_price,
			security_deposit = :security_deposit,
			max_students = :max_students,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id
	`, h)
	return err
}

// AddRatingTx folds a new order rating into the hotel aggregate inside the
// caller's transaction.
func (r *Repository) AddRatingTx(ctx context.Context, tx *sqlx.Tx, hotelID uuid.UUID, score int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE hotels SET
			rating_total = rating_total + $1,
			rating_count = rating_count + 1,
			updated_at = now()
		WHERE id = $2
	`, score, hotelID)
	return err
}

func (r *Repository) CreateMenuItem(ctx context.Context, m *MenuItem) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO menu_items (
			id, hotel_id, name, description, price, category,
			is_veg, is_available, image_url, created_at, updated_at
		) VALUES (
			:id, :hotel_id, :name, :description, :price, :category,
			:is_veg, :is_available, :image_url, :created_at, :updated_at
		)
	`, m)
	return err
}

func (r *Repository) GetMenuItem(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	var m MenuItem
	err := r.db.GetContext(ctx, &m, `SELECT * FROM menu_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListMenu(ctx context.Context, hotelID uuid.UUID, category MenuCategory, availableOnly bool) ([]MenuItem, error) {
	items := []MenuItem{}
	query := `SELECT * FROM menu_items WHERE hotel_id = $1`
	args := []interface{}{hotelID}
	if category != "" {
		args = append(args, category)
		query += ` AND category = $2`
	}
	if availableOnly {
		query += ` AND is_available = true`
	}
	query += ` ORDER BY category, name`
	err := r.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GetMenuItemsForOrder loads available items of one hotel by id, the source
// of the price snapshot taken at order time.
func (r *Repository) GetMenuItemsForOrder(ctx context.Context, hotelID uuid.UUID, itemIDs []uuid.UUID) ([]MenuItem, error) {
	items := []MenuItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM menu_items
		WHERE hotel_id = $1 AND id = ANY($2) AND is_available = true
	`, hotelID, pq.Array(itemIDs))
	return items, err
}

func (r *Repository) UpdateMenuItem(ctx context.Context, m *MenuItem) error {
	m.UpdatedAt = time.Now()
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE menu_items SET
			name = :name,
			description = :description,
			price = :price,
			category = :category,
			is_veg = :is_veg,
			is_available = :is_available,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE id = :id
	`, m)
	return err
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
