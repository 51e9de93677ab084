package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Migrate applies the schema. Every statement is idempotent so the runner
// can execute on every startup.
func Migrate(db *sqlx.DB) error {
	log.Info().Msg("Running database migrations")

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id),
		name TEXT NOT NULL,
		student_code TEXT NOT NULL UNIQUE,
		mobile TEXT NOT NULL,
		father_name TEXT NOT NULL DEFAULT '',
		father_phone TEXT NOT NULL DEFAULT '',
		emergency_name TEXT NOT NULL DEFAULT '',
		emergency_phone TEXT NOT NULL DEFAULT '',
		emergency_relation TEXT NOT NULL DEFAULT '',
		college_name TEXT NOT NULL DEFAULT '',
		college_course TEXT,
		college_year INT,
		id_card_url TEXT,
		face_image_url TEXT,
		linked_hotel_id UUID,
		hotel_account_status TEXT NOT NULL DEFAULT 'pending',
		hotel_account_requested_at TIMESTAMPTZ,
		hotel_account_approved_at TIMESTAMPTZ,
		dietary_type TEXT NOT NULL DEFAULT 'both',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_linked_hotel ON students(linked_hotel_id)`,

	// Balance is integer minor units and may never go negative; the CHECK is
	// a second line of defense behind the FOR UPDATE settlement path.
	`CREATE TABLE IF NOT EXISTS student_wallets (
		student_id UUID PRIMARY KEY REFERENCES students(id),
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS hotels (
		id UUID PRIMARY KEY,
		owner_user_id UUID NOT NULL UNIQUE REFERENCES users(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address_line TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		pincode TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		daily_mess_price BIGINT NOT NULL DEFAULT 0,
		monthly_mess_price BIGINT NOT NULL DEFAULT 0,
		security_deposit BIGINT NOT NULL DEFAULT 0,
		max_students INT NOT NULL DEFAULT 100,
		is_active BOOLEAN NOT NULL DEFAULT true,
		is_verified BOOLEAN NOT NULL DEFAULT false,
		rating_total BIGINT NOT NULL DEFAULT 0,
		rating_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY,
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		is_veg BOOLEAN NOT NULL DEFAULT true,
		is_available BOOLEAN NOT NULL DEFAULT true,
		image_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_hotel ON menu_items(hotel_id)`,

	// Day-stem counters backing human-readable identifier allocation.
	`CREATE TABLE IF NOT EXISTS id_sequences (
		stem TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id UUID PRIMARY KEY,
		transaction_id TEXT NOT NULL UNIQUE,
		student_id UUID NOT NULL REFERENCES students(id),
		amount BIGINT NOT NULL CHECK (amount > 0),
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT,
		related_order_id UUID,
		related_hotel_id UUID,
		description TEXT NOT NULL DEFAULT '',
		balance_before BIGINT CHECK (balance_before >= 0),
		balance_after BIGINT CHECK (balance_after >= 0),
		failure_reason TEXT,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_student ON ledger_entries(student_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_hotel ON ledger_entries(related_hotel_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_order ON ledger_entries(related_order_id)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		student_id UUID NOT NULL REFERENCES students(id),
		hotel_id UUID NOT NULL REFERENCES hotels(id),
		order_type TEXT NOT NULL,
		subtotal BIGINT NOT NULL CHECK (subtotal >= 0),
		taxes BIGINT NOT NULL DEFAULT 0 CHECK (taxes >= 0),
		discount BIGINT NOT NULL DEFAULT 0 CHECK (discount >= 0),
		total BIGINT NOT NULL CHECK (total >= 0),
		status TEXT NOT NULL DEFAULT 'pending',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL DEFAULT 'wallet',
		special_instructions TEXT,
		requested_delivery_at TIMESTAMPTZ,
		estimated_delivery_at TIMESTAMPTZ,
		actual_delivery_at TIMESTAMPTZ,
		rating_score INT CHECK (rating_score BETWEEN 1 AND 5),
		rating_comment TEXT,
		rated_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_student ON orders(student_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_hotel_status ON orders(hotel_id, status)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		menu_item_id UUID NOT NULL,
		name TEXT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		quantity INT NOT NULL CHECK (quantity >= 1),
		category TEXT NOT NULL,
		is_veg BOOLEAN NOT NULL DEFAULT true,
		special_instructions TEXT,
		position INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,

	`CREATE TABLE IF NOT EXISTS order_status_history (
		id BIGSERIAL PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		status TEXT NOT NULL,
		note TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, id)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT,
		data JSONB,
		is_read BOOLEAN NOT NULL DEFAULT false,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS uploads (
		id UUID PRIMARY KEY,
		owner_user_id UUID NOT NULL,
		kind TEXT NOT NULL,
		object_key TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		width INT,
		height INT,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_owner ON uploads(owner_user_id)`,
}
