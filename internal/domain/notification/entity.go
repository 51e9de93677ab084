package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Data is a free-form JSONB payload attached to a notification.
type Data map[string]interface{}

func (d Data) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *Data) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("notification: cannot scan non-bytes into Data")
	}
	return json.Unmarshal(b, d)
}

type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Type      string     `db:"type" json:"type"`
	Title     string     `db:"title" json:"title"`
	Body      *string    `db:"body" json:"body,omitempty"`
	Data      Data       `db:"data" json:"data,omitempty"`
	IsRead    bool       `db:"is_read" json:"is_read"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
