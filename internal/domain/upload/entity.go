package upload

import (
	"time"

	"github.com/google/uuid"
)

// Kind says what the uploaded file is for.
type Kind string

const (
	KindIDCard    Kind = "id_card"
	KindFaceImage Kind = "face_image"
	KindMenuImage Kind = "menu_image"
)

func IsValidKind(k Kind) bool {
	switch k {
	case KindIDCard, KindFaceImage, KindMenuImage:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

type Upload struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OwnerUserID uuid.UUID `db:"owner_user_id" json:"owner_user_id"`
	Kind        Kind      `db:"kind" json:"kind"`
	ObjectKey   string    `db:"object_key" json:"object_key"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	Status      Status    `db:"status" json:"status"`
	Width       *int      `db:"width" json:"width,omitempty"`
	Height      *int      `db:"height" json:"height,omitempty"`
	Error       *string   `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
