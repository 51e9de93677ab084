package student

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

// Create inserts the profile and its wallet row in one transaction so a
// student never exists without a wallet.
func (r *Repository) Create(ctx context.Context, s *Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO students (
			id, user_id, name, student_code, mobile,
			father_name, father_phone, emergency_name, emergency_phone, emergency_relation,
			college_name, college_course, college_year, dietary_type,
			hotel_account_status, is_active, created_at, updated_at
		) VALUES (
			:id, :user_id, :name, :student_code, :mobile,
			:father_name, :father_phone, :emergency_name, :emergency_phone, :emergency_relation,
			:college_name, :college_course, :college_year, :dietary_type,
			:hotel_account_status, :is_active, :created_at, :updated_at
		)
	`, s)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "students_user_id_key":
				return ErrProfileExists
			case "students_student_code_key":
				return ErrStudentCodeTaken
			}
			return ErrProfileExists
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO student_wallets (student_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (student_id) DO NOTHING
	`, s.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, `SELECT * FROM students WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, `SELECT * FROM students WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Update(ctx context.Context, s *Student) error {
	s.UpdatedAt = time.Now()
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE students SET
			name = :name,
			mobile = :mobile,
			father_name = :father_name,
			father_phone = :father_phone,
			emergency_name = :emergency_name,
			emergency_phone = :emergency_phone,
			emergency_relation = :emergency_relation,
			college_name = :college_name,
			college_course = :college_course,
			college_year = :college_year,
			dietary_type = :dietary_type,
			updated_at = :updated_at
		WHERE id = :id
	`, s)
	return err
}

func (r *Repository) RequestLink(ctx context.Context, studentID, hotelID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET
			linked_hotel_id = $1,
			hotel_account_status = 'pending',
			hotel_account_requested_at = now(),
			hotel_account_approved_at = NULL,
			updated_at = now()
		WHERE id = $2 AND hotel_account_status != 'approved'
	`, hotelID, studentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyLinked
	}
	return nil
}

func (r *Repository) SetLinkStatus(ctx context.Context, studentID uuid.UUID, status HotelAccountStatus) error {
	query := `
		UPDATE students SET
			hotel_account_status = $1,
			updated_at = now()
		WHERE id = $2
	`
	if status == HotelAccountApproved {
		query = `
			UPDATE students SET
				hotel_account_status = $1,
				hotel_account_approved_at = now(),
				updated_at = now()
			WHERE id = $2
		`
	}
	_, err := r.db.ExecContext(ctx, query, status, studentID)
	return err
}

func (r *Repository) ListByHotel(ctx context.Context, hotelID uuid.UUID, status HotelAccountStatus) ([]Student, error) {
	students := []Student{}
	err := r.db.SelectContext(ctx, &students, `
		SELECT * FROM students
		WHERE linked_hotel_id = $1 AND hotel_account_status = $2
		ORDER BY hotel_account_requested_at DESC NULLS LAST
	`, hotelID, status)
	return students, err
}

func (r *Repository) UpdateDocumentURLs(ctx context.Context, studentID uuid.UUID, idCardURL, faceImageURL *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE students SET
			id_card_url = COALESCE($1, id_card_url),
			face_image_url = COALESCE($2, face_image_url),
			updated_at = now()
		WHERE id = $3
	`, idCardURL, faceImageURL, studentID)
	return err
}
