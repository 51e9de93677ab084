package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HotelDirectory resolves hotels without importing the hotel package.
type HotelDirectory interface {
	HotelExists(ctx context.Context, hotelID uuid.UUID) (bool, error)
	HotelIDByOwner(ctx context.Context, ownerUserID uuid.UUID) (uuid.UUID, error)
}

// LinkNotifier is told about linkage decisions so students get notified.
type LinkNotifier interface {
	NotifyLinkReviewed(ctx context.Context, studentUserID uuid.UUID, hotelID uuid.UUID, approved bool, reason string)
}

type Service struct {
	repo     *Repository
	hotels   HotelDirectory
	notifier LinkNotifier
}

func NewService(repo *Repository, hotels HotelDirectory, notifier LinkNotifier) *Service {
	return &Service{repo: repo, hotels: hotels, notifier: notifier}
}

func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*Student, error) {
	dietary := DietaryBoth
	if req.DietaryType != "" {
		dietary = DietaryType(req.DietaryType)
	}

	now := time.Now()
	st := &Student{
		ID:                 uuid.New(),
		UserID:             userID,
		Name:               req.Name,
		StudentCode:        req.StudentCode,
		Mobile:             req.Mobile,
		FatherName:         req.FatherName,
		FatherPhone:        req.FatherPhone,
		EmergencyName:      req.EmergencyName,
		EmergencyPhone:     req.EmergencyPhone,
		EmergencyRelation:  req.EmergencyRelation,
		CollegeName:        req.CollegeName,
		CollegeCourse:      req.CollegeCourse,
		CollegeYear:        req.CollegeYear,
		DietaryType:        dietary,
		HotelAccountStatus: HotelAccountPending,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	log.Info().Str("student_id", st.ID.String()).Str("user_id", userID.String()).Msg("student profile created")
	return st, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Student, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// StudentIDByUser maps an authenticated user to their student id.
func (s *Service) StudentIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	st, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return st.ID, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Student, error) {
	st, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Mobile != nil {
		st.Mobile = *req.Mobile
	}
	if req.FatherName != nil {
		st.FatherName = *req.FatherName
	}
	if req.FatherPhone != nil {
		st.FatherPhone = *req.FatherPhone
	}
	if req.EmergencyName != nil {
		st.EmergencyName = *req.EmergencyName
	}
	if req.EmergencyPhone != nil {
		st.EmergencyPhone = *req.EmergencyPhone
	}
	if req.EmergencyRelation != nil {
		st.EmergencyRelation = *req.EmergencyRelation
	}
	if req.CollegeName != nil {
		st.CollegeName = *req.CollegeName
	}
	if req.CollegeCourse != nil {
		st.CollegeCourse = req.CollegeCourse
	}
	if req.CollegeYear != nil {
		st.CollegeYear = req.CollegeYear
	}
	if req.DietaryType != nil {
		st.DietaryType = DietaryType(*req.DietaryType)
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RequestHotelLink asks a hotel for a mess account. An approved link cannot
// be replaced by requesting another hotel.
func (s *Service) RequestHotelLink(ctx context.Context, userID, hotelID uuid.UUID) (*Student, error) {
	st, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.hotels.HotelExists(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	if err := s.repo.RequestLink(ctx, st.ID, hotelID); err != nil {
		return nil, err
	}

	log.Info().Str("student_id", st.ID.String()).Str("hotel_id", hotelID.String()).Msg("hotel account requested")
	return s.repo.GetByID(ctx, st.ID)
}

// ReviewHotelLink lets a hotel owner approve or reject a pending request
// made to their hotel.
func (s *Service) ReviewHotelLink(ctx context.Context, ownerUserID, studentID uuid.UUID, approve bool, reason string) (*Student, error) {
	hotelID, err := s.hotels.HotelIDByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.LinkedHotelID == nil || st.HotelAccountStatus != HotelAccountPending {
		return nil, ErrNoLinkRequest
	}
	if *st.LinkedHotelID != hotelID {
		return nil, ErrLinkRequestForbidden
	}

	status := HotelAccountRejected
	if approve {
		status = HotelAccountApproved
	}
	if err := s.repo.SetLinkStatus(ctx, studentID, status); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyLinkReviewed(ctx, st.UserID, hotelID, approve, reason)
	}

	log.Info().
		Str("student_id", studentID.String()).
		Str("hotel_id", hotelID.String()).
		Bool("approved", approve).
		Msg("hotel account reviewed")
	return s.repo.GetByID(ctx, studentID)
}

// SuspendHotelLink suspends an approved mess account.
func (s *Service) SuspendHotelLink(ctx context.Context, ownerUserID, studentID uuid.UUID) (*Student, error) {
	hotelID, err := s.hotels.HotelIDByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.LinkedHotelID == nil || *st.LinkedHotelID != hotelID {
		return nil, ErrLinkRequestForbidden
	}

	if err := s.repo.SetLinkStatus(ctx, studentID, HotelAccountSuspended); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, studentID)
}

// PendingLinkRequests lists students awaiting review for the owner's hotel.
func (s *Service) PendingLinkRequests(ctx context.Context, ownerUserID uuid.UUID) ([]Student, error) {
	hotelID, err := s.hotels.HotelIDByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByHotel(ctx, hotelID, HotelAccountPending)
}

// LinkedStudents lists students with an approved account at the owner's hotel.
func (s *Service) LinkedStudents(ctx context.Context, ownerUserID uuid.UUID) ([]Student, error) {
	hotelID, err := s.hotels.HotelIDByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByHotel(ctx, hotelID, HotelAccountApproved)
}

func (s *Service) SetDocumentURLs(ctx context.Context, userID uuid.UUID, idCardURL, faceImageURL *string) error {
	st, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.UpdateDocumentURLs(ctx, st.ID, idCardURL, faceImageURL)
}
