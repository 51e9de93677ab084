package hotel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerUserID uuid.UUID, req *CreateHotelRequest) (*Hotel, error) {
	maxStudents := req.MaxStudents
	if maxStudents == 0 {
		maxStudents = 100
	}

	now := time.Now()
	h := &Hotel{
		ID:               uuid.New(),
		OwnerUserID:      ownerUserID,
		Name:             req.Name,
		Description:      req.Description,
		AddressLine:      req.AddressLine,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
		DailyMessPrice:   req.DailyMessPrice,
		MonthlyMessPrice: req.MonthlyMessPrice,
		SecurityDeposit:  req.SecurityDeposit,
		MaxStudents:      maxStudents,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	log.Info().Str("hotel_id", h.ID.String()).Str("owner_user_id", ownerUserID.String()).Msg("hotel created")
	return h, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Hotel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*Hotel, error) {
	return s.repo.GetByOwner(ctx, ownerUserID)
}

func (s *Service) ListActive(ctx context.Context, city string, limit, offset int) ([]Hotel, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListActive(ctx, city, limit, offset)
}

func (s *Service) Update(ctx context.Context, ownerUserID uuid.UUID, req *UpdateHotelRequest) (*Hotel, error) {
	h, err := s.repo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.AddressLine != nil {
		h.AddressLine = *req.AddressLine
	}
	if req.City != nil {
		h.City = *req.City
	}
	if req.State != nil {
		h.State = *req.State
	}
	if req.Pincode != nil {
		h.Pincode = *req.Pincode
	}
	if req.ContactPhone != nil {
		h.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		h.ContactEmail = *req.ContactEmail
	}
	if req.DailyMessPrice != nil {
		h.DailyMessPrice = *req.DailyMessPrice
	}
	if req.MonthlyMessPrice != nil {
		h.MonthlyMessPrice = *req.MonthlyMessPrice
	}
	if req.SecurityDeposit != nil {
		h.SecurityDeposit = *req.SecurityDeposit
	}
	if req.MaxStudents != nil {
		h.MaxStudents = *req.MaxStudents
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// HotelExists implements the directory lookup used by the student domain.
func (s *Service) HotelExists(ctx context.Context, hotelID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, hotelID)
}

// HotelIDByOwner implements the directory lookup used by the student domain.
func (s *Service) HotelIDByOwner(ctx context.Context, ownerUserID uuid.UUID) (uuid.UUID, error) {
	h, err := s.repo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return uuid.Nil, err
	}
	return h.ID, nil
}

func (s *Service) CreateMenuItem(ctx context.Context, ownerUserID uuid.UUID, req *CreateMenuItemRequest) (*MenuItem, error) {
	h, err := s.repo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m := &MenuItem{
		ID:          uuid.New(),
		HotelID:     h.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    MenuCategory(req.Category),
		IsVeg:       req.IsVeg,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateMenuItem(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMenu(ctx context.Context, hotelID uuid.UUID, category string, availableOnly bool) ([]MenuItem, error) {
	return s.repo.ListMenu(ctx, hotelID, MenuCategory(category), availableOnly)
}

func (s *Service) UpdateMenuItem(ctx context.Context, ownerUserID, itemID uuid.UUID, req *UpdateMenuItemRequest) (*MenuItem, error) {
	m, err := s.menuItemForOwner(ctx, ownerUserID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Price != nil {
		m.Price = *req.Price
	}
	if req.Category != nil {
		m.Category = MenuCategory(*req.Category)
	}
	if req.IsVeg != nil {
		m.IsVeg = *req.IsVeg
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateMenuItem(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, ownerUserID, itemID uuid.UUID) error {
	if _, err := s.menuItemForOwner(ctx, ownerUserID, itemID); err != nil {
		return err
	}
	return s.repo.DeleteMenuItem(ctx, itemID)
}

// AttachMenuImage is the narrow form used by the upload flow.
func (s *Service) AttachMenuImage(ctx context.Context, ownerUserID, itemID uuid.UUID, imageURL string) error {
	_, err := s.SetMenuItemImage(ctx, ownerUserID, itemID, imageURL)
	return err
}

func (s *Service) SetMenuItemImage(ctx context.Context, ownerUserID, itemID uuid.UUID, imageURL string) (*MenuItem, error) {
	m, err := s.menuItemForOwner(ctx, ownerUserID, itemID)
	if err != nil {
		return nil, err
	}
	m.ImageURL = &imageURL
	if err := s.repo.UpdateMenuItem(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) menuItemForOwner(ctx context.Context, ownerUserID, itemID uuid.UUID) (*MenuItem, error) {
	h, err := s.repo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if m.HotelID != h.ID {
		return nil, ErrNotOwner
	}
	return m, nil
}
