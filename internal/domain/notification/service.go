package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo *Repository
	hub  *Hub
}

func NewService(repo *Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Notify persists a notification and pushes it to connected clients. It
// never fails the caller: delivery problems are logged and swallowed.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, eventType, title, body string, data map[string]interface{}) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      eventType,
		Title:     title,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if body != "" {
		n.Body = &body
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("type", eventType).Msg("failed to store notification")
		return
	}

	if s.hub != nil {
		s.hub.Push(ctx, n)
	}
}

// NotifyLinkReviewed tells a student about the hotel's decision on their
// mess account request.
func (s *Service) NotifyLinkReviewed(ctx context.Context, studentUserID uuid.UUID, hotelID uuid.UUID, approved bool, reason string) {
	title := "Mess account approved"
	if !approved {
		title = "Mess account rejected"
	}
	s.Notify(ctx, studentUserID, "hotel_link_reviewed", title, reason, map[string]interface{}{
		"hotel_id": hotelID.String(),
		"approved": approved,
	})
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// Cleanup prunes old read notifications. Intended for a periodic runner.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) {
	n, err := s.repo.DeleteOlderThan(ctx, retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("notification cleanup failed")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("old notifications pruned")
	}
}
