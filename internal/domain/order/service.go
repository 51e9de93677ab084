package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/domain/hotel"
	"github.com/messhub/messhub-api/internal/domain/student"
	"github.com/messhub/messhub-api/internal/domain/wallet"
	"github.com/messhub/messhub-api/internal/pkg/sequence"
)

// Notifier delivers order events to users. Implementations must not block
// the settlement path.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType, title, body string, data map[string]interface{})
}

type Config struct {
	MaxItems     int
	AllocRetries int
}

// Service coordinates orders with wallet settlement. Placement debits and
// cancellation refunds happen in one database transaction with the order
// writes, so an order is never paid without its ledger entry or vice versa.
type Service struct {
	repo     *Repository
	wallets  *wallet.Repository
	hotels   *hotel.Repository
	students *student.Repository
	notifier Notifier
	cfg      Config
}

func NewService(repo *Repository, wallets *wallet.Repository, hotels *hotel.Repository, students *student.Repository, notifier Notifier, cfg Config) *Service {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 20
	}
	if cfg.AllocRetries <= 0 {
		cfg.AllocRetries = 3
	}
	return &Service{
		repo:     repo,
		wallets:  wallets,
		hotels:   hotels,
		students: students,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Place creates an order at the student's linked hotel and pays for it from
// the wallet atomically.
func (s *Service) Place(ctx context.Context, userID uuid.UUID, req *PlaceOrderRequest) (*Order, error) {
	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !st.CanOrder() {
		return nil, ErrNotEligible
	}
	// An empty wallet cannot place orders at all. The authoritative balance
	// check still happens under the wallet lock inside the settlement tx.
	balance, err := s.wallets.GetBalance(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, ErrNotEligible
	}
	hotelID := *st.LinkedHotelID

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if len(req.Items) > s.cfg.MaxItems {
		return nil, ErrTooManyItems
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		itemIDs = append(itemIDs, it.MenuItemID)
	}
	menuItems, err := s.hotels.GetMenuItemsForOrder(ctx, hotelID, itemIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]hotel.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	now := time.Now()
	o := &Order{
		StudentID:           st.ID,
		HotelID:             hotelID,
		OrderType:           OrderType(req.OrderType),
		Status:              StatusPending,
		PaymentStatus:       PaymentPending,
		PaymentMethod:       "wallet",
		SpecialInstructions: req.SpecialInstructions,
		RequestedDeliveryAt: req.RequestedDeliveryAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, it := range req.Items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			return nil, ErrMenuItemUnavailable
		}
		o.Items = append(o.Items, Item{
			MenuItemID:          m.ID,
			Name:                m.Name,
			Price:               m.Price,
			Quantity:            it.Quantity,
			Category:            string(m.Category),
			IsVeg:               m.IsVeg,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	o.RecomputeTotals()
	eta := o.EstimateDelivery(now)
	o.EstimatedDeliveryAt = &eta

	var lastErr error
	for attempt := 0; attempt < s.cfg.AllocRetries; attempt++ {
		err := s.placeOnce(ctx, o)
		if err == nil {
			log.Info().
				Str("order_id", o.ID.String()).
				Str("order_number", o.OrderNumber).
				Str("student_id", o.StudentID.String()).
				Int64("total", o.Total).
				Msg("order placed and paid")
			s.notifyHotel(ctx, o, "order_placed", "New order", fmt.Sprintf("Order %s received", o.OrderNumber))
			return o, nil
		}
		if !errors.Is(err, ErrDuplicateOrderNumber) && !errors.Is(err, wallet.ErrDuplicateTransaction) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) placeOnce(ctx context.Context, o *Order) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := s.wallets.LockWalletTx(ctx, tx, o.StudentID)
	if err != nil {
		return err
	}

	now := time.Now()
	if balance < o.Total {
		// Nothing is written on a declined attempt. The deferred rollback
		// releases the wallet lock.
		return wallet.ErrInsufficientFunds
	}

	o.ID = uuid.New()
	o.OrderNumber, err = sequence.NextID(ctx, tx, sequence.OrderPrefix, sequence.OrderWidth, now)
	if err != nil {
		return err
	}

	nextBalance := balance - o.Total
	if err := s.wallets.UpdateBalanceTx(ctx, tx, o.StudentID, nextBalance); err != nil {
		return err
	}

	o.PaymentStatus = PaymentPaid
	if err := s.repo.CreateTx(ctx, tx, o); err != nil {
		return err
	}

	txnID, err := sequence.NextID(ctx, tx, sequence.LedgerPrefix, sequence.LedgerWidth, now)
	if err != nil {
		return err
	}
	entry := &wallet.LedgerEntry{
		ID:             uuid.New(),
		TransactionID:  txnID,
		StudentID:      o.StudentID,
		Amount:         o.Total,
		Type:           wallet.EntryPayment,
		Status:         wallet.StatusCompleted,
		RelatedOrderID: &o.ID,
		RelatedHotelID: &o.HotelID,
		Description:    fmt.Sprintf("Payment for order %s", o.OrderNumber),
		BalanceBefore:  &balance,
		BalanceAfter:   &nextBalance,
		ProcessedAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.wallets.InsertEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	// History records transitions only, never the initial pending state.
	return tx.Commit()
}

// Cancel cancels a pending or confirmed order and refunds the payment in
// the same transaction.
func (s *Service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.AllocRetries; attempt++ {
		err := s.cancelOnce(ctx, st.ID, orderID)
		if err == nil {
			o, err := s.repo.GetByID(ctx, orderID)
			if err != nil {
				return nil, err
			}
			log.Info().
				Str("order_id", orderID.String()).
				Str("order_number", o.OrderNumber).
				Msg("order cancelled and refunded")
			s.notifyHotel(ctx, o, "order_cancelled", "Order cancelled", fmt.Sprintf("Order %s was cancelled", o.OrderNumber))
			return o, nil
		}
		if !errors.Is(err, wallet.ErrDuplicateTransaction) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) cancelOnce(ctx context.Context, studentID, orderID uuid.UUID) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if o.StudentID != studentID {
		return ErrNotOrderOwner
	}
	if !o.CanBeCancelled() {
		return ErrCannotCancel
	}

	if err := s.repo.UpdateStatusTx(ctx, tx, o.ID, StatusCancelled); err != nil {
		return err
	}
	note := "Cancelled by student"
	if err := s.repo.AppendHistoryTx(ctx, tx, o.ID, StatusCancelled, &note); err != nil {
		return err
	}

	if o.PaymentStatus == PaymentPaid {
		balance, err := s.wallets.LockWalletTx(ctx, tx, o.StudentID)
		if err != nil {
			return err
		}
		nextBalance := balance + o.Total
		if err := s.wallets.UpdateBalanceTx(ctx, tx, o.StudentID, nextBalance); err != nil {
			return err
		}

		now := time.Now()
		txnID, err := sequence.NextID(ctx, tx, sequence.LedgerPrefix, sequence.LedgerWidth, now)
		if err != nil {
			return err
		}
		entry := &wallet.LedgerEntry{
			ID:             uuid.New(),
			TransactionID:  txnID,
			StudentID:      o.StudentID,
			Amount:         o.Total,
			Type:           wallet.EntryRefund,
			Status:         wallet.StatusCompleted,
			RelatedOrderID: &o.ID,
			RelatedHotelID: &o.HotelID,
			Description:    fmt.Sprintf("Refund for cancelled order %s", o.OrderNumber),
			BalanceBefore:  &balance,
			BalanceAfter:   &nextBalance,
			ProcessedAt:    &now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.wallets.InsertEntryTx(ctx, tx, entry); err != nil {
			return err
		}

		if err := s.repo.UpdatePaymentStatusTx(ctx, tx, o.ID, PaymentRefunded); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatus advances an order along the kitchen flow. Only the owning
// hotel may do it.
func (s *Service) UpdateStatus(ctx context.Context, ownerUserID, orderID uuid.UUID, req *UpdateStatusRequest) (*Order, error) {
	h, err := s.hotels.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	target := Status(req.Status)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if o.HotelID != h.ID {
		return nil, ErrNotHotelOrder
	}
	if !CanTransition(o.Status, target) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatusTx(ctx, tx, o.ID, target); err != nil {
		return nil, err
	}
	if err := s.repo.AppendHistoryTx(ctx, tx, o.ID, target, req.Note); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifyStudent(ctx, out, "order_status", "Order update",
		fmt.Sprintf("Order %s is now %s", out.OrderNumber, out.Status))
	return out, nil
}

// Rate records a one-time rating on a delivered order and folds it into the
// hotel aggregate.
func (s *Service) Rate(ctx context.Context, userID, orderID uuid.UUID, req *RateOrderRequest) (*Order, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, ErrInvalidRating
	}

	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if o.StudentID != st.ID {
		return nil, ErrNotOrderOwner
	}
	if o.Status != StatusDelivered {
		return nil, ErrNotDelivered
	}
	if o.RatedAt != nil {
		return nil, ErrAlreadyRated
	}

	if err := s.repo.SetRatingTx(ctx, tx, o.ID, req.Score, req.Comment); err != nil {
		return nil, err
	}
	if err := s.hotels.AddRatingTx(ctx, tx, o.HotelID, req.Score); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, orderID)
}

// GetByNumberForStudent resolves an order by its human-readable number, e.g.
// from a printed receipt.
func (s *Service) GetByNumberForStudent(ctx context.Context, userID uuid.UUID, orderNumber string) (*Order, error) {
	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.StudentID != st.ID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

// Payments lists the ledger entries settled against an order, payment and
// refund alike.
func (s *Service) Payments(ctx context.Context, userID, orderID uuid.UUID) ([]wallet.LedgerEntry, error) {
	if _, err := s.GetForStudent(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return s.wallets.ListByOrder(ctx, orderID)
}

func (s *Service) GetForStudent(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.StudentID != st.ID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

func (s *Service) GetForHotel(ctx context.Context, ownerUserID, orderID uuid.UUID) (*Order, error) {
	h, err := s.hotels.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.HotelID != h.ID {
		return nil, ErrNotHotelOrder
	}
	return o, nil
}

func (s *Service) History(ctx context.Context, userID, orderID uuid.UUID) ([]StatusHistory, error) {
	if _, err := s.GetForStudent(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, orderID)
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, f ListFilter) ([]Order, error) {
	st, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	clampFilter(&f)
	return s.repo.ListByStudent(ctx, st.ID, f)
}

func (s *Service) ListForHotel(ctx context.Context, ownerUserID uuid.UUID, f ListFilter) ([]Order, error) {
	h, err := s.hotels.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	clampFilter(&f)
	return s.repo.ListByHotel(ctx, h.ID, f)
}

func (s *Service) HotelDailyStats(ctx context.Context, ownerUserID uuid.UUID, day time.Time) (*DailyStats, error) {
	h, err := s.hotels.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.DailyStats(ctx, h.ID, day)
}

func (s *Service) notifyHotel(ctx context.Context, o *Order, eventType, title, body string) {
	if s.notifier == nil {
		return
	}
	h, err := s.hotels.GetByID(ctx, o.HotelID)
	if err != nil {
		log.Warn().Err(err).Str("hotel_id", o.HotelID.String()).Msg("skipping hotel notification")
		return
	}
	s.notifier.Notify(ctx, h.OwnerUserID, eventType, title, body, map[string]interface{}{
		"order_id":     o.ID.String(),
		"order_number": o.OrderNumber,
		"status":       string(o.Status),
	})
}

func (s *Service) notifyStudent(ctx context.Context, o *Order, eventType, title, body string) {
	if s.notifier == nil {
		return
	}
	st, err := s.students.GetByID(ctx, o.StudentID)
	if err != nil {
		log.Warn().Err(err).Str("student_id", o.StudentID.String()).Msg("skipping student notification")
		return
	}
	s.notifier.Notify(ctx, st.UserID, eventType, title, body, map[string]interface{}{
		"order_id":     o.ID.String(),
		"order_number": o.OrderNumber,
		"status":       string(o.Status),
	})
}

func clampFilter(f *ListFilter) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
