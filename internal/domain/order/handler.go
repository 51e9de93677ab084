package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messhub/messhub-api/internal/domain/hotel"
	"github.com/messhub/messhub-api/internal/domain/student"
	"github.com/messhub/messhub-api/internal/domain/wallet"
	"github.com/messhub/messhub-api/internal/middleware"
	"github.com/messhub/messhub-api/internal/pkg/response"
	"github.com/messhub/messhub-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	o, err := h.svc.Place(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, student.ErrStudentNotFound):
			response.NotFound(w, "student profile not found")
		case errors.Is(err, ErrNotEligible):
			response.Forbidden(w, "no approved mess account")
		case errors.Is(err, ErrEmptyOrder):
			response.BadRequest(w, "order has no items")
		case errors.Is(err, ErrTooManyItems):
			response.BadRequest(w, "too many items in order")
		case errors.Is(err, ErrMenuItemUnavailable):
			response.Conflict(w, "one or more menu items are unavailable")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, o)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.GetForStudent(r.Context(), userID, orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	response.OK(w, o)
}

func (h *Handler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	o, err := h.svc.GetByNumberForStudent(r.Context(), userID, chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	response.OK(w, o)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	entries, err := h.svc.Payments(r.Context(), userID, orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	response.OK(w, entries)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.svc.ListMine(r.Context(), userID, filterFromQuery(r))
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			response.NotFound(w, "student profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, orders)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.Cancel(r.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotCancel):
			response.Conflict(w, "order can no longer be cancelled")
		default:
			h.writeOrderError(w, err)
		}
		return
	}

	response.OK(w, o)
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	var req RateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	o, err := h.svc.Rate(r.Context(), userID, orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			response.BadRequest(w, "rating must be between 1 and 5")
		case errors.Is(err, ErrNotDelivered):
			response.Conflict(w, "order is not delivered yet")
		case errors.Is(err, ErrAlreadyRated):
			response.Conflict(w, "order already rated")
		default:
			h.writeOrderError(w, err)
		}
		return
	}

	response.OK(w, o)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	history, err := h.svc.History(r.Context(), userID, orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	response.OK(w, history)
}

func (h *Handler) ListForHotel(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	orders, err := h.svc.ListForHotel(r.Context(), ownerUserID, filterFromQuery(r))
	if err != nil {
		if errors.Is(err, hotel.ErrHotelNotFound) {
			response.NotFound(w, "hotel profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, orders)
}

func (h *Handler) GetForHotel(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.GetForHotel(r.Context(), ownerUserID, orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	response.OK(w, o)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), ownerUserID, orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, "invalid status transition")
		default:
			h.writeOrderError(w, err)
		}
		return
	}

	response.OK(w, o)
}

func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	day := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			response.BadRequest(w, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	stats, err := h.svc.HotelDailyStats(r.Context(), ownerUserID, day)
	if err != nil {
		if errors.Is(err, hotel.ErrHotelNotFound) {
			response.NotFound(w, "hotel profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		response.NotFound(w, "order not found")
	case errors.Is(err, student.ErrStudentNotFound):
		response.NotFound(w, "student profile not found")
	case errors.Is(err, hotel.ErrHotelNotFound):
		response.NotFound(w, "hotel profile not found")
	case errors.Is(err, ErrNotOrderOwner), errors.Is(err, ErrNotHotelOrder):
		response.Forbidden(w, "order belongs to someone else")
	default:
		response.InternalError(w)
	}
}

func filterFromQuery(r *http.Request) ListFilter {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent)
		r.Post("/", h.Place)
		r.Get("/", h.ListMine)
		r.Get("/number/{orderNumber}", h.GetByNumber)
		r.Get("/{orderID}", h.Get)
		r.Get("/{orderID}/history", h.History)
		r.Get("/{orderID}/payments", h.Payments)
		r.Post("/{orderID}/cancel", h.Cancel)
		r.Post("/{orderID}/rate", h.Rate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireHotelOwner)
		r.Get("/hotel", h.ListForHotel)
		r.Get("/hotel/{orderID}", h.GetForHotel)
		r.Post("/hotel/{orderID}/status", h.UpdateStatus)
		r.Get("/hotel/stats/daily", h.DailyStats)
	})

	return r
}
