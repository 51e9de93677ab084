package hotel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	var req CreateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	hotel, err := h.svc.Create(r.Context(), ownerUserID, &req)
	if err != nil {
		if errors.Is(err, ErrHotelExists) {
			response.Conflict(w, "hotel profile already exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, toHotelResponse(hotel))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	city := r.URL.Query().Get("city")

	hotels, err := h.svc.ListActive(r.Context(), city, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*HotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResponse(&hotels[i]))
	}
	response.OK(w, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "hotelID"))
	if err != nil {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	hotel, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.NotFound(w, "hotel not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, toHotelResponse(hotel))
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	hotel, err := h.svc.GetByOwner(r.Context(), ownerUserID)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.NotFound(w, "hotel profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, toHotelResponse(hotel))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	var req UpdateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	hotel, err := h.svc.Update(r.Context(), ownerUserID, &req)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.NotFound(w, "hotel profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, toHotelResponse(hotel))
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(chi.URLParam(r, "hotelID"))
	if err != nil {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	category := r.URL.Query().Get("category")
	availableOnly := r.URL.Query().Get("all") != "true"

	items, err := h.svc.ListMenu(r.Context(), hotelID, category, availableOnly)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	var req CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	item, err := h.svc.CreateMenuItem(r.Context(), ownerUserID, &req)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			response.NotFound(w, "hotel profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.BadRequest(w, "invalid menu item id")
		return
	}

	var req UpdateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	item, err := h.svc.UpdateMenuItem(r.Context(), ownerUserID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrHotelNotFound), errors.Is(err, ErrMenuItemNotFound):
			response.NotFound(w, "menu item not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "menu item belongs to another hotel")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.BadRequest(w, "invalid menu item id")
		return
	}

	if err := h.svc.DeleteMenuItem(r.Context(), ownerUserID, itemID); err != nil {
		switch {
		case errors.Is(err, ErrHotelNotFound), errors.Is(err, ErrMenuItemNotFound):
			response.NotFound(w, "menu item not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "menu item belongs to another hotel")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{hotelID}", h.Get)
	r.Get("/{hotelID}/menu", h.ListMenu)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireHotelOwner)
		r.Post("/", h.Create)
		r.Get("/me", h.GetMine)
		r.Put("/me", h.Update)
		r.Post("/me/menu", h.CreateMenuItem)
		r.Put("/me/menu/{itemID}", h.UpdateMenuItem)
		r.Delete("/me/menu/{itemID}", h.DeleteMenuItem)
	})

	return r
}
