package handlers

import (
	"context"
	"net/http"
	"strings"

	"tenders/internal/service"
	"tenders/internal/versioning"
	"tenders/models"

	"github.com/google/uuid"
)

// GetTendersHandler возвращает список тендеров с фильтром по serviceType
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parsePaginationParams(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	serviceType := q.Get("serviceType")
	if serviceType == "" {
		serviceType = q.Get("service_type")
	}

	tenders, err := h.svc.ListTenders(r.Context(), strings.TrimSpace(serviceType), params.Limit, params.Offset)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if tenders == nil {
		tenders = []models.Tender{}
	}
	writeJSON(w, http.StatusOK, tenders)
}

// GetUserTendersHandler возвращает тендеры текущего пользователя или пользователя username
func (h *Handler) GetUserTendersHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	username := strings.TrimSpace(r.URL.Query().Get("username"))

	owner, tenders, err := h.svc.MyTenders(r.Context(), me, username)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if tenders == nil {
		tenders = []models.TenderSummary{}
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Description: "Tenders of user " + owner.Username + " fetched.",
		Data:        map[string]any{"tenders": tenders},
	})
}

// CreateTenderHandler обрабатывает POST /api/tenders/new запрос
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ServiceType string `json:"serviceType"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	tender, err := h.svc.CreateTender(r.Context(), me, service.TenderInput{
		Title:       input.Title,
		Description: input.Description,
		ServiceType: input.ServiceType,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Description: "Tender created.",
		Data:        map[string]any{"id": tender.ID, "created_at": tender.CreatedAt},
	})
}

// PublishTenderHandler обрабатывает PATCH /api/tenders/{tenderId}/publish
func (h *Handler) PublishTenderHandler(w http.ResponseWriter, r *http.Request) {
	h.changeTenderStatus(w, r, h.svc.PublishTender, "Tender published.")
}

// CloseTenderHandler обрабатывает POST /api/tenders/{tenderId}/close
func (h *Handler) CloseTenderHandler(w http.ResponseWriter, r *http.Request) {
	h.changeTenderStatus(w, r, h.svc.CloseTender, "Tender closed.")
}

type tenderStatusFunc func(ctx context.Context, actorID, tenderID uuid.UUID) (*models.Tender, error)

func (h *Handler) changeTenderStatus(w http.ResponseWriter, r *http.Request, action tenderStatusFunc, description string) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	tenderID, err := pathUUID(r, "tenderId")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	tender, err := action(r.Context(), me, tenderID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Description: description,
		Data:        map[string]any{"id": tender.ID, "status": tender.Status},
	})
}

// EditTenderHandler обрабатывает PATCH /api/tenders/{tenderId}/edit
func (h *Handler) EditTenderHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	tenderID, err := pathUUID(r, "tenderId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ServiceType *string `json:"serviceType"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	tender, err := h.svc.EditTender(r.Context(), me, tenderID, versioning.TenderEdit{
		Title:       input.Title,
		Description: input.Description,
		ServiceType: input.ServiceType,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Description: "Tender edited.",
		Data: map[string]any{
			"id":          tender.ID,
			"name":        tender.Title,
			"description": tender.Description,
			"version":     tender.Version,
		},
	})
}

// RollbackTenderHandler обрабатывает PUT /api/tenders/{tenderId}/rollback/{version}
func (h *Handler) RollbackTenderHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	tenderID, err := pathUUID(r, "tenderId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	version, err := pathVersion(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	tender, err := h.svc.RollbackTender(r.Context(), me, tenderID, version)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Description: "Tender rolled back.",
		Data:        map[string]any{"id": tender.ID, "version": tender.Version},
	})
}

// GetBidsForTenderHandler обрабатывает GET /api/tenders/{tenderId}/bids
func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	tenderID, err := pathUUID(r, "tenderId")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	bids, err := h.svc.TenderBids(r.Context(), me, tenderID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// GetTenderReviewsHandler обрабатывает GET /api/tenders/{tenderId}/reviews?authorUsername=
func (h *Handler) GetTenderReviewsHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	tenderID, err := pathUUID(r, "tenderId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	author := strings.TrimSpace(r.URL.Query().Get("authorUsername"))
	if author == "" {
		writeErrorCode(w, http.StatusBadRequest, CodeValidation, "missing authorUsername parameter")
		return
	}

	reviews, err := h.svc.TenderReviews(r.Context(), me, tenderID, author)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
