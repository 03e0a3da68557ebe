package handlers

import (
	"context"
	"net/http"

	"tenders/internal/service"
	"tenders/internal/versioning"
	"tenders/models"

	"github.com/google/uuid"
)

// CreateBidHandler обрабатывает POST /api/bids/new
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		TenderID    uuid.UUID `json:"tender_id"`
		Description string    `json:"description"`
		Price       float64   `json:"price"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	bid, err := h.svc.CreateBid(r.Context(), me, service.BidInput{
		TenderID:    input.TenderID,
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// GetUserBidsHandler обрабатывает GET /api/bids/my
func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bids, err := h.svc.MyBids(r.Context(), me)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

type bidFunc func(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error)

// bidAction - общий каркас хендлеров publish/cancel/approve.
func (h *Handler) bidAction(action bidFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, err := actorID(r)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		bidID, err := pathUUID(r, "bidId")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		bid, err := action(r.Context(), me, bidID)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bid)
	}
}

// PublishBidHandler обрабатывает POST /api/bids/{bidId}/publish
func (h *Handler) PublishBidHandler(w http.ResponseWriter, r *http.Request) {
	h.bidAction(h.svc.PublishBid)(w, r)
}

// CancelBidHandler обрабатывает POST /api/bids/{bidId}/cancel
func (h *Handler) CancelBidHandler(w http.ResponseWriter, r *http.Request) {
	h.bidAction(h.svc.CancelBid)(w, r)
}

// ApproveBidHandler обрабатывает POST /api/bids/{bidId}/approve. Статус меняется,
// только если отзывы набрали кворум или есть отказ.
func (h *Handler) ApproveBidHandler(w http.ResponseWriter, r *http.Request) {
	h.bidAction(h.svc.ApproveBid)(w, r)
}

// EditBidHandler обрабатывает PATCH /api/bids/{bidId}/edit
func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	bid, err := h.svc.EditBid(r.Context(), me, bidID, versioning.BidEdit{
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// RollbackBidHandler обрабатывает PUT /api/bids/{bidId}/rollback/{version}
func (h *Handler) RollbackBidHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	version, err := pathVersion(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	bid, err := h.svc.RollbackBid(r.Context(), me, bidID, version)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SubmitReviewHandler обрабатывает POST /api/bids/{bidId}/review
func (h *Handler) SubmitReviewHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Review *string          `json:"review"`
		Status models.BidStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	review, err := h.svc.SubmitReview(r.Context(), me, bidID, service.ReviewInput{
		Review: input.Review,
		Status: input.Status,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// GetBidReviewsHandler обрабатывает GET /api/bids/{bidId}/reviews
func (h *Handler) GetBidReviewsHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bidID, err := pathUUID(r, "bidId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	reviews, err := h.svc.ListReviews(r.Context(), me, bidID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []models.BidReview{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
