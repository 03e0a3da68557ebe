package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"tenders/internal/auth"
	"tenders/internal/service"
	"tenders/internal/versioning"
	"tenders/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Service - операции, которые вызывают хендлеры. Реализуется service.Service.
type Service interface {
	Ping(ctx context.Context) error

	RegisterUser(ctx context.Context, username, password string) (uuid.UUID, error)
	IssueToken(ctx context.Context, username, password string) (string, error)

	CreateOrganization(ctx context.Context, actorID uuid.UUID, in service.OrganizationInput) (*models.Organization, error)
	AssignResponsible(ctx context.Context, actorID, organizationID uuid.UUID, username string) error
	GetOrganization(ctx context.Context, actorID, organizationID uuid.UUID) (*service.OrganizationView, error)

	ListTenders(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error)
	MyTenders(ctx context.Context, actorID uuid.UUID, username string) (*models.Employee, []models.TenderSummary, error)
	CreateTender(ctx context.Context, actorID uuid.UUID, in service.TenderInput) (*models.Tender, error)
	PublishTender(ctx context.Context, actorID, tenderID uuid.UUID) (*models.Tender, error)
	CloseTender(ctx context.Context, actorID, tenderID uuid.UUID) (*models.Tender, error)
	EditTender(ctx context.Context, actorID, tenderID uuid.UUID, edit versioning.TenderEdit) (*models.Tender, error)
	RollbackTender(ctx context.Context, actorID, tenderID uuid.UUID, version int) (*models.Tender, error)
	TenderBids(ctx context.Context, actorID, tenderID uuid.UUID) ([]models.Bid, error)
	TenderReviews(ctx context.Context, actorID, tenderID uuid.UUID, authorUsername string) ([]models.BidReview, error)

	CreateBid(ctx context.Context, actorID uuid.UUID, in service.BidInput) (*models.Bid, error)
	MyBids(ctx context.Context, actorID uuid.UUID) ([]models.Bid, error)
	PublishBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error)
	CancelBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error)
	EditBid(ctx context.Context, actorID, bidID uuid.UUID, edit versioning.BidEdit) (*models.Bid, error)
	RollbackBid(ctx context.Context, actorID, bidID uuid.UUID, version int) (*models.Bid, error)
	ApproveBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error)
	SubmitReview(ctx context.Context, actorID, bidID uuid.UUID, in service.ReviewInput) (*models.BidReview, error)
	ListReviews(ctx context.Context, actorID, bidID uuid.UUID) ([]models.BidReview, error)
}

// Handler оборачивает сервис для HTTP
type Handler struct {
	svc Service
}

// NewHandler создает новый Handler
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// maxBodyBytes - ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// envelope - формат ответа операций над тендерами.
type envelope struct {
	Success     bool   `json:"success"`
	Description string `json:"description,omitempty"`
	Data        any    `json:"data,omitempty"`
}

// PingHandler отвечает "ok", если сервер и база доступны
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		log.Printf("ping: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// actorID - id сотрудника, положенный Authenticate. Без него хендлер не вызывается.
func actorID(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.EmployeeFromContext(r.Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing bearer token", models.ErrUnauthenticated)
	}
	return id, nil
}

// pathUUID читает UUID из параметра пути chi.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", models.ErrValidation, name)
	}
	return id, nil
}

func pathVersion(r *http.Request) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version number", models.ErrValidation)
	}
	return v, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON format", models.ErrValidation)
	}
	return nil
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query. Без limit возвращается весь список.
func parsePaginationParams(r *http.Request) (PaginationParams, error) {
	var params PaginationParams
	if s := r.URL.Query().Get("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil || l <= 0 || l > 50 {
			return params, fmt.Errorf("%w: limit must be between 1 and 50", models.ErrValidation)
		}
		params.Limit = l
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		o, err := strconv.Atoi(s)
		if err != nil || o < 0 {
			return params, fmt.Errorf("%w: offset must be non-negative", models.ErrValidation)
		}
		params.Offset = o
	}
	return params, nil
}
