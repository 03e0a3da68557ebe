// Package service связывает хранилище, политику доступа, версионирование и кворум.
// Каждая операция выполняется в одной транзакции хранилища.
package service

import (
	"context"
	"errors"
	"fmt"

	"tenders/db"
	"tenders/models"

	"github.com/google/uuid"
)

// Repository - операции хранилища, доступные внутри транзакции.
type Repository interface {
	CreateEmployee(ctx context.Context, e *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error)
	SetEmployeeOrganization(ctx context.Context, employeeID, organizationID uuid.UUID) error

	CreateOrganization(ctx context.Context, o *models.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	AddResponsible(ctx context.Context, organizationID, userID uuid.UUID) error
	IsUserResponsibleForOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error)
	GetResponsibleCount(ctx context.Context, organizationID uuid.UUID) (int, error)

	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	UpdateTender(ctx context.Context, t *models.Tender) error
	GetTenders(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error)
	GetUserTenders(ctx context.Context, userID uuid.UUID) ([]models.TenderSummary, error)

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetBidForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	UpdateBid(ctx context.Context, b *models.Bid) error
	GetUserBids(ctx context.Context, authorID uuid.UUID) ([]models.Bid, error)
	GetBidsForTender(ctx context.Context, tenderID uuid.UUID, authorID uuid.NullUUID) ([]models.Bid, error)

	CreateBidReview(ctx context.Context, r *models.BidReview) error
	HasBidReview(ctx context.Context, bidID, reviewerID uuid.UUID) (bool, error)
	GetBidReviewsByBidID(ctx context.Context, bidID uuid.UUID) ([]models.BidReview, error)
	GetBidReviewsByAuthorForTender(ctx context.Context, authorID, tenderID uuid.UUID) ([]models.BidReview, error)
}

// Store открывает транзакции над Repository.
type Store interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
	Ping(ctx context.Context) error
}

// TokenIssuer выдаёт bearer-токен для сотрудника.
type TokenIssuer interface {
	Issue(employeeID uuid.UUID) (string, error)
}

// Service - оркестрация запросов.
type Service struct {
	store  Store
	tokens TokenIssuer
}

func New(store Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

type sqlStore struct {
	storage *db.Storage
}

// NewSQLStore адаптирует db.Storage к Store.
func NewSQLStore(storage *db.Storage) Store {
	return &sqlStore{storage: storage}
}

func (s *sqlStore) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	return s.storage.WithinTx(ctx, func(tx *db.Storage) error {
		return fn(tx)
	})
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// actor загружает сотрудника из токена. Удалённый или неизвестный сотрудник - 401.
func actor(ctx context.Context, repo Repository, id uuid.UUID) (*models.Employee, error) {
	e, err := repo.GetEmployee(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: user does not exist or is invalid", models.ErrUnauthenticated)
	}
	return e, err
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrValidation}, args...)...)
}
