package service

import (
	"context"
	"errors"
	"fmt"

	"tenders/internal/metrics"
	"tenders/internal/policy"
	"tenders/internal/versioning"
	"tenders/models"

	"github.com/google/uuid"
)

// TenderInput - поля нового тендера.
type TenderInput struct {
	Title       string
	Description string
	ServiceType string
}

func (in TenderInput) validate() error {
	if in.Title == "" || len(in.Title) > 100 {
		return validation("title is required and max length 100")
	}
	if in.Description == "" {
		return validation("description is required")
	}
	if len(in.ServiceType) > 100 {
		return validation("serviceType max length 100")
	}
	return nil
}

// ListTenders - публичный список, фильтр по точному совпадению service_type.
func (s *Service) ListTenders(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error) {
	var tenders []models.Tender
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		tenders, err = repo.GetTenders(ctx, serviceType, limit, offset)
		return err
	})
	return tenders, err
}

// MyTenders возвращает тендеры, за которые отвечает сотрудник. Если username задан,
// берётся этот сотрудник вместо текущего.
func (s *Service) MyTenders(ctx context.Context, actorID uuid.UUID, username string) (*models.Employee, []models.TenderSummary, error) {
	var (
		owner   *models.Employee
		tenders []models.TenderSummary
	)
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		owner = me
		if username != "" {
			owner, err = repo.GetEmployeeByUsername(ctx, username)
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%w: user does not exist or is invalid", models.ErrUnauthenticated)
			}
			if err != nil {
				return err
			}
		}
		tenders, err = repo.GetUserTenders(ctx, owner.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return owner, tenders, nil
}

// CreateTender создаёт тендер от имени организации сотрудника.
func (s *Service) CreateTender(ctx context.Context, actorID uuid.UUID, in TenderInput) (*models.Tender, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var tender *models.Tender
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		responsible := false
		if me.OrganizationID.Valid {
			responsible, err = repo.IsUserResponsibleForOrganization(ctx, me.ID, me.OrganizationID.UUID)
			if err != nil {
				return err
			}
		}
		if err := policy.CanCreateTender(me, responsible); err != nil {
			return err
		}

		tender = &models.Tender{
			Title:             in.Title,
			Description:       in.Description,
			ServiceType:       in.ServiceType,
			Version:           1,
			Status:            models.TenderCreated,
			OrganizationID:    me.OrganizationID.UUID,
			ResponsibleUserID: me.ID,
		}
		return repo.CreateTender(ctx, tender)
	})
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// manageTender загружает тендер, проверяет права ответственного и сохраняет результат mutate.
func (s *Service) manageTender(ctx context.Context, actorID, tenderID uuid.UUID, mutate func(t *models.Tender) error) (*models.Tender, error) {
	var tender *models.Tender
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		tender, err = repo.GetTender(ctx, tenderID)
		if err != nil {
			return err
		}
		if err := policy.CanManageTender(me, tender); err != nil {
			return err
		}
		if err := mutate(tender); err != nil {
			return err
		}
		return repo.UpdateTender(ctx, tender)
	})
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// PublishTender публикует тендер. Закрытый тендер не переоткрывается.
func (s *Service) PublishTender(ctx context.Context, actorID, tenderID uuid.UUID) (*models.Tender, error) {
	return s.manageTender(ctx, actorID, tenderID, func(t *models.Tender) error {
		if t.Status == models.TenderClosed {
			return validation("tender is closed")
		}
		t.Status = models.TenderPublished
		return nil
	})
}

func (s *Service) CloseTender(ctx context.Context, actorID, tenderID uuid.UUID) (*models.Tender, error) {
	tender, err := s.manageTender(ctx, actorID, tenderID, func(t *models.Tender) error {
		t.Status = models.TenderClosed
		return nil
	})
	if err == nil {
		metrics.TenderClosed(metrics.CauseManual)
	}
	return tender, err
}

func (s *Service) EditTender(ctx context.Context, actorID, tenderID uuid.UUID, edit versioning.TenderEdit) (*models.Tender, error) {
	return s.manageTender(ctx, actorID, tenderID, func(t *models.Tender) error {
		return versioning.EditTender(t, edit)
	})
}

func (s *Service) RollbackTender(ctx context.Context, actorID, tenderID uuid.UUID, version int) (*models.Tender, error) {
	return s.manageTender(ctx, actorID, tenderID, func(t *models.Tender) error {
		return versioning.Rollback(t, version)
	})
}

// TenderBids: члены организации тендера видят все предложения, остальные - только свои.
func (s *Service) TenderBids(ctx context.Context, actorID, tenderID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		tender, err := repo.GetTender(ctx, tenderID)
		if err != nil {
			return err
		}
		author := uuid.NullUUID{UUID: me.ID, Valid: true}
		if me.MemberOf(tender.OrganizationID) {
			author = uuid.NullUUID{}
		}
		bids, err = repo.GetBidsForTender(ctx, tender.ID, author)
		return err
	})
	return bids, err
}

// TenderReviews возвращает отзывы на предложения автора по тендеру.
func (s *Service) TenderReviews(ctx context.Context, actorID, tenderID uuid.UUID, authorUsername string) ([]models.BidReview, error) {
	var reviews []models.BidReview
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		tender, err := repo.GetTender(ctx, tenderID)
		if err != nil {
			return err
		}
		if err := policy.CanViewTenderReviews(me, tender); err != nil {
			return err
		}
		author, err := repo.GetEmployeeByUsername(ctx, authorUsername)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: author not found", models.ErrNotFound)
		}
		if err != nil {
			return err
		}
		bids, err := repo.GetBidsForTender(ctx, tender.ID, uuid.NullUUID{UUID: author.ID, Valid: true})
		if err != nil {
			return err
		}
		if len(bids) == 0 {
			return fmt.Errorf("%w: author has no bids for this tender", models.ErrNotFound)
		}
		reviews, err = repo.GetBidReviewsByAuthorForTender(ctx, author.ID, tender.ID)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			return fmt.Errorf("%w: reviews not found", models.ErrNotFound)
		}
		return nil
	})
	return reviews, err
}
