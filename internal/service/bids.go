package service

import (
	"context"
	"fmt"

	"tenders/internal/metrics"
	"tenders/internal/policy"
	"tenders/internal/quorum"
	"tenders/internal/versioning"
	"tenders/models"

	"github.com/google/uuid"
)

// BidInput - поля нового предложения.
type BidInput struct {
	TenderID    uuid.UUID
	Description string
	Price       float64
}

// ReviewInput - отзыв и голос ревьюера.
type ReviewInput struct {
	Review *string
	Status models.BidStatus
}

// CreateBid создаёт предложение к любому существующему тендеру.
// Ответственность проверяется по собственной организации автора.
func (s *Service) CreateBid(ctx context.Context, actorID uuid.UUID, in BidInput) (*models.Bid, error) {
	if in.Price < 0 {
		return nil, validation("price must be non-negative")
	}
	var bid *models.Bid
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		tender, err := repo.GetTender(ctx, in.TenderID)
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
		if err := policy.CanCreateBid(me, responsible); err != nil {
			return err
		}

		bid = &models.Bid{
			Description: in.Description,
			Price:       in.Price,
			TenderID:    tender.ID,
			AuthorID:    me.ID,
			Version:     1,
			Status:      models.BidCreated,
		}
		return repo.CreateBid(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// MyBids - предложения текущего сотрудника.
func (s *Service) MyBids(ctx context.Context, actorID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		bids, err = repo.GetUserBids(ctx, me.ID)
		return err
	})
	return bids, err
}

// bidContext - предложение вместе с организацией его тендера.
type bidContext struct {
	actor       *models.Employee
	bid         *models.Bid
	tenderOrgID uuid.UUID
	tenderID    uuid.UUID
}

func loadBid(ctx context.Context, repo Repository, actorID, bidID uuid.UUID, forUpdate bool) (*bidContext, error) {
	me, err := actor(ctx, repo, actorID)
	if err != nil {
		return nil, err
	}
	var bid *models.Bid
	if forUpdate {
		bid, err = repo.GetBidForUpdate(ctx, bidID)
	} else {
		bid, err = repo.GetBid(ctx, bidID)
	}
	if err != nil {
		return nil, err
	}
	tender, err := repo.GetTender(ctx, bid.TenderID)
	if err != nil {
		return nil, err
	}
	return &bidContext{actor: me, bid: bid, tenderOrgID: tender.OrganizationID, tenderID: tender.ID}, nil
}

// modifyBid - общий путь publish/cancel/edit: автор или член организации тендера.
func (s *Service) modifyBid(ctx context.Context, actorID, bidID uuid.UUID, mutate func(b *models.Bid) error) (*models.Bid, error) {
	var bid *models.Bid
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		bc, err := loadBid(ctx, repo, actorID, bidID, false)
		if err != nil {
			return err
		}
		if err := policy.CanModifyBid(bc.actor, bc.bid, bc.tenderOrgID); err != nil {
			return err
		}
		if err := mutate(bc.bid); err != nil {
			return err
		}
		bid = bc.bid
		return repo.UpdateBid(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

func (s *Service) PublishBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error) {
	return s.modifyBid(ctx, actorID, bidID, func(b *models.Bid) error {
		if b.Status.Terminal() {
			return validation("bid is %s and cannot be published", b.Status)
		}
		b.Status = models.BidPublished
		return nil
	})
}

func (s *Service) CancelBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error) {
	return s.modifyBid(ctx, actorID, bidID, func(b *models.Bid) error {
		b.Status = models.BidCanceled
		return nil
	})
}

func (s *Service) EditBid(ctx context.Context, actorID, bidID uuid.UUID, edit versioning.BidEdit) (*models.Bid, error) {
	return s.modifyBid(ctx, actorID, bidID, func(b *models.Bid) error {
		return versioning.EditBid(b, edit)
	})
}

// RollbackBid доступен только автору.
func (s *Service) RollbackBid(ctx context.Context, actorID, bidID uuid.UUID, version int) (*models.Bid, error) {
	var bid *models.Bid
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		bid, err = repo.GetBid(ctx, bidID)
		if err != nil {
			return err
		}
		if err := policy.CanRollbackBid(me, bid); err != nil {
			return err
		}
		if err := versioning.Rollback(bid, version); err != nil {
			return err
		}
		return repo.UpdateBid(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// ApproveBid оценивает собранные отзывы. Строка предложения заблокирована до конца
// транзакции, так что параллельные approve одного предложения не пересекаются.
// При одобрении тендер закрывается в той же транзакции.
func (s *Service) ApproveBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, error) {
	var (
		bid      *models.Bid
		decision quorum.Decision
	)
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		bc, err := loadBid(ctx, repo, actorID, bidID, true)
		if err != nil {
			return err
		}
		if err := policy.CanDecideBid(bc.actor, bc.tenderOrgID); err != nil {
			return err
		}
		bid = bc.bid
		// отменённое предложение не оценивается
		if bid.Status == models.BidCanceled {
			decision = quorum.Decision{Outcome: quorum.Pending}
			return nil
		}

		reviews, err := repo.GetBidReviewsByBidID(ctx, bid.ID)
		if err != nil {
			return err
		}
		responsibles, err := repo.GetResponsibleCount(ctx, bc.tenderOrgID)
		if err != nil {
			return err
		}
		decision = quorum.Decide(reviews, responsibles)

		status, changed := decision.Status()
		if !changed {
			return nil
		}
		bid.Status = status
		if err := repo.UpdateBid(ctx, bid); err != nil {
			return err
		}
		if !decision.CloseTender() {
			return nil
		}
		tender, err := repo.GetTender(ctx, bc.tenderID)
		if err != nil {
			return err
		}
		tender.Status = models.TenderClosed
		return repo.UpdateTender(ctx, tender)
	})
	if err != nil {
		return nil, err
	}

	metrics.BidDecision(string(decision.Outcome))
	if decision.CloseTender() {
		metrics.TenderClosed(metrics.CauseApproval)
	}
	return bid, nil
}

// SubmitReview сохраняет отзыв; повторный отзыв того же ревьюера отклоняется.
// Кворум здесь не пересчитывается, это делает только ApproveBid.
func (s *Service) SubmitReview(ctx context.Context, actorID, bidID uuid.UUID, in ReviewInput) (*models.BidReview, error) {
	var review *models.BidReview
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		bc, err := loadBid(ctx, repo, actorID, bidID, false)
		if err != nil {
			return err
		}
		if err := policy.CanDecideBid(bc.actor, bc.tenderOrgID); err != nil {
			return err
		}
		if !in.Status.IsVote() {
			return validation("review status must be %s or %s", models.BidApproved, models.BidRejected)
		}
		exists, err := repo.HasBidReview(ctx, bc.bid.ID, bc.actor.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: you have already reviewed this bid", models.ErrDuplicate)
		}

		review = &models.BidReview{
			BidID:      bc.bid.ID,
			ReviewerID: bc.actor.ID,
			Review:     in.Review,
			Status:     in.Status,
		}
		return repo.CreateBidReview(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews - отзывы на предложение, только для организации тендера.
func (s *Service) ListReviews(ctx context.Context, actorID, bidID uuid.UUID) ([]models.BidReview, error) {
	var reviews []models.BidReview
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		bc, err := loadBid(ctx, repo, actorID, bidID, false)
		if err != nil {
			return err
		}
		if err := policy.CanDecideBid(bc.actor, bc.tenderOrgID); err != nil {
			return err
		}
		reviews, err = repo.GetBidReviewsByBidID(ctx, bc.bid.ID)
		return err
	})
	return reviews, err
}
