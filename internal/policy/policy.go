// Package policy решает, может ли сотрудник выполнить действие над тендером или предложением.
// Все проверки работают с плоскими записями: организация тендера передаётся явно.
package policy

import (
	"fmt"

	"tenders/models"

	"github.com/google/uuid"
)

// CanCreateTender: сотрудник должен быть ответственным за свою организацию.
func CanCreateTender(actor *models.Employee, responsible bool) error {
	if !actor.OrganizationID.Valid || !responsible {
		return fmt.Errorf("%w: user is not responsible for the organization", models.ErrForbidden)
	}
	return nil
}

// CanManageTender покрывает publish/close/edit/rollback тендера.
func CanManageTender(actor *models.Employee, tender *models.Tender) error {
	if actor.ID != tender.ResponsibleUserID {
		return fmt.Errorf("%w: only the responsible user may change this tender", models.ErrForbidden)
	}
	return nil
}

// CanCreateBid проверяет ответственность за собственную организацию сотрудника,
// а не за организацию тендера.
func CanCreateBid(actor *models.Employee, responsible bool) error {
	if !actor.OrganizationID.Valid || !responsible {
		return fmt.Errorf("%w: user is not responsible for the organization", models.ErrForbidden)
	}
	return nil
}

// CanModifyBid покрывает publish/cancel/edit: автор или любой член организации тендера.
func CanModifyBid(actor *models.Employee, bid *models.Bid, tenderOrganizationID uuid.UUID) error {
	if actor.ID == bid.AuthorID || actor.MemberOf(tenderOrganizationID) {
		return nil
	}
	return fmt.Errorf("%w: you are not allowed to modify this bid", models.ErrForbidden)
}

// CanDecideBid покрывает approve/review/список отзывов: только члены организации тендера.
func CanDecideBid(actor *models.Employee, tenderOrganizationID uuid.UUID) error {
	if !actor.MemberOf(tenderOrganizationID) {
		return fmt.Errorf("%w: you are not responsible for this tender's organization", models.ErrForbidden)
	}
	return nil
}

// CanRollbackBid: откатывать может только автор.
func CanRollbackBid(actor *models.Employee, bid *models.Bid) error {
	if actor.ID != bid.AuthorID {
		return fmt.Errorf("%w: you are not allowed to rollback this bid", models.ErrForbidden)
	}
	return nil
}

// CanViewTenderReviews: просмотр отзывов по предложениям автора доступен организации тендера.
func CanViewTenderReviews(actor *models.Employee, tender *models.Tender) error {
	if !actor.MemberOf(tender.OrganizationID) {
		return fmt.Errorf("%w: not enough rights to view reviews", models.ErrForbidden)
	}
	return nil
}

// CanAssignResponsible: назначать ответственных может только ответственный этой организации.
func CanAssignResponsible(responsible bool) error {
	if !responsible {
		return fmt.Errorf("%w: user is not responsible for the organization", models.ErrForbidden)
	}
	return nil
}
