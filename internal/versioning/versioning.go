// Package versioning ведёт счётчик версий тендеров и предложений.
package versioning

import (
	"fmt"

	"tenders/models"
)

// Versioned - сущность с монотонным счётчиком правок.
type Versioned interface {
	CurrentVersion() int
	SetVersion(v int)
}

// Bump увеличивает версию ровно на 1. Вызывается после проверки прав.
func Bump(v Versioned) {
	v.SetVersion(v.CurrentVersion() + 1)
}

// Rollback переписывает только счётчик: поля сущности не восстанавливаются,
// истории версий в хранилище нет.
func Rollback(v Versioned, target int) error {
	if target <= 0 {
		return fmt.Errorf("%w: version must be greater than 0", models.ErrValidation)
	}
	if target >= v.CurrentVersion() {
		return fmt.Errorf("%w: version must be less than current version %d", models.ErrValidation, v.CurrentVersion())
	}
	v.SetVersion(target)
	return nil
}

// TenderEdit - новые значения полей тендера.
type TenderEdit struct {
	Title       string
	Description string
	ServiceType *string
}

// EditTender применяет правку и поднимает версию. Пустые title/description отклоняются,
// тендер при этом не меняется.
func EditTender(t *models.Tender, e TenderEdit) error {
	if e.Title == "" || e.Description == "" {
		return fmt.Errorf("%w: title and description are required", models.ErrValidation)
	}
	t.Title = e.Title
	t.Description = e.Description
	if e.ServiceType != nil {
		t.ServiceType = *e.ServiceType
	}
	Bump(t)
	return nil
}

// BidEdit - новые значения полей предложения.
type BidEdit struct {
	Description string
	Price       float64
}

// EditBid применяет правку к предложению, статус не трогает.
func EditBid(b *models.Bid, e BidEdit) error {
	if e.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", models.ErrValidation)
	}
	b.Description = e.Description
	b.Price = e.Price
	Bump(b)
	return nil
}
