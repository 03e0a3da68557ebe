package models

import (
	"time"

	"github.com/google/uuid"
)

// Тип организации
type OrganizationType string

const (
	OrganizationIE  OrganizationType = "IE"
	OrganizationLLC OrganizationType = "LLC"
	OrganizationJSC OrganizationType = "JSC"
)

func (t OrganizationType) Valid() bool {
	switch t {
	case OrganizationIE, OrganizationLLC, OrganizationJSC:
		return true
	default:
		return false
	}
}

// Статус тендера
type TenderStatus string

const (
	TenderCreated   TenderStatus = "CREATED"
	TenderPublished TenderStatus = "PUBLISHED"
	TenderClosed    TenderStatus = "CLOSED"
)

func (s TenderStatus) Valid() bool {
	switch s {
	case TenderCreated, TenderPublished, TenderClosed:
		return true
	default:
		return false
	}
}

// Статус предложения. Те же значения используются как голос в отзыве.
type BidStatus string

const (
	BidCreated   BidStatus = "CREATED"
	BidPublished BidStatus = "PUBLISHED"
	BidCanceled  BidStatus = "CANCELED"
	BidApproved  BidStatus = "APPROVED"
	BidRejected  BidStatus = "REJECTED"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidCreated, BidPublished, BidCanceled, BidApproved, BidRejected:
		return true
	default:
		return false
	}
}

// Terminal сообщает, что из статуса больше нельзя опубликовать предложение.
func (s BidStatus) Terminal() bool {
	return s == BidCanceled || s == BidApproved || s == BidRejected
}

// IsVote - допустимый голос ревьюера.
func (s BidStatus) IsVote() bool {
	return s == BidApproved || s == BidRejected
}

// Сущность Организации
type Organization struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Type        OrganizationType `db:"type" json:"type"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"-"`
}

// Сущность Пользователя
type Employee struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	Username       string        `db:"username" json:"username"`
	HashedPassword string        `db:"hashed_password" json:"-"`
	FirstName      string        `db:"first_name" json:"firstName"`
	LastName       string        `db:"last_name" json:"lastName"`
	OrganizationID uuid.NullUUID `db:"organization_id" json:"organizationId"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"-"`
}

// MemberOf проверяет членство сотрудника в организации.
func (e *Employee) MemberOf(organizationID uuid.UUID) bool {
	return e.OrganizationID.Valid && e.OrganizationID.UUID == organizationID
}

// Связь "ответственный за организацию"
type OrganizationResponsible struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organizationId"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
}

// Сущность Тендера
type Tender struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	Title             string       `db:"title" json:"title"`
	Description       string       `db:"description" json:"description"`
	ServiceType       string       `db:"service_type" json:"serviceType"`
	Version           int          `db:"version" json:"version"`
	Status            TenderStatus `db:"status" json:"status"`
	OrganizationID    uuid.UUID    `db:"organization_id" json:"organizationId"`
	ResponsibleUserID uuid.UUID    `db:"responsible_user_id" json:"responsibleUserId"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `db:"updated_at" json:"-"`
}

func (t *Tender) CurrentVersion() int { return t.Version }
func (t *Tender) SetVersion(v int)    { t.Version = v }

// Краткая запись для списка "мои тендеры"
type TenderSummary struct {
	ID     uuid.UUID    `db:"id" json:"id"`
	Title  string       `db:"title" json:"title"`
	Status TenderStatus `db:"status" json:"status"`
}

// Сущность Предложения
type Bid struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	TenderID    uuid.UUID `db:"tender_id" json:"tender_id"`
	AuthorID    uuid.UUID `db:"author_id" json:"author_id"`
	Version     int       `db:"version" json:"version"`
	Status      BidStatus `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (b *Bid) CurrentVersion() int { return b.Version }
func (b *Bid) SetVersion(v int)    { b.Version = v }

// Сущность Отзыва
type BidReview struct {
	ID              uuid.UUID `db:"id" json:"id"`
	BidID           uuid.UUID `db:"bid_id" json:"bid_id"`
	ReviewerID      uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	Review          *string   `db:"review" json:"review"`
	Status          BidStatus `db:"status" json:"status"`
	PreviousVersion *int      `db:"previous_version" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
