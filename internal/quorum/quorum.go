// Package quorum принимает решение по предложению на основе отзывов ревьюеров.
//
// Любой отзыв REJECTED - вето. Иначе предложение одобряется, когда число отзывов
// APPROVED достигает порога min(MaxQuorum, число ответственных организации тендера).
// Порог считается заново при каждом вызове, по текущему составу ответственных.
package quorum

import "tenders/models"

// MaxQuorum - верхняя граница порога одобрения.
const MaxQuorum = 3

// Outcome - итог одной оценки.
type Outcome string

const (
	Approved Outcome = "approved"
	Rejected Outcome = "rejected"
	Pending  Outcome = "pending"
)

// Threshold возвращает порог одобрения для организации с responsibles ответственными.
func Threshold(responsibles int) int {
	if responsibles < 0 {
		responsibles = 0
	}
	return min(MaxQuorum, responsibles)
}

// Decision - результат оценки набора отзывов.
type Decision struct {
	Outcome   Outcome
	Approvals int
	Threshold int
}

// Status возвращает новый статус предложения; ok=false, если статус не меняется.
func (d Decision) Status() (models.BidStatus, bool) {
	switch d.Outcome {
	case Approved:
		return models.BidApproved, true
	case Rejected:
		return models.BidRejected, true
	default:
		return "", false
	}
}

// CloseTender сообщает, нужно ли каскадно закрыть тендер.
func (d Decision) CloseTender() bool {
	return d.Outcome == Approved
}

// Decide оценивает отзывы. Результат не зависит от порядка отзывов.
func Decide(reviews []models.BidReview, responsibles int) Decision {
	d := Decision{Threshold: Threshold(responsibles)}
	for _, r := range reviews {
		switch r.Status {
		case models.BidRejected:
			d.Outcome = Rejected
			return d
		case models.BidApproved:
			d.Approvals++
		}
	}
	if d.Approvals >= d.Threshold {
		d.Outcome = Approved
		return d
	}
	d.Outcome = Pending
	return d
}
