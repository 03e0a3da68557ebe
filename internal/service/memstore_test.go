package service

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"tenders/models"

	"github.com/google/uuid"
)

// memStore - хранилище в памяти для тестов сервиса. Транзакция работает над копией
// данных и публикует её только при успехе.
type memStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	employees    map[uuid.UUID]models.Employee
	orgs         map[uuid.UUID]models.Organization
	responsibles map[uuid.UUID]map[uuid.UUID]bool
	tenders      map[uuid.UUID]models.Tender
	tenderSeq    map[uuid.UUID]int
	bids         map[uuid.UUID]models.Bid
	reviews      []models.BidReview
	seq          int
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		employees:    map[uuid.UUID]models.Employee{},
		orgs:         map[uuid.UUID]models.Organization{},
		responsibles: map[uuid.UUID]map[uuid.UUID]bool{},
		tenders:      map[uuid.UUID]models.Tender{},
		tenderSeq:    map[uuid.UUID]int{},
		bids:         map[uuid.UUID]models.Bid{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		employees:    maps.Clone(d.employees),
		orgs:         maps.Clone(d.orgs),
		responsibles: map[uuid.UUID]map[uuid.UUID]bool{},
		tenders:      maps.Clone(d.tenders),
		tenderSeq:    maps.Clone(d.tenderSeq),
		bids:         maps.Clone(d.bids),
		reviews:      append([]models.BidReview(nil), d.reviews...),
		seq:          d.seq,
	}
	for org, users := range d.responsibles {
		c.responsibles[org] = maps.Clone(users)
	}
	return c
}

func (s *memStore) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx
	return nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

func (d *memData) CreateEmployee(ctx context.Context, e *models.Employee) error {
	for _, existing := range d.employees {
		if existing.Username == e.Username {
			return fmt.Errorf("%w: username already taken", models.ErrDuplicate)
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	d.employees[e.ID] = *e
	return nil
}

func (d *memData) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return nil, fmt.Errorf("%w: employee not found", models.ErrNotFound)
	}
	return &e, nil
}

func (d *memData) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	for _, e := range d.employees {
		if e.Username == username {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: employee not found", models.ErrNotFound)
}

func (d *memData) SetEmployeeOrganization(ctx context.Context, employeeID, organizationID uuid.UUID) error {
	e, ok := d.employees[employeeID]
	if !ok {
		return fmt.Errorf("%w: employee not found", models.ErrNotFound)
	}
	e.OrganizationID = uuid.NullUUID{UUID: organizationID, Valid: true}
	d.employees[employeeID] = e
	return nil
}

func (d *memData) CreateOrganization(ctx context.Context, o *models.Organization) error {
	o.ID = uuid.New()
	d.orgs[o.ID] = *o
	return nil
}

func (d *memData) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o, ok := d.orgs[id]
	if !ok {
		return nil, fmt.Errorf("%w: organization not found", models.ErrNotFound)
	}
	return &o, nil
}

func (d *memData) AddResponsible(ctx context.Context, organizationID, userID uuid.UUID) error {
	if d.responsibles[organizationID] == nil {
		d.responsibles[organizationID] = map[uuid.UUID]bool{}
	}
	d.responsibles[organizationID][userID] = true
	return nil
}

func (d *memData) IsUserResponsibleForOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	return d.responsibles[organizationID][userID], nil
}

func (d *memData) GetResponsibleCount(ctx context.Context, organizationID uuid.UUID) (int, error) {
	return len(d.responsibles[organizationID]), nil
}

func (d *memData) CreateTender(ctx context.Context, t *models.Tender) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	d.seq++
	d.tenderSeq[t.ID] = d.seq
	d.tenders[t.ID] = *t
	return nil
}

func (d *memData) GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	t, ok := d.tenders[id]
	if !ok {
		return nil, fmt.Errorf("%w: tender not found", models.ErrNotFound)
	}
	return &t, nil
}

func (d *memData) UpdateTender(ctx context.Context, t *models.Tender) error {
	if _, ok := d.tenders[t.ID]; !ok {
		return fmt.Errorf("%w: tender not found", models.ErrNotFound)
	}
	d.tenders[t.ID] = *t
	return nil
}

func (d *memData) GetTenders(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error) {
	var out []models.Tender
	for _, t := range d.tenders {
		if serviceType == "" || t.ServiceType == serviceType {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return d.tenderSeq[out[i].ID] < d.tenderSeq[out[j].ID]
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (d *memData) GetUserTenders(ctx context.Context, userID uuid.UUID) ([]models.TenderSummary, error) {
	var out []models.TenderSummary
	for _, t := range d.tenders {
		if t.ResponsibleUserID == userID {
			out = append(out, models.TenderSummary{ID: t.ID, Title: t.Title, Status: t.Status})
		}
	}
	return out, nil
}

func (d *memData) CreateBid(ctx context.Context, b *models.Bid) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	d.bids[b.ID] = *b
	return nil
}

func (d *memData) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b, ok := d.bids[id]
	if !ok {
		return nil, fmt.Errorf("%w: bid not found", models.ErrNotFound)
	}
	return &b, nil
}

func (d *memData) GetBidForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return d.GetBid(ctx, id)
}

func (d *memData) UpdateBid(ctx context.Context, b *models.Bid) error {
	if _, ok := d.bids[b.ID]; !ok {
		return fmt.Errorf("%w: bid not found", models.ErrNotFound)
	}
	d.bids[b.ID] = *b
	return nil
}

func (d *memData) GetUserBids(ctx context.Context, authorID uuid.UUID) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range d.bids {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (d *memData) GetBidsForTender(ctx context.Context, tenderID uuid.UUID, authorID uuid.NullUUID) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range d.bids {
		if b.TenderID != tenderID {
			continue
		}
		if authorID.Valid && b.AuthorID != authorID.UUID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (d *memData) CreateBidReview(ctx context.Context, r *models.BidReview) error {
	for _, existing := range d.reviews {
		if existing.BidID == r.BidID && existing.ReviewerID == r.ReviewerID {
			return fmt.Errorf("%w: review already exists", models.ErrDuplicate)
		}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	d.reviews = append(d.reviews, *r)
	return nil
}

func (d *memData) HasBidReview(ctx context.Context, bidID, reviewerID uuid.UUID) (bool, error) {
	for _, r := range d.reviews {
		if r.BidID == bidID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (d *memData) GetBidReviewsByBidID(ctx context.Context, bidID uuid.UUID) ([]models.BidReview, error) {
	var out []models.BidReview
	for _, r := range d.reviews {
		if r.BidID == bidID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *memData) GetBidReviewsByAuthorForTender(ctx context.Context, authorID, tenderID uuid.UUID) ([]models.BidReview, error) {
	var out []models.BidReview
	for _, r := range d.reviews {
		b, ok := d.bids[r.BidID]
		if ok && b.AuthorID == authorID && b.TenderID == tenderID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeTokens выдаёт токен вида "token-<uuid>".
type fakeTokens struct{}

func (fakeTokens) Issue(id uuid.UUID) (string, error) {
	return "token-" + id.String(), nil
}
