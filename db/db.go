package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"tenders/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Storage работает либо поверх пула соединений, либо внутри открытой транзакции.
type Storage struct {
	conn *sqlx.DB
	q    sqlx.ExtContext
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{conn: db, q: db}
}

// WithinTx выполняет fn в одной транзакции: коммит при nil, откат при любой ошибке или панике.
// Внутри транзакции повторный вызов переиспользует её.
func (s *Storage) WithinTx(ctx context.Context, fn func(tx *Storage) error) error {
	if s.conn == nil {
		return fn(s)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Storage{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.PingContext(ctx)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s not found", models.ErrNotFound, what)
	}
	return err
}

// uniqueViolation переводит нарушение уникальности postgres в ErrDuplicate.
func uniqueViolation(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", models.ErrDuplicate, msg)
	}
	return err
}

// Employee (Пользователь)

const employeeColumns = `id, username, hashed_password, first_name, last_name, organization_id, created_at, updated_at`

func (s *Storage) CreateEmployee(ctx context.Context, e *models.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `
        INSERT INTO employee (id, username, hashed_password, first_name, last_name, organization_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	err := s.q.QueryRowxContext(ctx, query,
		e.ID, e.Username, e.HashedPassword, e.FirstName, e.LastName, e.OrganizationID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	return uniqueViolation(err, "username already exists")
}

func (s *Storage) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE id=$1`
	if err := sqlx.GetContext(ctx, s.q, e, query, id); err != nil {
		return nil, notFound(err, "user")
	}
	return e, nil
}

func (s *Storage) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE username=$1`
	if err := sqlx.GetContext(ctx, s.q, e, query, username); err != nil {
		return nil, notFound(err, "user")
	}
	return e, nil
}

func (s *Storage) SetEmployeeOrganization(ctx context.Context, employeeID, organizationID uuid.UUID) error {
	query := `
        UPDATE employee
        SET organization_id = $1, updated_at = NOW()
        WHERE id = $2`
	res, err := s.q.ExecContext(ctx, query, organizationID, employeeID)
	if err != nil {
		return err
	}
	return affected(res, "user")
}

func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s not found", models.ErrNotFound, what)
	}
	return nil
}

// Organization (Организация)

func (s *Storage) CreateOrganization(ctx context.Context, o *models.Organization) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	query := `
        INSERT INTO organization (id, name, description, type)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	return s.q.QueryRowxContext(ctx, query, o.ID, o.Name, o.Description, o.Type).
		Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (s *Storage) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o := &models.Organization{}
	query := `SELECT id, name, description, type, created_at, updated_at FROM organization WHERE id=$1`
	if err := sqlx.GetContext(ctx, s.q, o, query, id); err != nil {
		return nil, notFound(err, "organization")
	}
	return o, nil
}

// AddResponsible идемпотентен: повторное назначение не создаёт вторую строку.
func (s *Storage) AddResponsible(ctx context.Context, organizationID, userID uuid.UUID) error {
	query := `
        INSERT INTO organization_responsible (id, organization_id, user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (organization_id, user_id) DO NOTHING`
	_, err := s.q.ExecContext(ctx, query, uuid.New(), organizationID, userID)
	return err
}

func (s *Storage) IsUserResponsibleForOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM organization_responsible WHERE user_id=$1 AND organization_id=$2`
	if err := sqlx.GetContext(ctx, s.q, &count, query, userID, organizationID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetResponsibleCount считает различных сотрудников, дубли назначений не раздувают кворум.
func (s *Storage) GetResponsibleCount(ctx context.Context, organizationID uuid.UUID) (int, error) {
	var count int
	query := `
        SELECT COUNT(DISTINCT user_id) FROM organization_responsible WHERE organization_id = $1
    `
	err := sqlx.GetContext(ctx, s.q, &count, query, organizationID)
	return count, err
}

// Tender (Тендер)

const tenderColumns = `id, title, description, service_type, version, status, organization_id, responsible_user_id, created_at, updated_at`

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
        INSERT INTO tenders
            (id, title, description, service_type, version, status, organization_id, responsible_user_id)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	return s.q.QueryRowxContext(ctx, query,
		t.ID, t.Title, t.Description, t.ServiceType, t.Version, t.Status, t.OrganizationID, t.ResponsibleUserID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *Storage) GetTender(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id=$1`
	if err := sqlx.GetContext(ctx, s.q, t, query, id); err != nil {
		return nil, notFound(err, "tender")
	}
	return t, nil
}

// UpdateTender сохраняет поля как есть; версию поднимает вызывающий код.
func (s *Storage) UpdateTender(ctx context.Context, t *models.Tender) error {
	query := `
        UPDATE tenders
        SET title=$1, description=$2, service_type=$3, status=$4, version=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := s.q.QueryRowxContext(ctx, query,
		t.Title, t.Description, t.ServiceType, t.Status, t.Version, t.ID).
		Scan(&t.UpdatedAt)
	return notFound(err, "tender")
}

// GetTenders сортирует по title, при равных названиях - по порядку вставки.
// limit <= 0 - без ограничения.
func (s *Storage) GetTenders(ctx context.Context, serviceType string, limit, offset int) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders`
	var args []any
	if serviceType != "" {
		args = append(args, serviceType)
		query += fmt.Sprintf(" WHERE service_type = $%d", len(args))
	}
	query += " ORDER BY title ASC, seq ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	tenders := []models.Tender{}
	if err := sqlx.SelectContext(ctx, s.q, &tenders, query, args...); err != nil {
		return nil, err
	}
	return tenders, nil
}

func (s *Storage) GetUserTenders(ctx context.Context, userID uuid.UUID) ([]models.TenderSummary, error) {
	query := `
        SELECT id, title, status
        FROM tenders
        WHERE responsible_user_id = $1
        ORDER BY title ASC, seq ASC
    `
	tenders := []models.TenderSummary{}
	if err := sqlx.SelectContext(ctx, s.q, &tenders, query, userID); err != nil {
		return nil, err
	}
	return tenders, nil
}

// Bid (Предложение)

const bidColumns = `id, description, price, tender_id, author_id, version, status, created_at, updated_at`

func (s *Storage) CreateBid(ctx context.Context, b *models.Bid) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `
        INSERT INTO bid
            (id, description, price, tender_id, author_id, version, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	return s.q.QueryRowxContext(ctx, query,
		b.ID, b.Description, b.Price, b.TenderID, b.AuthorID, b.Version, b.Status).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (s *Storage) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b := &models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id=$1`
	if err := sqlx.GetContext(ctx, s.q, b, query, id); err != nil {
		return nil, notFound(err, "bid")
	}
	return b, nil
}

// GetBidForUpdate блокирует строку предложения до конца транзакции.
// Параллельные approve одного предложения выполняются последовательно.
func (s *Storage) GetBidForUpdate(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b := &models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id=$1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, s.q, b, query, id); err != nil {
		return nil, notFound(err, "bid")
	}
	return b, nil
}

func (s *Storage) UpdateBid(ctx context.Context, b *models.Bid) error {
	query := `
        UPDATE bid
        SET description=$1, price=$2, status=$3, version=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := s.q.QueryRowxContext(ctx, query, b.Description, b.Price, b.Status, b.Version, b.ID).
		Scan(&b.UpdatedAt)
	return notFound(err, "bid")
}

func (s *Storage) GetUserBids(ctx context.Context, authorID uuid.UUID) ([]models.Bid, error) {
	query := `
        SELECT ` + bidColumns + ` FROM bid
        WHERE author_id = $1
        ORDER BY created_at DESC`
	bids := []models.Bid{}
	err := sqlx.SelectContext(ctx, s.q, &bids, query, authorID)
	return bids, err
}

// GetBidsForTender возвращает предложения тендера; при заданном authorID - только его.
func (s *Storage) GetBidsForTender(ctx context.Context, tenderID uuid.UUID, authorID uuid.NullUUID) ([]models.Bid, error) {
	query := `
        SELECT ` + bidColumns + ` FROM bid
        WHERE tender_id = $1
        AND ($2::uuid IS NULL OR author_id = $2)
        ORDER BY created_at DESC
    `
	bids := []models.Bid{}
	err := sqlx.SelectContext(ctx, s.q, &bids, query, tenderID, authorID)
	return bids, err
}

// BidReview (Отзыв)

const reviewColumns = `id, bid_id, reviewer_id, review, status, previous_version, created_at`

func (s *Storage) CreateBidReview(ctx context.Context, r *models.BidReview) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	query := `
        INSERT INTO bid_reviews (id, bid_id, reviewer_id, review, status, previous_version)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query, r.ID, r.BidID, r.ReviewerID, r.Review, r.Status, r.PreviousVersion).
		Scan(&r.CreatedAt)
	return uniqueViolation(err, "you have already reviewed this bid")
}

func (s *Storage) HasBidReview(ctx context.Context, bidID, reviewerID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM bid_reviews WHERE bid_id=$1 AND reviewer_id=$2`
	if err := sqlx.GetContext(ctx, s.q, &count, query, bidID, reviewerID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Storage) GetBidReviewsByBidID(ctx context.Context, bidID uuid.UUID) ([]models.BidReview, error) {
	reviews := []models.BidReview{}
	query := `SELECT ` + reviewColumns + ` FROM bid_reviews WHERE bid_id=$1 ORDER BY created_at ASC`
	err := sqlx.SelectContext(ctx, s.q, &reviews, query, bidID)
	return reviews, err
}

func (s *Storage) GetBidReviewsByAuthorForTender(ctx context.Context, authorID, tenderID uuid.UUID) ([]models.BidReview, error) {
	reviews := []models.BidReview{}
	query := `
        SELECT r.id, r.bid_id, r.reviewer_id, r.review, r.status, r.previous_version, r.created_at
        FROM bid_reviews r
        JOIN bid b ON r.bid_id = b.id
        WHERE b.author_id = $1 AND b.tender_id = $2
        ORDER BY r.created_at DESC
    `
	err := sqlx.SelectContext(ctx, s.q, &reviews, query, authorID, tenderID)
	return reviews, err
}
