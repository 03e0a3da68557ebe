package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tenders/internal/auth"
	"tenders/internal/policy"
	"tenders/models"

	"github.com/google/uuid"
)

// RegisterUser создаёт сотрудника без организации.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (uuid.UUID, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 50 {
		return uuid.Nil, validation("username is required and max length 50")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return uuid.Nil, validation("%v", err)
	}

	e := &models.Employee{Username: username, HashedPassword: hash}
	err = s.store.WithinTx(ctx, func(repo Repository) error {
		return repo.CreateEmployee(ctx, e)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return e.ID, nil
}

// IssueToken проверяет пароль и выдаёт токен.
func (s *Service) IssueToken(ctx context.Context, username, password string) (string, error) {
	var e *models.Employee
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		e, err = repo.GetEmployeeByUsername(ctx, username)
		return err
	})
	badCredentials := fmt.Errorf("%w: incorrect username or password", models.ErrUnauthenticated)
	if errors.Is(err, models.ErrNotFound) {
		return "", badCredentials
	}
	if err != nil {
		return "", err
	}
	if err := auth.VerifyPassword(e.HashedPassword, password); err != nil {
		return "", badCredentials
	}
	return s.tokens.Issue(e.ID)
}

// OrganizationInput - поля новой организации.
type OrganizationInput struct {
	Name        string
	Description string
	Type        models.OrganizationType
}

// OrganizationView - организация с числом ответственных.
type OrganizationView struct {
	models.Organization
	Responsibles int `json:"responsibles"`
}

// CreateOrganization создаёт организацию; создатель становится её ответственным
// и членом, если ещё не состоит в другой.
func (s *Service) CreateOrganization(ctx context.Context, actorID uuid.UUID, in OrganizationInput) (*models.Organization, error) {
	if in.Name == "" || len(in.Name) > 100 {
		return nil, validation("name is required and max length 100")
	}
	if !in.Type.Valid() {
		return nil, validation("invalid organization type %q", in.Type)
	}

	org := &models.Organization{Name: in.Name, Description: in.Description, Type: in.Type}
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}
		if !me.OrganizationID.Valid {
			if err := repo.SetEmployeeOrganization(ctx, me.ID, org.ID); err != nil {
				return err
			}
		}
		return repo.AddResponsible(ctx, org.ID, me.ID)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// AssignResponsible назначает сотрудника ответственным за организацию.
func (s *Service) AssignResponsible(ctx context.Context, actorID, organizationID uuid.UUID, username string) error {
	return s.store.WithinTx(ctx, func(repo Repository) error {
		me, err := actor(ctx, repo, actorID)
		if err != nil {
			return err
		}
		if _, err := repo.GetOrganization(ctx, organizationID); err != nil {
			return err
		}
		responsible, err := repo.IsUserResponsibleForOrganization(ctx, me.ID, organizationID)
		if err != nil {
			return err
		}
		if err := policy.CanAssignResponsible(responsible); err != nil {
			return err
		}

		target, err := repo.GetEmployeeByUsername(ctx, username)
		if err != nil {
			return err
		}
		switch {
		case !target.OrganizationID.Valid:
			if err := repo.SetEmployeeOrganization(ctx, target.ID, organizationID); err != nil {
				return err
			}
		case target.OrganizationID.UUID != organizationID:
			return validation("user %s belongs to another organization", target.Username)
		}
		return repo.AddResponsible(ctx, organizationID, target.ID)
	})
}

// GetOrganization возвращает организацию и число её ответственных.
func (s *Service) GetOrganization(ctx context.Context, actorID, organizationID uuid.UUID) (*OrganizationView, error) {
	var view *OrganizationView
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		if _, err := actor(ctx, repo, actorID); err != nil {
			return err
		}
		org, err := repo.GetOrganization(ctx, organizationID)
		if err != nil {
			return err
		}
		count, err := repo.GetResponsibleCount(ctx, organizationID)
		if err != nil {
			return err
		}
		view = &OrganizationView{Organization: *org, Responsibles: count}
		return nil
	})
	return view, err
}
