package handlers

import (
	"net/http"

	"tenders/internal/service"
	"tenders/models"
)

// RegisterUserHandler обрабатывает POST /api/register_user.
// username и password передаются как поля формы или query.
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id, err := h.svc.RegisterUser(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenHandler обрабатывает POST /api/token (форма username/password).
func (h *Handler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	token, err := h.svc.IssueToken(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// CreateOrganizationHandler обрабатывает POST /api/organizations/new
func (h *Handler) CreateOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Name        string                  `json:"name"`
		Description string                  `json:"description"`
		Type        models.OrganizationType `json:"type"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	org, err := h.svc.CreateOrganization(r.Context(), me, service.OrganizationInput{
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// GetOrganizationHandler обрабатывает GET /api/organizations/{organizationId}
func (h *Handler) GetOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	orgID, err := pathUUID(r, "organizationId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	view, err := h.svc.GetOrganization(r.Context(), me, orgID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AssignResponsibleHandler обрабатывает POST /api/organizations/{organizationId}/responsibles
func (h *Handler) AssignResponsibleHandler(w http.ResponseWriter, r *http.Request) {
	me, err := actorID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	orgID, err := pathUUID(r, "organizationId")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(w, r, &input); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.svc.AssignResponsible(r.Context(), me, orgID, input.Username); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Description: "Responsible assigned."})
}
