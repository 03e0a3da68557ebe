package testutils

import (
	"context"
	"net/http"

	"tenders/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithEmployee имитирует прошедший Authenticate: кладёт id сотрудника в контекст запроса.
func WithEmployee(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(auth.ContextWithEmployee(req.Context(), id))
}
