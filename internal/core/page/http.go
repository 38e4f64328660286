// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/references/internal/platform/request"
	"github.com/taibuivan/references/internal/platform/respond"
)

// Handler implements the HTTP layer of reference pages.
type Handler struct {
	service *Service
}

// NewHandler constructs a new page [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the page endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler)
	router.MethodNotAllowed(respond.MethodNotAllowedHandler)

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.get)

	return router
}

/*
GET /api/v1/pages.

Response:
  - 200: []Summary: Every configured page
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.List())
}

/*
GET /api/v1/pages/{slug}.

Response:
  - 200: Rendered: The page references, and tree if configured
  - 404: NOT_FOUND: Unknown slug or page without fields
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	rendered, err := handler.service.Render(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rendered)
}
