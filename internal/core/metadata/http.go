// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/references/internal/platform/respond"
)

// StateReader reads the job state; [RedisStateStore] implements it.
type StateReader interface {
	Load(ctx context.Context) (State, error)
}

// Handler exposes the job state read-only. Running and stopping the job is
// the business of the refjob command.
type Handler struct {
	state StateReader
}

// NewHandler constructs a new metadata job [Handler].
func NewHandler(state StateReader) *Handler {
	return &Handler{state: state}
}

// Routes returns a [chi.Router] configured with the job endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler)
	router.MethodNotAllowed(respond.MethodNotAllowedHandler)

	router.Get("/metadata", handler.status)

	return router
}

/*
GET /api/v1/jobs/metadata.

Response:
  - 200: State: Progress of the last run, "idle" if it never ran
*/
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	state, err := handler.state.Load(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}
