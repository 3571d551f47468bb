// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, withLogging, withGZip)

	// routes without authorization
	router.Get("/api/version/", h.getServerInfo)

	// owner-scoped routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.withPayloadHash).Post("/api/records/push", h.pushRecord)
		r.Get("/api/records/pull", h.pullRecords)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
