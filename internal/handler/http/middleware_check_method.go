// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler. It
// answers 405 with an Allow header listing the methods registered for the
// exact request path, and 404 when no route has that pattern.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, route := range router.Routes() {
			if route.Pattern != r.URL.Path {
				continue
			}
			for method := range route.Handlers {
				if !slices.Contains(allowed, method) {
					allowed = append(allowed, method)
				}
			}
		}

		if len(allowed) == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
