// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// PayloadHashHeader carries the hex BLAKE2b-256 digest of the canonical
// payload of a pushed record.
const PayloadHashHeader = "X-Payload-Hash"

// withPayloadHash rejects a push whose payload does not match the digest sent
// by the client. Requests without the header pass through unchecked.
func (h *Handler) withPayloadHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := r.Header.Get(PayloadHashHeader)
		if want == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		// read bytes from body
		body, err := io.ReadAll(io.LimitReader(r.Body, maxPushBodySize+1))
		if err != nil {
			log.Err(err).Str("func", "*Handler.withPayloadHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req models.PushRequest
		if err = json.Unmarshal(body, &req); err != nil {
			// the push handler reports malformed bodies
			next.ServeHTTP(w, r)
			return
		}

		got, err := utils.PayloadHash(req.Payload)
		if err != nil || got != want {
			log.Error().Str("func", "*Handler.withPayloadHash").
				Str("record_id", req.RecordID).
				Str("hash from request", want).
				Str("hashed payload", got).
				Msg("hashes are not equal")
			http.Error(w, ErrPayloadHashMismatch.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
