// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/app"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// maxPushBodySize leaves room for the request envelope around the largest
// accepted payload.
const maxPushBodySize = validators.MaxPayloadSize + 4<<10

func (h *Handler) pushRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	owner, found := utils.GetOwnerFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pushRecord").Msg("no owner was given")
		http.Error(w, app.MsgNoOwnerProvided, http.StatusUnauthorized)
		return
	}

	var req models.PushRequest
	if err := utils.DecodeJSON(r, &req, maxPushBodySize); err != nil {
		log.Err(err).Str("func", "*Handler.pushRecord").Msg("invalid push body")
		if errors.Is(err, utils.ErrBodyTooLarge) {
			http.Error(w, app.MsgBodyTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	saved, err := h.services.RecordService.Push(ctx, owner, req)
	if err != nil {
		var conflict *store.VersionConflictError
		if errors.As(err, &conflict) {
			log.Info().
				Str("func", "*Handler.pushRecord").
				Str("record_id", req.RecordID).
				Int64("base_version", req.BaseVersion).
				Int64("current_version", conflict.Current.Version).
				Msg("version conflict")
			utils.WriteJSON(w, models.ConflictResponse{
				Message: app.MsgVersionConflict,
				Remote:  conflict.Current,
			}, http.StatusConflict)
			return
		}

		log.Err(err).Str("func", "*Handler.pushRecord").Str("record_id", req.RecordID).Msg("push failed")
		http.Error(w, messageFromError(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.PushResult{
		RecordID:   saved.RecordID,
		Version:    saved.Version,
		Payload:    saved.Payload,
		Deleted:    saved.Deleted,
		ModifiedAt: saved.ModifiedAt,
	}, http.StatusOK)
}

func (h *Handler) pullRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	owner, found := utils.GetOwnerFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pullRecords").Msg("no owner was given")
		http.Error(w, app.MsgNoOwnerProvided, http.StatusUnauthorized)
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.pullRecords").Str("since", raw).Msg("invalid cursor")
			http.Error(w, app.MsgInvalidSince, http.StatusBadRequest)
			return
		}
		since = parsed
	}

	response, err := h.services.RecordService.Pull(ctx, owner, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pullRecords").Msg("pull failed")
		http.Error(w, messageFromError(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
