// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/cameronsaddress/SnapChef-sub018/internal/app"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
)

type errorResponse struct {
	status int
	// message is sent to the caller. Empty means the error text itself.
	message string
}

// errorStatusList is ordered: the first match wins.
var errorStatusList = []struct {
	target error
	errorResponse
}{
	{service.ErrTokenIsExpiredOrInvalid, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrValidationNoOwner, errorResponse{http.StatusUnauthorized, app.MsgNoOwnerProvided}},
	{service.ErrUnauthorizedAccessToDifferentUserData, errorResponse{http.StatusForbidden, app.MsgAccessDenied}},
	{store.ErrOwnerMismatch, errorResponse{http.StatusForbidden, app.MsgAccessDenied}},
	{store.ErrVersionConflict, errorResponse{http.StatusConflict, app.MsgVersionConflict}},
	{validators.ErrValidation, errorResponse{http.StatusBadRequest, ""}},
}

func lookupError(err error) (errorResponse, bool) {
	for _, e := range errorStatusList {
		if errors.Is(err, e.target) {
			return e.errorResponse, true
		}
	}
	return errorResponse{}, false
}

func statusFromError(err error) int {
	if resp, ok := lookupError(err); ok {
		return resp.status
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	resp, ok := lookupError(err)
	switch {
	case !ok:
		return app.MsgInternalServerError
	case resp.message == "":
		return err.Error()
	default:
		return resp.message
	}
}
