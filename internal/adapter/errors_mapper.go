// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// mapHTTPError converts a non-2xx response into one of the package
// sentinels. It returns nil for 2xx responses.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(status)
	}

	switch {
	case status == http.StatusConflict:
		return conflictFromBody(resp.Body())
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case status == http.StatusRequestTimeout,
		status == http.StatusTooEarly,
		status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, status, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrPermanent, status, body)
	}
}

// mapRequestError classifies an error returned before any response was
// read. Cancellation of the caller's context is passed through untouched so
// the sync manager can tell it apart from a timeout.
func mapRequestError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransient, op, err)
}

func conflictFromBody(body []byte) error {
	var cr models.ConflictResponse
	if err := json.Unmarshal(body, &cr); err != nil || cr.Remote.RecordID == "" {
		// A conflict without the remote copy cannot be resolved locally;
		// retry and let the next pull bring the record in.
		return fmt.Errorf("%w: conflict response without remote record", ErrTransient)
	}
	return &ConflictError{Remote: cr.Remote}
}
