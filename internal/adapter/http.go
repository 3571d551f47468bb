// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

const (
	pushPath = "/api/records/push"
	pullPath = "/api/records/pull"

	payloadHashHeader = "X-Payload-Hash"
)

type httpRemoteService struct {
	client *utils.HTTPClient
	tokens TokenSource
	logger *logger.Logger
}

// NewHTTPRemoteService constructs an HTTP/REST implementation of
// [RemoteService]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress. Every request carries the bearer token currently
// returned by tokens.
func NewHTTPRemoteService(adapterCfg config.ClientAdapter, tokens TokenSource, logger *logger.Logger) (RemoteService, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	return &httpRemoteService{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		tokens: tokens,
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Push implements [RemoteService]. It POSTs req to /api/records/push.
func (h *httpRemoteService) Push(ctx context.Context, req models.PushRequest) (models.PushResult, error) {
	var result models.PushResult

	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.PushResult{}, err
	}

	if hash, hashErr := utils.PayloadHash(req.Payload); hashErr == nil && hash != "" {
		r.SetHeader(payloadHashHeader, hash)
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post(pushPath)
	if err != nil {
		return models.PushResult{}, mapRequestError(ctx, "push request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("func", "httpRemoteService.Push").
			Str("record_id", req.RecordID).
			Int("status", resp.StatusCode()).
			Msg("push rejected")
		return models.PushResult{}, err
	}
	if result.RecordID == "" || result.Version <= 0 {
		return models.PushResult{}, fmt.Errorf("%w: malformed push response", ErrTransient)
	}

	return result, nil
}

// Pull implements [RemoteService]. It GETs /api/records/pull?since=<RFC3339Nano>.
// A zero since requests every record of the owner.
func (h *httpRemoteService) Pull(ctx context.Context, since time.Time) (models.PullResponse, error) {
	var result models.PullResponse

	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.PullResponse{}, err
	}
	if !since.IsZero() {
		r.SetQueryParam("since", since.UTC().Format(time.RFC3339Nano))
	}

	resp, err := r.SetResult(&result).Get(pullPath)
	if err != nil {
		return models.PullResponse{}, mapRequestError(ctx, "pull request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	return result, nil
}

func (h *httpRemoteService) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.tokens.Token()
	if token == "" {
		return nil, fmt.Errorf("%w: no token", ErrUnauthorized)
	}
	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}
