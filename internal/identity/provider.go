// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity holds the current user identity of the client.
//
// The sync engine does not authenticate anybody itself: it only needs to know
// who owns new records, whether pushes may be attempted at all, and which
// bearer token to present to the remote service. A [Provider] answers these
// questions and notifies subscribers when a user signs in, which is when
// anonymous records are claimed.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

var (
	ErrEmptyToken   = errors.New("empty token")
	ErrInvalidToken = errors.New("invalid token")
)

// SignInFunc is called after a successful sign-in with the new owner id.
type SignInFunc func(ctx context.Context, owner string)

// Provider tracks the signed-in user. The zero value is not usable; create
// one with NewProvider.
type Provider struct {
	mu    sync.RWMutex
	token string
	owner string

	listenersMu sync.Mutex
	listeners   []SignInFunc

	logger *logger.Logger
}

// NewProvider creates a provider. A non-empty token signs the user in
// immediately without notifying listeners, which is how a saved session is
// restored at startup.
func NewProvider(token string, log *logger.Logger) (*Provider, error) {
	p := &Provider{logger: log}
	if strings.TrimSpace(token) == "" {
		return p, nil
	}

	owner, err := ownerFromToken(token)
	if err != nil {
		return nil, err
	}
	p.token, p.owner = strings.TrimSpace(token), owner
	return p, nil
}

// Owner returns the current owner id, or models.AnonymousOwner when nobody is
// signed in.
func (p *Provider) Owner() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.owner == "" {
		return models.AnonymousOwner
	}
	return p.owner
}

func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.owner != ""
}

// Token implements adapter.TokenSource.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// SignIn installs token and notifies the sign-in listeners in registration
// order. The owner id is the token's subject.
func (p *Provider) SignIn(ctx context.Context, token string) error {
	owner, err := ownerFromToken(token)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "Provider.SignIn").Msg("rejected token")
		return err
	}

	p.mu.Lock()
	p.token, p.owner = strings.TrimSpace(token), owner
	p.mu.Unlock()

	p.logger.Info().Str("func", "Provider.SignIn").Str("owner", owner).Msg("signed in")

	p.listenersMu.Lock()
	listeners := append([]SignInFunc(nil), p.listeners...)
	p.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(ctx, owner)
	}
	return nil
}

// SignOut forgets the token. Records already claimed keep their owner.
func (p *Provider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token, p.owner = "", ""
}

// OnSignIn registers fn to run after every successful SignIn.
func (p *Provider) OnSignIn(fn SignInFunc) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func ownerFromToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	owner, err := utils.ParseSubjectFromJWT(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if owner == models.AnonymousOwner {
		return "", fmt.Errorf("%w: reserved subject", ErrInvalidToken)
	}
	return owner, nil
}
