// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides helpers shared by the client and the reference
// remote: context keys, record id generation, canonical payload hashing,
// per-key locking, JSON responses, the resty HTTP client and JWT helpers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// OwnerCtxKey is the key under which the authenticated owner id is stored in
// a request context.
var OwnerCtxKey = contextKey("owner")

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, OwnerCtxKey, owner)
}

// GetOwnerFromContext retrieves the owner id stored by WithOwner.
// ok is false when the value is missing, empty or has an unexpected type.
func GetOwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(OwnerCtxKey).(string)
	if !ok || owner == "" {
		return "", false
	}
	return owner, true
}
