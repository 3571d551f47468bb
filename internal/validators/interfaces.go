// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for records entering the
// local store and for push requests arriving at the reference remote.
//
// Validation runs before anything is persisted: a record rejected here is
// never written and never enqueued for sync.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Optional field names restrict validation to a subset of fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
