// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every validation failure. Records rejected
// with it are never stored or enqueued.
var ErrValidation = errors.New("validation error")

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
)

// Field-level validation errors. All of them wrap ErrValidation.
var (
	ErrInvalidRecordID   = fmt.Errorf("%w: invalid record id", ErrValidation)
	ErrInvalidOwner      = fmt.Errorf("%w: invalid owner", ErrValidation)
	ErrEmptyPayload      = fmt.Errorf("%w: payload is required", ErrValidation)
	ErrMalformedPayload  = fmt.Errorf("%w: payload is not a JSON object", ErrValidation)
	ErrPayloadTooLarge   = fmt.Errorf("%w: payload is too large", ErrValidation)
	ErrEmptyRecipeName   = fmt.Errorf("%w: recipe name is required", ErrValidation)
	ErrInvalidDifficulty = fmt.Errorf("%w: unknown difficulty", ErrValidation)
	ErrInvalidTime       = fmt.Errorf("%w: time must not be negative", ErrValidation)
	ErrInvalidServings   = fmt.Errorf("%w: servings must not be negative", ErrValidation)
	ErrEmptyIngredient   = fmt.Errorf("%w: ingredient name is required", ErrValidation)
	ErrInvalidKind       = fmt.Errorf("%w: invalid operation kind", ErrValidation)
	ErrInvalidVersion    = fmt.Errorf("%w: invalid version", ErrValidation)
)
