// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Field name constants used to scope validation.
const (
	FieldRecordID    = "id"
	FieldOwner       = "owner"
	FieldPayload     = "payload"
	FieldRecipe      = "recipe"
	FieldKind        = "kind"
	FieldBaseVersion = "base_version"
	FieldVersion     = "version"
)

// MaxPayloadSize limits a single recipe document.
const MaxPayloadSize = 256 << 10

var allowedDifficulties = []string{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyHard,
}

// RecordValidator validates records, recipe payloads and push requests.
type RecordValidator struct{}

// NewRecordValidator constructs a RecordValidator.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches on the dynamic type of obj. Supported types are
// models.Record, models.Recipe, models.PushRequest and json.RawMessage
// (a bare payload), as values or pointers.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Record:
		return v.validateRecord(ctx, value, fields...)
	case *models.Record:
		return v.validateRecord(ctx, *value, fields...)

	case models.Recipe:
		return v.validateRecipe(value)
	case *models.Recipe:
		return v.validateRecipe(*value)

	case models.PushRequest:
		return v.validatePushRequest(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value, fields...)

	case json.RawMessage:
		return v.validatePayload(value)

	default:
		return ErrUnsupportedType
	}
}

// validateRecord checks a record before it is written to the local store.
// Default fields: payload and recipe. The id is assigned by the store when
// empty, so it is only checked when asked for explicitly.
func (v *RecordValidator) validateRecord(_ context.Context, rec models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPayload, FieldRecipe}
	}

	for _, f := range fields {
		switch f {
		case FieldRecordID:
			if strings.TrimSpace(rec.ID) == "" {
				return ErrInvalidRecordID
			}
		case FieldOwner:
			if strings.TrimSpace(rec.Owner) == "" {
				return ErrInvalidOwner
			}
		case FieldPayload:
			if err := v.validatePayload(rec.Payload); err != nil {
				return err
			}
		case FieldRecipe:
			recipe, err := decodeRecipe(rec.Payload)
			if err != nil {
				return err
			}
			if err = v.validateRecipe(recipe); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validatePayload(payload json.RawMessage) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyPayload
	}
	if len(trimmed) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrMalformedPayload
	}
	return nil
}

func (v *RecordValidator) validateRecipe(recipe models.Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return ErrEmptyRecipeName
	}
	if recipe.Difficulty != "" && !slices.Contains(allowedDifficulties, strings.ToLower(recipe.Difficulty)) {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, recipe.Difficulty)
	}
	if recipe.PrepTime < 0 || recipe.CookTime < 0 || recipe.TotalTime < 0 {
		return ErrInvalidTime
	}
	if recipe.Servings < 0 {
		return ErrInvalidServings
	}
	for i, ing := range recipe.IngredientsUsed {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient at index %d: %w", i, ErrEmptyIngredient)
		}
	}
	return nil
}

// validatePushRequest checks a push arriving at the remote. Deletes carry no
// payload, every other kind must carry a valid recipe.
func (v *RecordValidator) validatePushRequest(_ context.Context, req models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecordID, FieldKind, FieldBaseVersion, FieldVersion, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldRecordID:
			if strings.TrimSpace(req.RecordID) == "" {
				return ErrInvalidRecordID
			}
		case FieldOwner:
			if strings.TrimSpace(req.Owner) == "" || req.Owner == models.AnonymousOwner {
				return ErrInvalidOwner
			}
		case FieldKind:
			switch req.Kind {
			case models.OperationCreate, models.OperationUpdate, models.OperationDelete:
			default:
				return ErrInvalidKind
			}
		case FieldBaseVersion:
			if req.BaseVersion < 0 {
				return ErrInvalidVersion
			}
		case FieldVersion:
			if req.Version <= 0 {
				return ErrInvalidVersion
			}
		case FieldPayload:
			if req.Kind == models.OperationDelete {
				continue
			}
			if err := v.validatePayload(req.Payload); err != nil {
				return err
			}
			recipe, err := decodeRecipe(req.Payload)
			if err != nil {
				return err
			}
			if err = v.validateRecipe(recipe); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func decodeRecipe(payload json.RawMessage) (models.Recipe, error) {
	var recipe models.Recipe
	if err := json.Unmarshal(payload, &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return recipe, nil
}
