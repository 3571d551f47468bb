// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/identity"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
)

var (
	errRecipeNameRequired = errors.New("нужно название рецепта")
	errNotANumber         = errors.New("ожидается целое число")
)

// humanizeError turns service errors into a message for the status line.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return "Войдите, чтобы синхронизировать рецепты (a: вход)"
	case errors.Is(err, service.ErrSyncCancelled):
		return "Синхронизация остановлена"
	case errors.Is(err, service.ErrNotConflicted):
		return "Конфликт уже разрешён"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrRecordDeleted):
		return "Рецепт не найден"
	case errors.Is(err, store.ErrStorageCorruption):
		return "Локальная база повреждена"
	case errors.Is(err, identity.ErrEmptyToken), errors.Is(err, identity.ErrInvalidToken):
		return "Неверный токен"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Сессия истекла, войдите заново"
	case errors.Is(err, validators.ErrValidation):
		return "Некорректные данные: " + err.Error()
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}
