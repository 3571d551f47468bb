// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// decodeRecipe reads the fields the UI shows. A payload that is not a recipe
// yields a zero value.
func decodeRecipe(payload json.RawMessage) models.Recipe {
	var r models.Recipe
	if len(payload) == 0 {
		return r
	}
	_ = json.Unmarshal(payload, &r)
	return r
}

func stateLabel(s models.SyncState) string {
	switch s {
	case models.SyncStateSynced:
		return "синхр."
	case models.SyncStatePending:
		return "в очереди"
	case models.SyncStateSyncing:
		return "отправка"
	case models.SyncStateConflicted:
		return "конфликт"
	case models.SyncStateAnonymous:
		return "аноним"
	case models.SyncStateLocalOnly:
		return "локально"
	default:
		return string(s)
	}
}

func stateIcon(s models.SyncState) string {
	switch s {
	case models.SyncStateSynced:
		return okStyle.Render("●")
	case models.SyncStateConflicted:
		return errorStyle.Render("!")
	case models.SyncStatePending, models.SyncStateSyncing:
		return warnStyle.Render("↑")
	default:
		return "○"
	}
}

func renderRecordTable(items []models.Record, idx int) string {
	if len(items) == 0 {
		return "Рецептов нет"
	}

	var b strings.Builder
	b.WriteString("   №  │ Рецепт                   │ Порции │ Статус\n")
	b.WriteString("──────┼──────────────────────────┼────────┼────────────\n")
	for i, rec := range items {
		cursor := " "
		if i == idx {
			cursor = ">"
		}

		r := decodeRecipe(rec.Payload)
		servings := "-"
		if r.Servings > 0 {
			servings = fmt.Sprintf("%d", r.Servings)
		}

		fmt.Fprintf(&b, "%s %s %-3d│ %-24s │ %-6s │ %s\n",
			cursor,
			stateIcon(rec.SyncState),
			i+1,
			fitText(valueOrDash(r.Name), 24),
			servings,
			stateLabel(rec.SyncState),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
