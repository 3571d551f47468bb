// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

func renderConflict(rec models.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[ НА УСТРОЙСТВЕ ] основано на версии %d\n", rec.BaseVersion())
	if rec.Deleted {
		b.WriteString("удалён\n")
	} else {
		renderRecipe(&b, decodeRecipe(rec.Payload))
	}

	b.WriteString("\n")
	if rec.Conflict == nil {
		b.WriteString("[ НА СЕРВЕРЕ ]\n-\n")
		return strings.TrimRight(b.String(), "\n")
	}

	fmt.Fprintf(&b, "[ НА СЕРВЕРЕ ] версия %d, %s\n", rec.Conflict.Version, timeOrDash(rec.Conflict.ModifiedAt))
	if rec.Conflict.Deleted {
		b.WriteString("удалён\n")
	} else {
		renderRecipe(&b, decodeRecipe(rec.Conflict.Payload))
	}
	return strings.TrimRight(b.String(), "\n")
}

// mergeBase picks the recipe a custom merge starts from: the local side
// unless it was deleted.
func mergeBase(rec models.Record) models.Recipe {
	if !rec.Deleted {
		return decodeRecipe(rec.Payload)
	}
	if rec.Conflict != nil {
		return decodeRecipe(rec.Conflict.Payload)
	}
	return models.Recipe{}
}
