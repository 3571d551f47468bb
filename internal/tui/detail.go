// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

func minutes(v int) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d мин", v)
}

func renderRecipe(b *strings.Builder, r models.Recipe) {
	fmt.Fprintf(b, "Название   │ %s\n", valueOrDash(r.Name))
	fmt.Fprintf(b, "Описание   │ %s\n", valueOrDash(r.Description))
	fmt.Fprintf(b, "Сложность  │ %s\n", valueOrDash(r.Difficulty))
	if r.Servings > 0 {
		fmt.Fprintf(b, "Порции     │ %d\n", r.Servings)
	} else {
		b.WriteString("Порции     │ -\n")
	}
	fmt.Fprintf(b, "Время      │ %s (подг. %s, готовка %s)\n", minutes(r.TotalTime), minutes(r.PrepTime), minutes(r.CookTime))
	fmt.Fprintf(b, "Теги       │ %s\n", valueOrDash(strings.Join(r.Tags, ", ")))

	if len(r.IngredientsUsed) > 0 {
		b.WriteString("\n[ ИНГРЕДИЕНТЫ ]\n")
		for _, in := range r.IngredientsUsed {
			if in.Amount != "" {
				fmt.Fprintf(b, "  • %s, %s\n", in.Name, in.Amount)
			} else {
				fmt.Fprintf(b, "  • %s\n", in.Name)
			}
		}
	}
	if len(r.Instructions) > 0 {
		b.WriteString("\n[ ПРИГОТОВЛЕНИЕ ]\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(b, "  %d. %s\n", i+1, step)
		}
	}
}

func renderDetail(rec models.Record) (body, hotKeys string) {
	var b strings.Builder

	b.WriteString("[ РЕЦЕПТ ]\n")
	renderRecipe(&b, decodeRecipe(rec.Payload))

	b.WriteString("\n[ СИНХРОНИЗАЦИЯ ]\n")
	fmt.Fprintf(&b, "Статус     │ %s\n", stateLabel(rec.SyncState))
	fmt.Fprintf(&b, "Версия     │ локальная %d, на сервере %s\n", rec.LocalVersion, versionOrDash(rec.RemoteVersion))
	fmt.Fprintf(&b, "Изменён    │ %s\n", timeOrDash(rec.LastLocalModified))
	if rec.LastError != "" {
		fmt.Fprintf(&b, "Ошибка     │ %s\n", rec.LastError)
	}
	if rec.Conflict != nil {
		fmt.Fprintf(&b, "Конфликт   │ на сервере версия %d\n", rec.Conflict.Version)
	}

	hotKeys = "esc: назад │ e: изм. │ d: удалить"
	if rec.SyncState == models.SyncStateConflicted {
		hotKeys += " │ c: разрешить конфликт"
	}
	return strings.TrimRight(b.String(), "\n"), hotKeys
}
