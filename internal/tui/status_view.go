// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// recentErrors is how many log entries the status screen shows.
const recentErrors = 8

// shownParked caps the parked ids listed on the status screen.
const shownParked = 6

func newSyncSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return s
}

// statusLine is the one-line summary under the records table.
func statusLine(s models.SyncStatus) string {
	line := fmt.Sprintf("Синхронизировано %.0f%% из %d", s.Coverage, s.TotalRecords)
	switch {
	case s.Stale:
		line += " │ " + warnStyle.Render("данные устарели")
	case s.Conflicted > 0:
		line += " │ " + errorStyle.Render(fmt.Sprintf("конфликтов: %d", s.Conflicted))
	case s.NeedsSync:
		line += " │ " + warnStyle.Render("есть изменения")
	default:
		line += " │ " + okStyle.Render("всё отправлено")
	}
	return line
}

func renderStatus(s models.SyncStatus, entries []models.SyncError, queueLen int, parked []string) string {
	var b strings.Builder

	b.WriteString("[ ЗАПИСИ ]\n")
	fmt.Fprintf(&b, "Всего               │ %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "Синхронизировано    │ %d (%.1f%%)\n", s.Synced, s.Coverage)
	fmt.Fprintf(&b, "В очереди           │ %d (в очереди сейчас: %d)\n", s.Pending+s.Syncing, queueLen)
	fmt.Fprintf(&b, "Конфликты           │ %d\n", s.Conflicted)
	fmt.Fprintf(&b, "Анонимные           │ %d\n", s.Anonymous)
	fmt.Fprintf(&b, "Только локально     │ %d\n", s.LocalOnly)
	fmt.Fprintf(&b, "Удаления            │ %d (не подтверждено: %d)\n", s.Tombstones, s.PendingDeletes)

	b.WriteString("\n[ СИНХРОНИЗАЦИЯ ]\n")
	needs := "нет"
	if s.NeedsSync {
		needs = "да"
	}
	fmt.Fprintf(&b, "Нужна синхронизация │ %s\n", needs)
	fmt.Fprintf(&b, "Последняя полная    │ %s\n", timeOrDash(s.LastFullDrain))
	if s.Stale {
		b.WriteString("Снимок              │ " + warnStyle.Render("устарел, база недоступна") + "\n")
	}

	fmt.Fprintf(&b, "\n[ ОТЛОЖЕНО: %d ]\n", len(parked))
	if len(parked) == 0 {
		b.WriteString("нет\n")
	}
	for i, id := range parked {
		if i == shownParked {
			fmt.Fprintf(&b, "… и ещё %d, r: повторить\n", len(parked)-shownParked)
			break
		}
		b.WriteString("! " + fitText(id, 36) + "\n")
	}

	fmt.Fprintf(&b, "\n[ ОШИБКИ: %d ]\n", s.ErrorCount)
	if len(entries) == 0 {
		b.WriteString("нет\n")
	}
	start := max(0, len(entries)-recentErrors)
	for i := len(entries) - 1; i >= start; i-- {
		e := entries[i]
		mark := " "
		if e.Persistent {
			mark = "!"
		}
		fmt.Fprintf(&b, "%s %s %-10s %s %s\n",
			mark,
			e.At.Local().Format("15:04:05"),
			e.Kind,
			fitText(valueOrDash(e.RecordID), 12),
			fitText(e.Message, 48),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}
