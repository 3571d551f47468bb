// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

// confirmModel asks before a record is tombstoned.
type confirmModel struct {
	recordID string
	name     string
}

func (m confirmModel) View() string {
	content := "Удалить рецепт \"" + m.name + "\"?\n\n"
	content += "y да    n нет"
	return overlayBoxStyle.Render(content)
}
